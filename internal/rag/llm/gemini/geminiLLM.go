package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/rag/llm"
	"github.com/akolanti/ragchat/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger = logger_i.NewLogger("llm_gemini")

func New(ctx context.Context, endpoint config.Endpoint, httpClient *http.Client) (llm.Provider, error) {
	cfg := &genai.ClientConfig{
		APIKey:     endpoint.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if endpoint.Endpoint != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: endpoint.Endpoint}
	}

	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	logger.Debug("Gemini client created", "model", endpoint.Deployment)
	return &llmClient{client: c, modelName: endpoint.Deployment}, nil
}

// Generate folds system turns into the system instruction; user and assistant
// turns become the conversation contents.
func (c *llmClient) Generate(ctx context.Context, messages []ragModel.ChatTurn) (string, error) {
	log := logger.FromContext(ctx)

	system, contents := splitTurns(messages)
	contentConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](config.ModelTemperature),
	}
	if system != "" {
		contentConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, contentConfig)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", llm.ErrRateLimited, err)
		}
		log.Error("Gemini generation failed", "error", err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}
	return text, nil
}

func splitTurns(messages []ragModel.ChatTurn) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case ragModel.RoleSystem:
			system = append(system, m.Content)
		case ragModel.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}
