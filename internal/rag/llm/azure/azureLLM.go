package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/rag/llm"
	"github.com/akolanti/ragchat/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("llm_azure")

type llmClient struct {
	api        openai.Client
	deployment string
}

func New(endpoint config.Endpoint, httpClient *http.Client, extra ...option.RequestOption) llm.Provider {
	opts := []option.RequestOption{
		azure.WithEndpoint(endpoint.Endpoint, endpoint.APIVersion),
		azure.WithAPIKey(endpoint.APIKey),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	opts = append(opts, extra...)

	logger.Debug("Azure chat client created", "deployment", endpoint.Deployment)
	return &llmClient{
		api:        openai.NewClient(opts...),
		deployment: endpoint.Deployment,
	}
}

func (c *llmClient) Generate(ctx context.Context, messages []ragModel.ChatTurn) (string, error) {
	log := logger.FromContext(ctx)

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.deployment),
		Messages:    toMessages(messages),
		Temperature: openai.Float(config.ModelTemperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", llm.ErrRateLimited, err)
		}
		log.Error("Azure chat completion failed", "error", err)
		return "", fmt.Errorf("azure chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", llm.ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

func toMessages(turns []ragModel.ChatTurn) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case ragModel.RoleSystem:
			out = append(out, openai.SystemMessage(t.Content))
		case ragModel.RoleAssistant:
			out = append(out, openai.AssistantMessage(t.Content))
		default:
			out = append(out, openai.UserMessage(t.Content))
		}
	}
	return out
}
