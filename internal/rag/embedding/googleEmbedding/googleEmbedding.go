package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/rag/embedding"
	"github.com/akolanti/ragchat/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger = logger_i.NewLogger("google_embedding")
var dimension int32 = config.GeminiEmbeddingDims

type client struct {
	genAi *genai.Client
	model string
}

// New builds a Gemini embedder. A non-empty endpoint.Endpoint overrides the API base URL.
func New(ctx context.Context, endpoint config.Endpoint, httpClient *http.Client) (embedding.Embedder, error) {
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
		logger.Error("Error creating Google Embedding client", "error", err)
		return nil, fmt.Errorf("creating gemini embedding client: %w", err)
	}
	logger.Debug("Google Embedding client created", "model", endpoint.Deployment)
	return &client{genAi: c, model: endpoint.Deployment}, nil
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{query}, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// BatchEmbedding sends the texts in groups of GeminiMaxBatchContents, the most
// a single EmbedContent call accepts.
func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += config.GeminiMaxBatchContents {
		end := min(i+config.GeminiMaxBatchContents, len(texts))

		vectors, err := c.embed(ctx, texts[i:end], "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, err
		}
		results = append(results, vectors...)
	}
	return results, nil
}

func (c *client) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	log := logger.FromContext(ctx)

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, getContent(texts), &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             taskType,
	})
	if err != nil {
		if isRateLimited(err) {
			log.Warn("Rate limit hit", "error", err)
			return nil, fmt.Errorf("%w: %v", embedding.ErrRateLimited, err)
		}
		log.Error("Error getting Embeddings from Google", "error", err)
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embedding: expected %d vectors", len(texts))
	}

	out := make([][]float32, 0, len(result.Embeddings))
	for _, e := range result.Embeddings {
		if e == nil {
			return nil, errors.New("gemini embedding: empty vector in response")
		}
		out = append(out, e.Values)
	}
	return out, nil
}

func getContent(texts []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contentsToSend
}

func isRateLimited(err error) bool {
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	var apiErrPtr *genai.APIError
	return errors.As(err, &apiErrPtr) && apiErrPtr.Code == http.StatusTooManyRequests
}
