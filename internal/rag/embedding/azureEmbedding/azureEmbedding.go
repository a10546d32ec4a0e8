package azureEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/rag/embedding"
	"github.com/akolanti/ragchat/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("azure_embedding")

type client struct {
	api        openai.Client
	deployment string
}

// New builds an embedder for one Azure OpenAI embedding deployment. Retries
// are disabled so that rate limits surface to the caller.
func New(endpoint config.Endpoint, httpClient *http.Client, extra ...option.RequestOption) embedding.Embedder {
	opts := []option.RequestOption{
		azure.WithEndpoint(endpoint.Endpoint, endpoint.APIVersion),
		azure.WithAPIKey(endpoint.APIKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	opts = append(opts, extra...)

	logger.Debug("Azure embedding client created", "deployment", endpoint.Deployment)
	return &client{
		api:        openai.NewClient(opts...),
		deployment: endpoint.Deployment,
	}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	log := logger.FromContext(ctx)

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.deployment),
	})
	if err != nil {
		if isRateLimited(err) {
			log.Warn("Rate limit hit", "error", err)
			return nil, fmt.Errorf("%w: %v", embedding.ErrRateLimited, err)
		}
		log.Error("Error getting Embeddings from Azure", "error", err)
		return nil, fmt.Errorf("azure embedding: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("azure embedding: expected %d vectors, got %d", len(texts), len(resp.Data))
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	out := make([][]float32, len(data))
	for i, d := range data {
		out[i] = toFloat32(d.Embedding)
	}
	return out, nil
}

func isRateLimited(err error) bool {
	var apiErr *openai.Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
