package embedding

import (
	"context"
	"errors"
)

// ErrRateLimited is wrapped by every adapter when the backend answers with a
// rate limit (HTTP 429 or RESOURCE_EXHAUSTED).
var ErrRateLimited = errors.New("embedding backend rate limit exceeded")

type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	// BatchEmbedding returns one vector per text, in input order.
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}
