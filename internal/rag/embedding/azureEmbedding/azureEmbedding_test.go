package azureEmbedding

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/rag/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) embedding.Embedder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(config.Endpoint{
		Endpoint:   srv.URL,
		APIKey:     "key",
		APIVersion: "2023-05-15",
		Deployment: "emb",
	}, srv.Client())
}

func TestBatchEmbedding(t *testing.T) {
	var gotPath string
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Input []string `json:"input"`
		}
		_ = json.Unmarshal(body, &req)
		assert.Equal(t, []string{"a", "b"}, req.Input)

		w.Header().Set("Content-Type", "application/json")
		// out of order on purpose
		_, _ = io.WriteString(w, `{"object":"list","model":"emb","data":[
			{"object":"embedding","index":1,"embedding":[0,1]},
			{"object":"embedding","index":0,"embedding":[1,0]}],
			"usage":{"prompt_tokens":2,"total_tokens":2}}`)
	})

	vectors, err := e.BatchEmbedding(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
	assert.True(t, strings.Contains(gotPath, "/openai/deployments/emb/embeddings"), gotPath)
}

func TestBatchEmbedding_RateLimited(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":"429","message":"slow down"}}`)
	})

	_, err := e.BatchEmbedding(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, embedding.ErrRateLimited)
}

func TestBatchEmbedding_OtherError(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"code":"401","message":"bad key"}}`)
	})

	_, err := e.BatchEmbedding(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, embedding.ErrRateLimited)
}

func TestBatchEmbedding_Empty(t *testing.T) {
	e := New(config.Endpoint{Endpoint: "http://unused.invalid"}, nil)
	vectors, err := e.BatchEmbedding(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}
