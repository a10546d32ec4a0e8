package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func azureConfig(url string) config.Backends {
	ep := config.Endpoint{Endpoint: url, APIKey: "k", APIVersion: "2024-02-01", Deployment: "d"}
	return config.Backends{Provider: config.ProviderAzure, Embedding: ep, Chat: ep}
}

func TestConnect_Incomplete(t *testing.T) {
	_, err := Connect(context.Background(), config.Backends{Provider: config.ProviderAzure})
	assert.ErrorIs(t, err, config.ErrIncompleteBackend)
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name       string
		chatStatus int
		wantErr    bool
	}{
		{"both backends answer", http.StatusOK, false},
		{"chat backend rejects", http.StatusUnauthorized, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				if strings.HasSuffix(r.URL.Path, "/embeddings") {
					_, _ = io.WriteString(w, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2]}],"model":"d","usage":{"prompt_tokens":1,"total_tokens":1}}`)
					return
				}
				w.WriteHeader(tt.chatStatus)
				if tt.chatStatus != http.StatusOK {
					_, _ = io.WriteString(w, `{"error":{"message":"denied"}}`)
					return
				}
				_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","created":0,"model":"d","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"hi"}}]}`)
			}))
			defer srv.Close()

			clients, err := Connect(context.Background(), azureConfig(srv.URL))
			require.NoError(t, err)

			err = clients.Probe(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrProbeFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
