package adapter

import (
	"net/http"
	"testing"

	"github.com/akolanti/ragchat/internal/api"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/stretchr/testify/assert"
)

func TestStatusForFailure(t *testing.T) {
	tests := []struct {
		kind ragModel.FailureKind
		want int
	}{
		{ragModel.ConfigurationError, http.StatusFailedDependency},
		{ragModel.IngestionError, http.StatusBadRequest},
		{ragModel.RateLimitError, http.StatusTooManyRequests},
		{ragModel.EvaluationError, http.StatusConflict},
		{ragModel.GenerationError, http.StatusBadGateway},
		{ragModel.RetrievalError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForFailure(&ragModel.Failure{Kind: tt.kind}))
		})
	}
	assert.Equal(t, http.StatusOK, StatusForFailure(nil))
}

func TestToChatResponse(t *testing.T) {
	resp := ToChatResponse("s1", ragModel.Answer{
		Success:     true,
		Response:    "hi",
		UsedRAG:     true,
		ContextDocs: []ragModel.Chunk{{Text: "ctx", SourceFile: "a.pdf", Page: 2, ChunkId: "c1"}},
		ContextText: "ctx",
	})

	assert.Equal(t, []api.ContextDoc{{Text: "ctx", SourceFile: "a.pdf", Page: 2}}, resp.ContextDocs)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "s1", resp.SessionId)
}

func TestMergeBackendConfig(t *testing.T) {
	base := config.Backends{
		Provider:  config.ProviderAzure,
		Embedding: config.Endpoint{Endpoint: "https://env/", APIKey: "env-key", APIVersion: "v1", Deployment: "emb"},
	}
	merged := MergeBackendConfig(base, api.BackendConfigRequest{
		Embedding: api.Endpoint{APIKey: "new-key"},
		Chat:      api.Endpoint{Endpoint: "https://chat/", APIKey: "chat-key", APIVersion: "v2", Deployment: "gpt"},
	})

	assert.Equal(t, "https://env/", merged.Embedding.Endpoint)
	assert.Equal(t, "new-key", merged.Embedding.APIKey)
	assert.Equal(t, "gpt", merged.Chat.Deployment)
	assert.NoError(t, merged.Validate())

	resp := ToBackendConfigResponse("s1", merged)
	assert.True(t, resp.Configured)
	assert.Equal(t, "****", resp.Chat.APIKey)
	assert.Empty(t, resp.Missing)
}
