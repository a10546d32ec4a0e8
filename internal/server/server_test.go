package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/data/store"
	"github.com/akolanti/ragchat/internal/handlers"
	"github.com/akolanti/ragchat/internal/middleware"
	"github.com/akolanti/ragchat/internal/rag"
	"github.com/akolanti/ragchat/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	settings := config.DefaultSettings()
	transcripts := store.InitInMemoryTranscriptStore()
	registry := session.NewRegistry(settings, session.MemoryStores(), transcripts, nil)
	handlers.InitHandlers(handlers.Dependencies{
		Registry:    registry,
		Service:     rag.NewService(settings.Chunking, rag.LLMJudgeFactory),
		Transcripts: transcripts,
	})
	middleware.InitMiddleware(registry)

	r := chi.NewRouter()
	mcpHit := false
	RegisterRoutes(r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { mcpHit = true }))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/stats", http.StatusOK},
		{http.MethodGet, "/evaluation/summary", http.StatusOK},
		{http.MethodGet, "/search-settings", http.StatusOK},
		{http.MethodPatch, "/stats", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "10.0.0.1:1234"
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.True(t, mcpHit)
}

func TestHealthCheckStartsNoSession(t *testing.T) {
	registry := session.NewRegistry(config.DefaultSettings(), session.MemoryStores(), store.InitInMemoryTranscriptStore(), nil)
	middleware.InitMiddleware(registry)

	r := chi.NewRouter()
	RegisterRoutes(r, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get(config.SESSION_HEADER))
	assert.Zero(t, registry.Count())
}
