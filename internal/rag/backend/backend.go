// Package backend turns a named-parameter configuration into live embedding
// and chat clients.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/customHttpClient"
	"github.com/akolanti/ragchat/internal/domain/ragModel"
	"github.com/akolanti/ragchat/internal/metrics"
	"github.com/akolanti/ragchat/internal/rag/embedding"
	"github.com/akolanti/ragchat/internal/rag/embedding/azureEmbedding"
	"github.com/akolanti/ragchat/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/ragchat/internal/rag/llm"
	"github.com/akolanti/ragchat/internal/rag/llm/azure"
	"github.com/akolanti/ragchat/internal/rag/llm/gemini"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

var ErrProbeFailed = errors.New("backend connectivity probe failed")

var logger = logger_i.NewLogger("backend")

// Clients is one connected pair of embedding and chat backends.
type Clients struct {
	Config   config.Backends
	Embedder embedding.Embedder
	Chat     llm.Provider
}

// Connect validates cfg and builds both clients. No request is sent.
func Connect(ctx context.Context, cfg config.Backends) (*Clients, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	httpClient := customHttpClient.Get()

	switch cfg.Provider {
	case config.ProviderGemini:
		emb, err := googleEmbedding.New(ctx, cfg.Embedding, httpClient)
		if err != nil {
			return nil, err
		}
		chat, err := gemini.New(ctx, cfg.Chat, httpClient)
		if err != nil {
			return nil, err
		}
		return &Clients{Config: cfg, Embedder: emb, Chat: chat}, nil
	default:
		return &Clients{
			Config:   cfg,
			Embedder: azureEmbedding.New(cfg.Embedding, httpClient),
			Chat:     azure.New(cfg.Chat, httpClient),
		}, nil
	}
}

// Probe embeds a short text and requests a short completion.
func (c *Clients) Probe(ctx context.Context) error {
	log := logger.FromContext(ctx)

	start := time.Now()
	_, err := c.Embedder.GetEmbedding(ctx, config.ProbeEmbeddingText)
	metrics.CaptureExecutionMetrics("probe_embedding", time.Since(start))
	if err != nil {
		log.Warn("Embedding probe failed", "error", err)
		return fmt.Errorf("%w: embedding: %v", ErrProbeFailed, err)
	}

	start = time.Now()
	_, err = c.Chat.Generate(ctx, []ragModel.ChatTurn{{Role: ragModel.RoleUser, Content: config.ProbeCompletionPrompt}})
	metrics.CaptureExecutionMetrics("probe_chat", time.Since(start))
	if err != nil {
		log.Warn("Chat probe failed", "error", err)
		return fmt.Errorf("%w: chat: %v", ErrProbeFailed, err)
	}

	log.Info("Backend probe succeeded", "provider", c.Config.Provider)
	return nil
}
