package handlers

import (
	"context"
	"net/http"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/data/store"
	"github.com/akolanti/ragchat/internal/rag"
	"github.com/akolanti/ragchat/internal/rag/backend"
	"github.com/akolanti/ragchat/internal/session"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

var logRH = logger_i.NewLogger("Request Handler")

var (
	registry    *session.Registry
	ragService  rag.Service
	transcripts store.TranscriptStore
	envBackends config.Backends
	connect     = backend.Connect
)

// Dependencies are the collaborators shared by every handler.
type Dependencies struct {
	Registry    *session.Registry
	Service     rag.Service
	Transcripts store.TranscriptStore
	// EnvBackends is the configuration read at startup. Session updates are
	// laid over it.
	EnvBackends config.Backends
	Connect     func(ctx context.Context, cfg config.Backends) (*backend.Clients, error)
}

func InitHandlers(deps Dependencies) {
	registry = deps.Registry
	ragService = deps.Service
	transcripts = deps.Transcripts
	envBackends = deps.EnvBackends
	if deps.Connect != nil {
		connect = deps.Connect
	}
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
