package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/akolanti/ragchat/internal/adapter/utils"
	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/middleware"
	"github.com/akolanti/ragchat/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

// RegisterRoutes mounts the REST API and, when given, the MCP endpoint.
func RegisterRoutes(r *chi.Mux, mcpHandler http.Handler) {
	r.Get("/", middleware.GetHandler)

	r.Post("/documents", middleware.UploadDocumentsHandler)
	r.Delete("/documents", middleware.ClearDocumentsHandler)
	r.Get("/stats", middleware.StatsHandler)
	r.Delete("/session", middleware.ClearSessionHandler)

	r.Post("/chat", middleware.ChatHandler)
	r.Get("/history", middleware.GetHistoryHandler)
	r.Delete("/history", middleware.ClearHistoryHandler)

	r.Get("/search-settings", middleware.GetSearchSettingsHandler)
	r.Put("/search-settings", middleware.PutSearchSettingsHandler)
	r.Get("/config", middleware.GetConfigHandler)
	r.Put("/config", middleware.PutConfigHandler)
	r.Post("/config/test", middleware.TestConfigHandler)

	r.Route("/evaluation", func(r chi.Router) {
		r.Post("/score", middleware.ScoreHandler)
		r.Get("/summary", middleware.SummaryHandler)
		r.Get("/records", middleware.RecordsHandler)
		r.Get("/export", middleware.ExportHandler)
		r.Delete("/", middleware.ClearEvaluationHandler)
	})

	if mcpHandler != nil {
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	}
}

func CreateServer(listenAddr string, mcpHandler http.Handler) {
	r := utils.GetRouter()
	RegisterRoutes(r.Router, mcpHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "error", err)
			}
		}

		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
