// @title           PDF Chat RAG API
// @version         1.0
// @description     Upload PDFs into a per-session index, chat with retrieval-augmented answers and score them.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/ragchat/internal/config"
	"github.com/akolanti/ragchat/internal/data/store"
	"github.com/akolanti/ragchat/internal/handlers"
	"github.com/akolanti/ragchat/internal/mcpserver"
	"github.com/akolanti/ragchat/internal/middleware"
	"github.com/akolanti/ragchat/internal/rag"
	"github.com/akolanti/ragchat/internal/rag/backend"
	"github.com/akolanti/ragchat/internal/server"
	"github.com/akolanti/ragchat/internal/session"
	"github.com/akolanti/ragchat/pkg/logger_i"
)

var (
	listenAddr   string
	settingsFile string
)

func main() {

	config.LoadEnv()

	//config
	flag.StringVar(&settingsFile, "settings", os.Getenv("SETTINGS_FILE"), "optional YAML settings file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides the settings file")
	flag.Parse()

	settings, err := config.LoadSettings(settingsFile)
	logger_i.Init(settings)
	var logger = logger_i.NewLogger("main")
	if err != nil {
		logger.Error("Invalid settings", "file", settingsFile, "error", err)
		return
	}
	if listenAddr == "" {
		listenAddr = settings.ListenAddr
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	transcripts := store.GetTranscriptStore(serviceContext, settings.Redis)

	//backends from the environment are the default for new sessions
	envBackends := config.BackendsFromEnv()
	defaultBackends, err := backend.Connect(serviceContext, envBackends)
	if err != nil {
		logger.Warn("Backends not configured from environment, sessions must call PUT /config", "error", err, "missing", envBackends.Missing())
		defaultBackends = nil
	}

	stores, err := session.NewStoreFactory(serviceContext, settings)
	if err != nil {
		logger.Error("Vector store failed to initialize. Shutting down.", "error", err)
		return
	}
	registry := session.NewRegistry(settings, stores, transcripts, defaultBackends)

	ragService := rag.NewService(settings.Chunking, rag.LLMJudgeFactory)

	handlers.InitHandlers(handlers.Dependencies{
		Registry:    registry,
		Service:     ragService,
		Transcripts: transcripts,
		EnvBackends: envBackends,
	})
	middleware.InitMiddleware(registry)

	mcpHandler := mcpserver.NewHandler(mcpserver.NewServer(registry, ragService, transcripts))

	logger.Info("Starting server", "addr", listenAddr, "indexBackend", settings.IndexBackend, "defaultBackends", defaultBackends != nil)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, mcpHandler)

	<-stopExecution
	logger.Info("Server stopped")
}
