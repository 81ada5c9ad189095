package app

import (
	"context"
	"fmt"
	"log/slog"

	"realm/internal/config"
	"realm/internal/infrastructure/files"
	httpserver "realm/internal/infrastructure/http"
	"realm/internal/infrastructure/llm"
	"realm/internal/infrastructure/parser"
	"realm/internal/infrastructure/storage"
	"realm/internal/logging"
	"realm/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	store  *storage.SQLiteRepository
	server *httpserver.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if cfg.LLM.APIKey == "" {
		baseLogger.Warn("PPLX_KEY environment variable not found. Please set it before making API calls.")
	}

	store, err := storage.NewSQLiteRepository(cfg.Database.Path, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("open conversation store: %w", err)
	}

	fileStore, err := files.NewStore(cfg.Files.UploadsDir, cfg.Files.ContentsDir, baseLogger.With("component", "files"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init file store: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Generator: llm.NewClient(cfg.LLM, baseLogger.With("component", "llm")),
		Extractor: parser.NewDocumentExtractor(baseLogger.With("component", "parser")),
		Store:     store,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	server := httpserver.NewServer(cfg.Server.Addr, pipeline, store, fileStore,
		baseLogger.With("component", "http"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		store:  store,
		server: server,
	}, nil
}

// Run ensures the bootstrap conversation exists and serves until ctx is
// canceled.
func (a *Application) Run(ctx context.Context) error {
	conversation, err := a.store.EnsureInitialConversation(ctx)
	if err != nil {
		return fmt.Errorf("ensure initial conversation: %w", err)
	}
	a.logger.Info("initial conversation ready", "conversation_id", conversation.ID)

	return a.server.Start(ctx)
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.store.Close()
}
