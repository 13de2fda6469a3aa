package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"insights-chat/internal/config"
	"insights-chat/internal/dataset"
	"insights-chat/internal/middleware"
	"insights-chat/internal/models"
	"insights-chat/internal/observability"
	"insights-chat/internal/query"
	"insights-chat/internal/server"
	"insights-chat/internal/ui/templates"
)

const (
	renderTimeout  = 10 * time.Second
	csvLoadTimeout = 30 * time.Second
	maxBodyBytes   = 64 << 10
)

// handleChat renders a fresh conversation: the welcome message plus the
// example questions.
func handleChat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	welcome := models.ChatMessage{
		ID:        uuid.NewString(),
		Content:   query.WelcomeMessage,
		Sender:    models.SenderAssistant,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := templates.Page(welcome, query.ExampleQuestions).Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// loadDataset returns the built-in sample unless a CSV file is configured.
func loadDataset(cfg config.DatasetConfig, logger *slog.Logger) (*dataset.Dataset, error) {
	if cfg.CSVFile == "" {
		logger.Info("using built-in sample dataset")
		return dataset.Sample(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), csvLoadTimeout)
	defer cancel()

	start := time.Now()
	ds, err := dataset.LoadCSV(ctx, cfg.CSVFile)
	if err != nil {
		return nil, err
	}
	logger.Info("CSV data loaded successfully", "duration", time.Since(start))
	return ds, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	ds, err := loadDataset(cfg.Dataset, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	service := query.NewService(
		query.NewDispatcher(ds),
		query.WithDelay(cfg.Query.Delay),
		query.WithLogger(logger),
	)

	templateHandlers := &server.TemplateHandlers{
		Chat: handleChat,
	}

	srv := server.NewServer(service, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		middleware.BodyLimit(maxBodyBytes),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook("query stats", func(ctx context.Context) error {
		logger.Info("query service stopped", "stats", service.Stats())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
