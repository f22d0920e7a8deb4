package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/karthiksivt/chatbot-local/internal/config"
	"github.com/karthiksivt/chatbot-local/internal/corpus"
	"github.com/karthiksivt/chatbot-local/internal/limiter"
	"github.com/karthiksivt/chatbot-local/internal/llm"
	"github.com/karthiksivt/chatbot-local/internal/metrics"
	"github.com/karthiksivt/chatbot-local/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cvText, err := corpus.Load(cfg.CVPath)
	if err != nil {
		logger.Fatal("Failed to load CV text", zap.String("path", cfg.CVPath), zap.Error(err))
	}

	metrics.Register()

	lim := limiter.New(cfg.MaxPerDay, cfg.MaxPerMinute)
	client := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)

	srv := server.New(logger, lim, client, server.Options{
		CVText:          cvText,
		MaxOutputTokens: cfg.MaxOutputTokens,
		AllowedOrigins:  cfg.AllowedOrigins,
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
		// The write timeout must cover a full completion call; the original
		// design waits for the upstream without its own deadline.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("addr", httpSrv.Addr),
			zap.String("model", cfg.OpenAIModel),
			zap.Int("maxPerDay", cfg.MaxPerDay),
			zap.Int("maxPerMinute", cfg.MaxPerMinute),
		)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
}
