package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quickquiz-chat/internal/config"
	"quickquiz-chat/internal/handlers"
	"quickquiz-chat/internal/metrics"
	"quickquiz-chat/internal/router"
	"quickquiz-chat/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Quick Quiz chat backend",
		zap.String("env", cfg.Env),
		zap.String("provider", cfg.AIProvider),
	)

	// ──── Step 2: Initialize Completion Provider ────
	completer, closeProvider, err := newCompleter(cfg, logger)
	if err != nil {
		logger.Fatal("AI provider initialization failed", zap.Error(err))
	}
	defer closeProvider()

	// ──── Step 3: Initialize Services & Handlers ────
	m := metrics.New()
	chatService := services.NewChatService(completer, cfg.ProviderAPIKey(), logger)
	chatHandler := handlers.NewChatHandler(chatService, m, logger)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(chatHandler, m, logger, cfg.FrontendURL)

	// No write timeout: the provider call is bounded only by AI_REQUEST_TIMEOUT.
	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("ready", zap.String("addr", "http://localhost:"+cfg.Port+"/api/chat"))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// newCompleter builds the configured provider. A missing key is not fatal:
// the chat endpoint reports it per request instead.
func newCompleter(cfg *config.Config, logger *zap.Logger) (services.Completer, func(), error) {
	noop := func() {}

	key, ok := cfg.ProviderAPIKey().Value()
	if !ok {
		logger.Warn("provider API key not set, chat requests will fail", zap.String("provider", cfg.AIProvider))
		return nil, noop, nil
	}

	switch cfg.AIProvider {
	case config.ProviderGemini:
		gemini, err := services.NewGeminiService(context.Background(), key, cfg.GeminiModel, cfg.AIMaxTokens, cfg.AIRequestTimeout)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Gemini client initialized", zap.String("model", cfg.GeminiModel))
		return gemini, gemini.Close, nil
	case config.ProviderAnthropic:
		anthropic := services.NewAnthropicService(services.AnthropicConfig{
			APIKey:    key,
			BaseURL:   cfg.AnthropicBaseURL,
			Model:     cfg.AnthropicModel,
			MaxTokens: cfg.AIMaxTokens,
			Timeout:   cfg.AIRequestTimeout,
		})
		logger.Info("Anthropic client initialized", zap.String("model", cfg.AnthropicModel))
		return anthropic, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}
}
