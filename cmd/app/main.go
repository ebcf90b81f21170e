package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"followupgen/internal/config"
	"followupgen/internal/httpserver"
	"followupgen/internal/interview"
	"followupgen/internal/llm"
	"followupgen/internal/retry"
	"followupgen/internal/transport"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	if !llm.IsKnownModel(cfg.OpenAI.Model) {
		logger.Warn("model is not in the known list", slog.String("model", cfg.OpenAI.Model))
	}

	httpClient := transport.NewHTTPClient(cfg.RequestTimeout)
	var doer openai.HTTPDoer = httpClient
	retryPolicy := retry.PolicyWithAttempts(cfg.Retry.MaxAttempts)
	if cfg.Retry.MaxAttempts > 1 {
		doer = retry.NewDoer(httpClient, retryPolicy, logger.With(slog.String("model", cfg.OpenAI.Model)))
	}
	llmClient := llm.NewOpenAIClient(cfg.OpenAI, doer, logger)

	service := interview.NewService(interview.ServiceConfig{
		Client:      llmClient,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
		Logger:      logger,
	})
	followups := interview.NewHandler(interview.HandlerDeps{
		Generator: service,
		Logger:    logger,
	})

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger:           logger,
		FollowupsHandler: followups,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg.RequestTimeout, retryPolicy, cfg.Retry.MaxAttempts),
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("model", llm.ModelName(cfg.OpenAI.Model)),
			slog.Int("retry_attempts", cfg.Retry.MaxAttempts))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// writeTimeout покрывает все попытки к провайдеру и паузы между ними,
// иначе сервер оборвёт ответ раньше, чем провайдер успеет ответить.
func writeTimeout(requestTimeout time.Duration, policy retry.Policy, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	n := time.Duration(attempts)
	return requestTimeout*n + (n-1)*policy.MaxDelay + 15*time.Second
}

func newLogger(level string) *slog.Logger {
	slogLevel := slog.LevelInfo
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
}
