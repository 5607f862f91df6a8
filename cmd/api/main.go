package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/manamitra/companion/backend/internal/config"
	"github.com/manamitra/companion/backend/internal/handler"
	"github.com/manamitra/companion/backend/internal/handler/live"
	"github.com/manamitra/companion/backend/internal/logging"
	"github.com/manamitra/companion/backend/internal/metrics"
	"github.com/manamitra/companion/backend/internal/model/profile"
	"github.com/manamitra/companion/backend/internal/model/resource"
	"github.com/manamitra/companion/backend/internal/service/ai"
	"github.com/manamitra/companion/backend/internal/service/chat"
	"github.com/manamitra/companion/backend/internal/service/sentiment"
	"github.com/manamitra/companion/backend/internal/service/speech"
	"github.com/manamitra/companion/backend/internal/store"
	"github.com/manamitra/companion/backend/internal/store/memory"
	redisstore "github.com/manamitra/companion/backend/internal/store/redis"
	"github.com/manamitra/companion/backend/internal/store/sqlite"
)

var errModelNotConfigured = errors.New("no chat model configured")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("no .env file loaded, continuing with system environment variables only", zap.Error(envErr))
	}

	st, err := openStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer st.Close()
	logger.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sentimentMetrics := metrics.NewSentimentMetrics(registry)

	// The chat model backs both the assistant replies and the sentiment scorer.
	var responder chat.Responder
	var scorer sentiment.Scorer = sentiment.ScorerFunc(func(context.Context, profile.Profile, string) (string, error) {
		return "", errModelNotConfigured
	})
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			logger.Warn("failed to create chat model, continuing without AI functionality", zap.Error(err))
		} else {
			aiService, err := ai.NewService(ctx, chatModel, logger)
			if err != nil {
				logger.Warn("failed to initialize AI service", zap.Error(err))
			} else {
				responder = aiService
			}

			llmScorer, err := sentiment.NewLLMScorer(ctx, chatModel)
			if err != nil {
				logger.Warn("failed to initialize sentiment scorer", zap.Error(err))
			} else {
				scorer = llmScorer
			}
			logger.Info("AI services initialized", zap.String("model", cfg.AI.Model))
		}
	} else {
		logger.Warn("Ark credentials not configured, replies and sentiment scoring are disabled")
	}

	hub := live.NewHub(logger)
	profiles := profile.NewFileSource(cfg.Sentiment.ProfilePath)

	engine := sentiment.NewEngine(st, st, profiles, scorer, sentiment.Options{
		HistoryTurns:  cfg.Sentiment.HistoryTurns,
		ScorerTimeout: cfg.Sentiment.ScorerTimeout,
		Publisher:     hub,
		Metrics:       sentimentMetrics,
		Logger:        logger.Named("sentiment"),
	})

	router := handler.NewRouter(handler.Dependencies{
		Chat:       chat.NewService(st, responder, sentimentMetrics, logger.Named("chat")),
		Sentiment:  engine,
		Hub:        hub,
		Profiles:   profiles,
		Strategies: resource.NewMemoryStore(resource.Seed()),
		Speech:     speech.NewService(nil, nil, 0),
		Gatherer:   registry,
		Logger:     logger,
	})

	startServer(ctx, logger, cfg.Server, router)
}

func openStore(ctx context.Context, cfg config.StorageConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case config.DriverRedis:
		return redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Manamitra backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
