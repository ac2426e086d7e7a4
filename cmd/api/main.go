package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/medidiet/backend/config"
	"github.com/pageza/medidiet/backend/internal/database"
	"github.com/pageza/medidiet/backend/internal/logger"
	"github.com/pageza/medidiet/backend/internal/metrics"
	"github.com/pageza/medidiet/backend/internal/repository"
	"github.com/pageza/medidiet/backend/internal/server"
	"github.com/pageza/medidiet/backend/internal/service"
	"github.com/pageza/medidiet/backend/internal/storage"
)

func main() {
	// A missing .env is fine outside development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx := context.Background()
	m := metrics.New()

	db, err := database.New(cfg.Database, zapLogger)
	if err != nil {
		return err
	}
	if err := database.Prepare(db, zapLogger); err != nil {
		return err
	}

	var tokens service.TokenStore = service.NewMemoryTokenStore()
	deps := server.Dependencies{DB: db, Metrics: m, Logger: zapLogger}
	if cfg.Redis.Enabled() {
		client, err := database.NewRedisClient(cfg.Redis, zapLogger)
		if err != nil {
			return err
		}
		defer client.Close()
		tokens = service.NewRedisTokenStore(client)
		deps.Redis = client
	} else {
		zapLogger.Warn("redis not configured, token revocation is per process")
	}

	locale, err := service.LocaleFor(cfg.LLM.Locale)
	if err != nil {
		return err
	}
	llm, err := service.NewLLMService(cfg.LLM, zapLogger, m)
	if err != nil {
		return err
	}

	store := repository.NewRecommendationRepository(db)
	opts := []service.RecommendationOption{
		service.WithLogger(zapLogger),
		service.WithMetrics(m),
	}
	if cfg.Storage.ArchiveEnabled() {
		s3cfg, err := config.NewS3Config(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithArchive(storage.NewS3ArchiveFromConfig(s3cfg)))
		zapLogger.Info("archiving invalid llm replies", zap.String("bucket", s3cfg.BucketName))
	}

	deps.Recommendations = service.NewRecommendationService(service.RecommendationConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Locale:      locale,
		Location:    cfg.App.Location(),
	}, llm, store, opts...)
	deps.Recipes = store
	deps.Auth = service.NewAuthService(cfg.JWT, repository.NewUserRepository(db), tokens, zapLogger, m)

	srv := server.New(cfg, deps)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		zapLogger.Info("received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, server.ShutdownTimeout(cfg))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
