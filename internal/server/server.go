package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/medidiet/backend/config"
	"github.com/pageza/medidiet/backend/internal/api"
	"github.com/pageza/medidiet/backend/internal/database"
	"github.com/pageza/medidiet/backend/internal/metrics"
	"github.com/pageza/medidiet/backend/internal/middleware"
	"github.com/pageza/medidiet/backend/internal/service"
)

// Dependencies are the components the HTTP layer is built from. Redis is
// optional.
type Dependencies struct {
	DB              *gorm.DB
	Redis           *redis.Client
	Auth            service.IAuthService
	Recommendations service.IRecommendationService
	Recipes         api.RecipeReader
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New wires middleware and routes onto a fresh gin engine.
func New(cfg *config.Config, deps Dependencies) *Server {
	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger, "/health", "/metrics"),
		m.Middleware(),
		middleware.CORS(cfg.Server.CORSOrigins),
	)

	checks := map[string]api.Pinger{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, deps.DB) },
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}
	api.NewHealthHandler(checks, logger).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	var tokens middleware.TokenValidator
	if cfg.Auth.RequireToken {
		tokens = deps.Auth
	}
	api.NewAuthHandler(deps.Auth).RegisterRoutes(&router.RouterGroup)
	api.NewRecommendationHandler(deps.Recommendations, deps.Recipes, tokens).RegisterRoutes(router.Group("/api"))

	return &Server{
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Handler exposes the routed engine.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.http.Shutdown(ctx)
}

// ShutdownTimeout falls back to five seconds when unset.
func ShutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 5 * time.Second
}
