package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"diecast-store/internal/config"
	"diecast-store/internal/database"
	"diecast-store/internal/middleware"
	"diecast-store/internal/repository"
	"diecast-store/internal/service"
	"diecast-store/internal/transport"
)

// Server bundles the HTTP server with the resources it owns.
type Server struct {
	httpServer *http.Server
	db         *database.Service
	redis      *redis.Client
	logger     *zap.Logger
}

// New wires repositories, services, and handlers into a configured HTTP
// server. redisClient may be nil; rate limiting is skipped without it.
func New(cfg *config.Config, log *zap.Logger, db *database.Service, redisClient *redis.Client) *Server {
	productRepo := repository.NewProductRepository(db.DB())
	brandRepo := repository.NewBrandRepository(db.DB())
	categoryRepo := repository.NewCategoryRepository(db.DB())
	reviewRepo := repository.NewReviewRepository(db.DB())

	catalogService := service.NewCatalogService(
		productRepo,
		brandRepo,
		categoryRepo,
		reviewRepo,
		service.Options{
			PageSize:        cfg.Catalog.PageSize,
			FeaturedLimit:   cfg.Catalog.FeaturedLimit,
			RelatedLimit:    cfg.Catalog.RelatedLimit,
			WorkingSetLimit: cfg.Catalog.WorkingSetLimit,
		},
		log,
	)

	catalogHandler := transport.NewCatalogHandler(catalogService, log)

	r := chi.NewRouter()
	r.Use(middleware.DefaultMiddlewareStack()...)
	r.Use(middleware.ErrorHandlingMiddleware(log))
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	if redisClient != nil {
		r.Use(middleware.RateLimitMiddleware(redisClient, middleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         "ratelimit",
		}, log))
	}

	r.Get("/health", healthHandler(db))

	catalogHandler.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	return &Server{
		httpServer: httpServer,
		db:         db,
		redis:      redisClient,
		logger:     log,
	}
}

// ListenAndServe starts accepting connections.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}

	return s.db.Close()
}

func healthHandler(db *database.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := db.Health(r.Context())

		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}

		middleware.RespondWithJSON(w, status, health)
	}
}
