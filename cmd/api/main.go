package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"diecast-store/internal/config"
	"diecast-store/internal/database"
	"diecast-store/internal/logger"
	"diecast-store/internal/server"
)

const migrationsDir = "migrations"

func gracefulShutdown(srv *server.Server, log *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
	done <- true
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger := logger.Must(cfg.Server.Env)
	defer zapLogger.Sync()

	zapLogger.Info("Starting catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(db.DB(), migrationsDir, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient := connectRedis(cfg, zapLogger)

	srv := server.New(cfg, zapLogger, db, redisClient)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, zapLogger, done)

	zapLogger.Info("Server listening", zap.String("addr", ":"+cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zapLogger.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	zapLogger.Info("Graceful shutdown complete")
}

// connectRedis returns nil when Redis is unreachable; the server then runs
// without rate limiting rather than refusing to start.
func connectRedis(cfg *config.Config, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		client.Close()
		return nil
	}

	return client
}
