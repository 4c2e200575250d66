package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-intake-bot/backend/internal/archive"
	"chat-intake-bot/backend/internal/observability"
	"chat-intake-bot/backend/pkg/config"
	"chat-intake-bot/backend/pkg/di"
	"chat-intake-bot/backend/pkg/logger"
	"chat-intake-bot/backend/pkg/router"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	appLog := logger.New(logConfig)
	logger.SetGlobal(appLog)

	appLog.Info("starting chat backend", "env", cfg.Server.Env)

	// Tracing and metrics
	shutdownTracing, err := observability.SetupTracing("chat-intake-bot")
	if err != nil {
		appLog.LogError(err, "failed to initialize tracing")
		os.Exit(1)
	}
	defer shutdownTracing()

	if _, err := observability.SetupMeterProvider(); err != nil {
		appLog.LogError(err, "failed to initialize metrics")
		os.Exit(1)
	}

	// Relational record store
	db, err := config.NewDB()
	if err != nil {
		appLog.LogError(err, "failed to initialize database")
		os.Exit(1)
	}

	if err := db.AutoMigrate(archive.AllModels()...); err != nil {
		appLog.LogError(err, "failed to migrate database")
		os.Exit(1)
	}

	if err := archive.SeedCatalog(db); err != nil {
		appLog.LogError(err, "failed to seed intent catalog")
		os.Exit(1)
	}

	// Session store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		appLog.LogError(err, "failed to connect to redis", "addr", cfg.Redis.Addr)
		os.Exit(1)
	}
	cancelPing()

	// Dependency wiring
	container, err := di.New(db, rdb, cfg, appLog)
	if err != nil {
		appLog.LogError(err, "failed to initialize dependency container")
		os.Exit(1)
	}

	r := router.New(container)
	r.SetupRoutes()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r.Engine,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		appLog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.LogError(err, "server failed to start")
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.LogError(err, "server forced to shutdown")
	}

	if err := container.Close(); err != nil {
		appLog.LogError(err, "failed to close dependencies")
	}

	appLog.Info("server exited gracefully")
}
