package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokoproduk/internal/config"
	"tokoproduk/internal/database"
	"tokoproduk/pkg/logger"
	"tokoproduk/pkg/metrics"
	"tokoproduk/pkg/rabbitmq"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	serviceName     = "toko-products"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: serviceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// --- Database ---
	// The service refuses to start without a reachable store.
	db, err := database.Open(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// --- Product events ---
	deps := Dependencies{
		Config:  cfg,
		DB:      db,
		Logger:  log,
		Metrics: metrics.New("toko"),
	}

	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Warn("RabbitMQ unavailable, product events disabled", zap.Error(err))
		} else {
			deps.Publisher = mqClient
			log.Info("Publishing product events", zap.String("queue", mqClient.Queue()))
		}
	}

	app := NewApp(deps)

	// --- HTTP server ---
	go func() {
		log.Info("Starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("Error during server shutdown", zap.Error(err))
	}

	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ client", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	log.Info("Server gracefully stopped")
}
