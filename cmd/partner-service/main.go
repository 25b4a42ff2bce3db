package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/LavaJover/shvark-partner-service/internal/app"
	"github.com/LavaJover/shvark-partner-service/internal/config"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zapLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v\n", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to init partner service", zap.Error(err))
	}

	if err := application.Run(ctx); err != nil {
		zapLogger.Error("partner service stopped with error", zap.Error(err))
		return
	}
	zapLogger.Info("partner service stopped")
}
