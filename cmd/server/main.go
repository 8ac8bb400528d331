package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/banodoco/Reigh-sub009/internal/api"
	"github.com/banodoco/Reigh-sub009/internal/pkg/config"
	"github.com/banodoco/Reigh-sub009/internal/pkg/logger"
	"github.com/banodoco/Reigh-sub009/internal/pkg/redis"
	"github.com/banodoco/Reigh-sub009/internal/repository"
	"github.com/banodoco/Reigh-sub009/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting task orchestration service")

	// Initialize database
	if err := repository.InitDB(cfg.Database.Path); err != nil {
		zap.L().Fatal("Failed to initialize database",
			zap.Error(err))
	}
	defer repository.Close()

	// Initialize Redis (optional)
	if err := redis.Init(cfg); err != nil {
		zap.L().Warn("Redis initialization failed, poll rate limiting will be disabled",
			zap.Error(err))
	} else {
		defer redis.Close()
	}

	// Heartbeat monitor: sweeps orphaned tasks back into the queue
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go service.NewMonitor(cfg).Start(ctx)

	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Create router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Setup routes
	api.SetupRouter(r)

	logger.Info("Listening",
		zap.String("addr", cfg.GetServerAddr()))

	// Start server
	if err := r.Run(cfg.GetServerAddr()); err != nil {
		zap.L().Fatal("Failed to start server",
			zap.Error(err))
	}
}
