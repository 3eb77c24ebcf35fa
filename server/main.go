package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-watermark/internal/config"
	"github.com/phambaophuc/image-watermark/internal/http/handlers"
	"github.com/phambaophuc/image-watermark/internal/http/routes"
	"github.com/phambaophuc/image-watermark/internal/services/processor"
	"github.com/phambaophuc/image-watermark/internal/services/queue"
	"github.com/phambaophuc/image-watermark/internal/services/storage"
	"github.com/phambaophuc/image-watermark/internal/services/watermark"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize services
	font, err := processor.LoadFont(cfg.Watermark.FontPath)
	if err != nil {
		logger.Fatal("Failed to load font", zap.String("path", cfg.Watermark.FontPath), zap.Error(err))
	}
	imageProcessor := processor.NewImageProcessor(font, cfg.Watermark.JPEGQuality)

	storageService, err := storage.NewStorageService(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}
	defer storageService.Close()

	watermarkService, err := watermark.NewService(imageProcessor, storageService, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize watermark service", zap.Error(err))
	}

	// Continue without the queue for the synchronous endpoint
	var jobQueue handlers.JobQueue
	queueService, err := queue.NewQueueService(cfg.RabbitMQ, watermarkService, storageService, logger)
	if err != nil {
		logger.Warn("Failed to initialize queue service", zap.Error(err))
	} else {
		defer queueService.Close()
		if err := queueService.StartWorkers(ctx, cfg.RabbitMQ.Workers); err != nil {
			logger.Error("Failed to start queue workers", zap.Error(err))
		}
		jobQueue = queueService
	}

	// Initialize handlers
	watermarkHandler := handlers.NewWatermarkHandler(watermarkService, jobQueue, storageService, logger)

	router := routes.NewRouter(watermarkHandler, logger, cfg.Server)
	defer router.Close()

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	stop()
	if queueService != nil {
		queueService.Wait()
	}

	logger.Info("Server exited")
}
