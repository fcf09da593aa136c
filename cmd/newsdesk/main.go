package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedwire/newsdesk/internal/api"
	"github.com/feedwire/newsdesk/internal/config"
	"github.com/feedwire/newsdesk/internal/curation"
	"github.com/feedwire/newsdesk/internal/logger"
	"github.com/feedwire/newsdesk/internal/middleware"
	"github.com/feedwire/newsdesk/internal/sources"
	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting newsdesk...")

	// Custom source repository: redis-backed when configured,
	// in-memory otherwise.
	var repo sources.Repository
	if cfg.RedisURL != "" {
		redisRepo, err := sources.NewRedisRepository(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis source repository")
		}
		defer func() {
			if err := redisRepo.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing Redis client")
			}
		}()
		repo = redisRepo
	} else {
		log.Warn().Msg("No REDIS_URL configured, custom sources will not survive restarts")
		repo = sources.NewMemoryRepository()
	}

	// Curation: publish sink plus the registered summarization backends.
	publisher := curation.NewRestPublisher(cfg.PublishURL, cfg.PublishToken, cfg.HTTPTimeout)
	manager := curation.NewManager(publisher,
		curation.NewGeminiSummarizer(cfg.AIApiKey, cfg.AIModel, cfg.AITimeout),
		curation.NewOpenAISummarizer(cfg.AIApiKey, cfg.AIModel, cfg.AIEndpoint, cfg.AITimeout),
	)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	api.SetupRoutes(app, cfg, repo, manager)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
