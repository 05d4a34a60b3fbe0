package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnpath/backend/cache"
	"learnpath/backend/config"
	"learnpath/backend/llm"
	"learnpath/backend/middleware"
	"learnpath/backend/routes"
	"learnpath/backend/store"
	"learnpath/backend/utils"
	"learnpath/backend/youtube"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()
	if !cfg.EnvFileLoaded {
		logger.Info("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	st := store.Open(ctx, cfg, logger)
	defer st.Close()

	deps := routes.Dependencies{Store: st, Cfg: cfg, Log: logger}

	if cfg.OpenAI.Usable() {
		deps.Completer = llm.NewOpenAIClient(cfg.OpenAI.Key, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		logger.Info("completion provider enabled", "model", cfg.OpenAIModel)
	} else {
		logger.Info("no usable OPENAI_API_KEY, roadmaps and chat run in demo mode")
	}

	if cfg.YouTube.Usable() {
		yt, err := youtube.NewClient(ctx, cfg.YouTube.Key, cfg.YouTubeQPS)
		if err != nil {
			logger.Warn("video provider unavailable, serving demo videos", "error", err)
		} else {
			deps.Searcher = yt
		}
	} else {
		logger.Info("no usable YOUTUBE_API_KEY, video search runs in demo mode")
	}

	if cfg.RedisAddr != "" {
		vc, err := cache.NewRedisVideoCache(ctx, cfg.RedisAddr, cfg.VideoCacheTTL, logger)
		if err != nil {
			logger.Warn("video cache disabled", "error", err)
		} else {
			defer vc.Close()
			deps.VideoCache = vc
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, deps)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("server listening", "port", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
