package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/bootstrap"
	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/handlers"
	"alfredoptarigan/resume-matcher/internal/logger"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		stdlog.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Invalid configuration", zap.Error(err))
	}
	log.Info("✅ Config loaded successfully")

	// Initialize pipeline
	components, err := bootstrap.Build(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize match pipeline", zap.Error(err))
	}
	defer components.Close()
	log.Info("✅ Services initialized successfully")

	// Match history is optional
	var runRepo repositories.MatchRunRepository
	if cfg.History.Enabled {
		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			log.Fatal("❌ Failed to initialize database", zap.Error(err))
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		runRepo = repositories.NewMatchRunRepository(db)
		log.Info("✅ Match history enabled")
	}

	matcher := components.NewMatcher(runRepo)

	// Initialize Handlers
	h := handlers.Handlers{
		UI:    handlers.NewUIHandler(matcher, cfg.Storage.MaxFileSize, log),
		Match: handlers.NewMatchHandler(matcher, cfg.Storage.MaxFileSize, log),
	}
	if runRepo != nil {
		h.History = handlers.NewHistoryHandler(runRepo)
	}
	log.Info("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Resume Screener",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxRequestSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.SetupRoutes(app, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))
	log.Info(fmt.Sprintf("🖥️  Open http://localhost%s in a browser", addr))

	if err := app.Listen(addr); err != nil {
		log.Error("❌ Failed to start server", zap.Error(err))
	}
}
