package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"shoppit/config"
	"shoppit/db"
	"shoppit/logger"
	"shoppit/routes"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	// Initialize database
	if err := db.InitDatabase(cfg.Database, appLogger); err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()

	// Create uploads directory if it doesn't exist
	if err := os.MkdirAll(cfg.Uploads.Dir, 0755); err != nil {
		appLogger.Fatal("Could not create uploads directory", zap.Error(err))
	}

	app := routes.NewApp(cfg, appLogger)
	routes.SetupRoutes(app, cfg)

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
