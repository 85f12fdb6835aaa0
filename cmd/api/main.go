package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sefazor/imaginet-backend/internal/config"
	"github.com/sefazor/imaginet-backend/pkg/database"
	"github.com/sefazor/imaginet-backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load .env (yoksa ortam değişkenleri kullanılır)
	envErr := godotenv.Load()

	// Config'i yükle
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zl, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer zl.Sync() //nolint:errcheck

	if envErr != nil {
		zl.Info("no .env file loaded, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.NewDatabase(ctx, database.Options{
		URL:          cfg.DatabaseURL,
		Debug:        cfg.IsDevelopment(),
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	})
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	registry := database.DefaultRegistry()
	if err := database.RunMigrations(db, registry); err != nil {
		zl.Fatal("failed to migrate database", zap.Error(err))
	}
	zl.Info("migrations applied", zap.Strings("models", registry.Names()))

	api, err := InitializeAPI(ctx, cfg, db, zl)
	if err != nil {
		zl.Fatal("failed to initialize api", zap.Error(err))
	}

	go func() {
		if err := api.App.Listen(":" + cfg.Port); err != nil {
			zl.Error("server stopped", zap.Error(err))
			stop()
		}
	}()
	zl.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))

	<-ctx.Done()
	zl.Info("shutting down")

	if err := api.App.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	api.Users.Wait()

	if err := database.Close(db); err != nil {
		zl.Error("failed to close database", zap.Error(err))
	}
}
