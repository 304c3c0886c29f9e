package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tableside/internal/config"
	"tableside/internal/infrastructure/logger"
	"tableside/internal/infrastructure/mysql"
	"tableside/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "internal/config/config.yaml"
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.Storage.Driver == config.StorageMySQL {
		db, err = mysql.NewConnection(ctx, cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()

		if err := mysql.EnsureSchema(ctx, db); err != nil {
			zapLogger.Fatal("creating schema", zap.Error(err))
		}
		zapLogger.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))
	} else {
		zapLogger.Warn("using in-memory storage; data is lost on restart")
	}

	handler, err := server.NewApp(ctx, cfg, db, zapLogger)
	if err != nil {
		zapLogger.Fatal("wiring application", zap.Error(err))
	}

	srv := server.New(cfg.Server.Port, handler, zapLogger)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("priceSource", cfg.Order.PriceSource),
	)
}
