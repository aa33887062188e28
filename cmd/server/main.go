package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bombparty/internal/config"
	"bombparty/internal/db"
	"bombparty/internal/game"
	"bombparty/internal/logging"
	"bombparty/internal/server"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	var conn *gorm.DB
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(cfg.DatabaseURL, poolConfig(cfg))
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		if err := db.Migrate(conn); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
	}

	bank, err := loadWordBank(cfg, conn)
	if err != nil {
		logger.Fatal("word list unavailable", zap.String("source", cfg.WordListSource), zap.Error(err))
	}
	logger.Info("word list loaded", zap.String("source", cfg.WordListSource), zap.Int("words", bank.Len()))

	srv := server.New(conn, cfg, bank, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bombparty server listening", zap.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	srv.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func loadWordBank(cfg config.Config, conn *gorm.DB) (*game.WordBank, error) {
	if cfg.WordListSource == config.WordSourceDB {
		return db.LoadWordBank(conn)
	}
	file, err := os.Open(cfg.WordListPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return game.LoadWordBank(file)
}

func poolConfig(cfg config.Config) db.PoolConfig {
	return db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second,
	}
}
