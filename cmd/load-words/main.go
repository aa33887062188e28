package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"bombparty/internal/config"
	"bombparty/internal/db"
	"bombparty/internal/logging"

	"go.uber.org/zap"
)

func main() {
	filePath := flag.String("file", "", "path to a whitespace-separated word list (defaults to WORDLIST_PATH)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(max(cfg.LogLevel, 2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	path := *filePath
	if path == "" {
		path = cfg.WordListPath
	}
	conn, err := db.Open(cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second,
	})
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	loaded, err := db.LoadWordList(conn, path)
	if err != nil {
		logger.Fatal("failed to load words", zap.String("file", path), zap.Error(err))
	}
	logger.Info("loaded words", zap.String("file", path), zap.Int("words", loaded))
}
