package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

const (
	WordSourceFile = "file"
	WordSourceDB   = "db"
)

type Config struct {
	Port                     string  `env:"PORT"`
	LogLevel                 int     `env:"LOG_LEVEL"`
	DatabaseURL              string  `env:"DATABASE_URL"`
	BombTimerSeconds         float64 `env:"BOMB_TIMER_SECONDS"`
	ThreeLetterPromptChance  float64 `env:"THREE_LETTER_PROMPT_CHANCE"`
	CountdownSeconds         int     `env:"COUNTDOWN_SECONDS"`
	StartDelaySeconds        float64 `env:"START_DELAY_SECONDS"`
	LobbyRetentionSeconds    int     `env:"LOBBY_RETENTION_SECONDS"`
	WordListPath             string  `env:"WORDLIST_PATH"`
	WordListSource           string  `env:"WORDLIST_SOURCE"`
	DBMaxOpenConns           int     `env:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int     `env:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeSeconds int     `env:"DB_CONN_MAX_LIFETIME_SECONDS"`
	DBConnMaxIdleTimeSeconds int     `env:"DB_CONN_MAX_IDLE_SECONDS"`
}

func Default() Config {
	return Config{
		Port:                     "8080",
		LogLevel:                 2,
		BombTimerSeconds:         8,
		ThreeLetterPromptChance:  0.3,
		CountdownSeconds:         3,
		StartDelaySeconds:        2,
		LobbyRetentionSeconds:    60,
		WordListPath:             "data/wordlist.txt",
		WordListSource:           WordSourceFile,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

// Load overlays environment variables on Default and validates the result.
func Load() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.BombTimer() <= 0 {
		errs = append(errs, fmt.Errorf("BOMB_TIMER_SECONDS must be positive, got %v", c.BombTimerSeconds))
	}
	if c.ThreeLetterPromptChance < 0 || c.ThreeLetterPromptChance > 1 {
		errs = append(errs, fmt.Errorf("THREE_LETTER_PROMPT_CHANCE must be between 0 and 1, got %v", c.ThreeLetterPromptChance))
	}
	if c.CountdownSeconds < 0 {
		errs = append(errs, errors.New("COUNTDOWN_SECONDS must not be negative"))
	}
	if c.StartDelaySeconds < 0 {
		errs = append(errs, errors.New("START_DELAY_SECONDS must not be negative"))
	}
	if c.LogLevel < 0 || c.LogLevel > 3 {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be 0-3, got %d", c.LogLevel))
	}
	if c.WordListSource != WordSourceFile && c.WordListSource != WordSourceDB {
		errs = append(errs, fmt.Errorf("WORDLIST_SOURCE must be %q or %q", WordSourceFile, WordSourceDB))
	}
	if c.WordListSource == WordSourceDB && c.DatabaseURL == "" {
		errs = append(errs, errors.New("WORDLIST_SOURCE=db requires DATABASE_URL"))
	}
	return errors.Join(errs...)
}

func (c Config) BombTimer() time.Duration {
	return seconds(c.BombTimerSeconds)
}

func (c Config) StartDelay() time.Duration {
	return seconds(c.StartDelaySeconds)
}

func (c Config) LobbyRetention() time.Duration {
	return time.Duration(c.LobbyRetentionSeconds) * time.Second
}

func seconds(value float64) time.Duration {
	return time.Duration(value * float64(time.Second))
}
