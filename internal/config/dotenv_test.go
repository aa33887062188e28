package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BombTimer() != 8*time.Second {
		t.Fatalf("expected default bomb timer 8s, got %s", cfg.BombTimer())
	}
	if cfg.WordListSource != WordSourceFile {
		t.Fatalf("expected file word source, got %q", cfg.WordListSource)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOMB_TIMER_SECONDS", "2.5")
	t.Setenv("COUNTDOWN_SECONDS", "0")
	t.Setenv("LOG_LEVEL", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BombTimer() != 2500*time.Millisecond {
		t.Fatalf("expected 2.5s bomb timer, got %s", cfg.BombTimer())
	}
	if cfg.CountdownSeconds != 0 || cfg.LogLevel != 3 {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadRejectsNonPositiveBombTimer(t *testing.T) {
	for _, value := range []string{"0", "-1", "1e-10"} {
		t.Setenv("BOMB_TIMER_SECONDS", value)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for BOMB_TIMER_SECONDS=%s", value)
		}
	}
}

func TestLoadRejectsDBSourceWithoutURL(t *testing.T) {
	t.Setenv("WORDLIST_SOURCE", "db")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when word list source is db without a database")
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BOMB_TIMER_SECONDS=3\nCOUNTDOWN_SECONDS=1\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("BOMB_TIMER_SECONDS", "5")
	t.Setenv("COUNTDOWN_SECONDS", "")
	os.Unsetenv("COUNTDOWN_SECONDS")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("BOMB_TIMER_SECONDS"); got != "5" {
		t.Fatalf("expected existing value to win, got %q", got)
	}
	if got := os.Getenv("COUNTDOWN_SECONDS"); got != "1" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
