package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.StorageBackend != BackendFile || cfg.CheckInterval != time.Minute {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TimerBuffer != 16 || cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOCUSDECK_DATA_DIR", dir)
	t.Setenv("FOCUSDECK_STORAGE_BACKEND", "SQLite")
	t.Setenv("FOCUSDECK_CHECK_INTERVAL", "90s")
	t.Setenv("FOCUSDECK_TIMEZONE", "Europe/Berlin")
	t.Setenv("FOCUSDECK_LOG_LEVEL", "debug")
	t.Setenv("FOCUSDECK_LOG_FORMAT", "json")
	t.Setenv("FOCUSDECK_TIMER_BUFFER", "32")
	t.Setenv("FOCUSDECK_DESKTOP_NOTIFY", "true")

	cfg, err := Load(DefaultRuntimeConfig(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != dir || cfg.StorageBackend != BackendSQLite || cfg.CheckInterval != 90*time.Second {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" || cfg.TimerBuffer != 32 || !cfg.DesktopNotify {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Berlin" {
		t.Fatalf("location: %v %v", loc, err)
	}
	if cfg.SQLitePath() != filepath.Join(dir, "focusdeck.db") || cfg.LogPath() != filepath.Join(dir, "focusdeck.log") {
		t.Fatalf("unexpected paths: %s %s", cfg.SQLitePath(), cfg.LogPath())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusdeck.yaml")
	body := "storage_backend: memory\ncheck_interval: 5m\nlog_file: /tmp/fd.log\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(DefaultRuntimeConfig(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageBackend != BackendMemory || cfg.CheckInterval != 5*time.Minute || cfg.LogPath() != "/tmp/fd.log" {
		t.Fatalf("unexpected file config: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"FOCUSDECK_STORAGE_BACKEND": "postgres",
		"FOCUSDECK_CHECK_INTERVAL":  "10ms",
		"FOCUSDECK_TIMEZONE":        "Mars/Olympus",
		"FOCUSDECK_LOG_LEVEL":       "loud",
		"FOCUSDECK_TIMER_BUFFER":    "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			base := DefaultRuntimeConfig()
			cfg, err := Load(base, "")
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if cfg != base {
				t.Fatalf("rejected config must return base, got %+v", cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(DefaultRuntimeConfig(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
