package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := LoadT2048("")
	if err != nil {
		t.Fatalf("LoadT2048: %v", err)
	}
	def := DefaultT2048Config()
	if cfg.Timing != def.Timing || cfg.Storage.Backend != def.Storage.Backend || cfg.Player != def.Player {
		t.Errorf("embedded = %+v, hardcoded = %+v", cfg, def)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2048.yaml")
	data := "timing:\n  finalize_delay_ms: 0\nstorage:\n  backend: file\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timing.FinalizeDelayMS != 0 {
		t.Errorf("finalize delay = %d, want 0", cfg.Timing.FinalizeDelayMS)
	}
	if cfg.Storage.Backend != BackendFile || cfg.Storage.Path != "~/.arcade/2048.json" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Timing.TickRate != 60 || cfg.Player.AnonymousName != "Anonymous" {
		t.Errorf("unset fields not defaulted: %+v", cfg)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := LoadT2048(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("err = %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("T2048_DB", "/tmp/x.db")
	t.Setenv("T2048_SLOT", "alice")
	t.Setenv("T2048_FINALIZE_DELAY_MS", "0")
	t.Setenv("T2048_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Path != "/tmp/x.db" || cfg.Storage.Slot != "alice" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Timing.FinalizeDelayMS != 0 {
		t.Errorf("finalize delay = %d, want 0", cfg.Timing.FinalizeDelayMS)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestEnvParseError(t *testing.T) {
	t.Setenv("T2048_TICK_RATE", "fast")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Errorf("err = %v, want parse env error", err)
	}
}

func TestNormalizeRejectsUnknownBackend(t *testing.T) {
	cfg := DefaultT2048Config()
	cfg.Storage.Backend = "redis"
	if err := cfg.Normalize(); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}

func TestDerivedValues(t *testing.T) {
	cfg := DefaultT2048Config()
	cfg.Timing.TickRate = 60
	cfg.Timing.FinalizeDelayMS = 150

	if got := cfg.FinalizeDelayTicks(); got != 9 {
		t.Errorf("FinalizeDelayTicks() = %d, want 9", got)
	}
	if got := cfg.IdleTimeout(); got != 30*time.Minute {
		t.Errorf("IdleTimeout() = %v", got)
	}

	cfg.Log.Level = "warn"
	if cfg.LogLevel() != log.WarnLevel {
		t.Errorf("LogLevel() = %v, want warn", cfg.LogLevel())
	}
	cfg.Log.Level = "loud"
	if cfg.LogLevel() != log.InfoLevel {
		t.Errorf("unknown level should fall back to info, got %v", cfg.LogLevel())
	}

	rc := cfg.Runtime(100, 40)
	if rc.ScreenW != 100 || rc.ScreenH != 40 || rc.TickRate != 60 {
		t.Errorf("Runtime() = %+v", rc)
	}
}
