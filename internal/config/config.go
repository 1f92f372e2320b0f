// Package config provides YAML-based configuration loading for the 2048
// client and servers, with environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// T2048Config contains all configuration for the game binary.
type T2048Config struct {
	Timing  TimingConfig  `yaml:"timing"`
	Player  PlayerConfig  `yaml:"player"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// TimingConfig controls the simulation clock.
type TimingConfig struct {
	TickRate        int `yaml:"tick_rate"`         // Ticks per second
	FinalizeDelayMS int `yaml:"finalize_delay_ms"` // Pause between a move and its spawn
}

// PlayerConfig holds player-facing defaults.
type PlayerConfig struct {
	AnonymousName string `yaml:"anonymous_name"` // Recorded when a blank name is submitted
}

// StorageConfig selects where games are saved.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "file"
	Path    string `yaml:"path"`    // Database or JSON file; "~" is expanded
	Slot    string `yaml:"slot"`    // Save slot for local play
}

// ServerConfig holds listen addresses for the SSH and HTTP servers.
type ServerConfig struct {
	SSHAddr            string `yaml:"ssh_addr"`
	HostKeyPath        string `yaml:"host_key_path"`
	HTTPAddr           string `yaml:"http_addr"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// LogConfig sets the log level ("debug", "info", "warn", "error").
type LogConfig struct {
	Level string `yaml:"level"`
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Normalize fills unset fields from the defaults and checks enum values.
func (c *T2048Config) Normalize() error {
	def := DefaultT2048Config()

	if c.Timing.TickRate <= 0 {
		c.Timing.TickRate = def.Timing.TickRate
	}
	if c.Timing.FinalizeDelayMS < 0 {
		c.Timing.FinalizeDelayMS = 0
	}
	if strings.TrimSpace(c.Player.AnonymousName) == "" {
		c.Player.AnonymousName = def.Player.AnonymousName
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = def.Storage.Backend
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		if c.Storage.Backend == BackendFile {
			c.Storage.Path = "~/.arcade/2048.json"
		} else {
			c.Storage.Path = def.Storage.Path
		}
	}
	if c.Storage.Slot == "" {
		c.Storage.Slot = def.Storage.Slot
	}

	if c.Server.SSHAddr == "" {
		c.Server.SSHAddr = def.Server.SSHAddr
	}
	if c.Server.HostKeyPath == "" {
		c.Server.HostKeyPath = def.Server.HostKeyPath
	}
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = def.Server.HTTPAddr
	}
	if c.Server.IdleTimeoutMinutes <= 0 {
		c.Server.IdleTimeoutMinutes = def.Server.IdleTimeoutMinutes
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	return nil
}

// Runtime returns the runtime config for a w x h terminal.
func (c T2048Config) Runtime(w, h int) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: w, ScreenH: h, TickRate: c.Timing.TickRate}
}

// FinalizeDelayTicks converts the finalize delay to ticks at the configured rate.
func (c T2048Config) FinalizeDelayTicks() int {
	return c.Runtime(0, 0).TicksFor(c.Timing.FinalizeDelayMS)
}

// IdleTimeout returns the SSH idle timeout.
func (c T2048Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutMinutes) * time.Minute
}

// LogLevel parses the configured level, falling back to info.
func (c T2048Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
