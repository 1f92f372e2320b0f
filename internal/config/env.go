package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env lists the environment overrides. Unset variables leave the YAML value.
type Env struct {
	StorageBackend  string `env:"T2048_STORAGE"`
	DBPath          string `env:"T2048_DB"`
	Slot            string `env:"T2048_SLOT"`
	AnonymousName   string `env:"T2048_ANONYMOUS_NAME"`
	FinalizeDelayMS *int   `env:"T2048_FINALIZE_DELAY_MS"`
	TickRate        int    `env:"T2048_TICK_RATE"`
	SSHAddr         string `env:"T2048_SSH_ADDR"`
	HTTPAddr        string `env:"T2048_HTTP_ADDR"`
	HostKeyPath     string `env:"T2048_HOST_KEY"`
	LogLevel        string `env:"T2048_LOG_LEVEL"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Apply copies every set override into cfg.
func (e Env) Apply(cfg *T2048Config) {
	setString(&cfg.Storage.Backend, e.StorageBackend)
	setString(&cfg.Storage.Path, e.DBPath)
	setString(&cfg.Storage.Slot, e.Slot)
	setString(&cfg.Player.AnonymousName, e.AnonymousName)
	setString(&cfg.Server.SSHAddr, e.SSHAddr)
	setString(&cfg.Server.HTTPAddr, e.HTTPAddr)
	setString(&cfg.Server.HostKeyPath, e.HostKeyPath)
	setString(&cfg.Log.Level, e.LogLevel)
	if e.FinalizeDelayMS != nil {
		cfg.Timing.FinalizeDelayMS = *e.FinalizeDelayMS
	}
	if e.TickRate > 0 {
		cfg.Timing.TickRate = e.TickRate
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
