package config

import (
	_ "embed"
)

//go:embed defaults/2048.yaml
var default2048YAML []byte

// DefaultT2048Config returns the built-in configuration.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Timing: TimingConfig{
			TickRate:        60,
			FinalizeDelayMS: 150,
		},
		Player: PlayerConfig{
			AnonymousName: "Anonymous",
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    "~/.arcade/2048.db",
			Slot:    "local",
		},
		Server: ServerConfig{
			SSHAddr:            ":2323",
			HostKeyPath:        ".ssh/arcade_ed25519",
			HTTPAddr:           ":8048",
			IdleTimeoutMinutes: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
