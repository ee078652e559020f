package config

import (
	"path/filepath"
	"time"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".solfinder.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path: filepath.Join("data", "solutions.json"),
		},
		AppVersion: "1.1.0",
		DataDir:    ".solfinder",
		Server: ServerConfig{
			Port:            8080,
			AllowAllOrigins: true,
		},
		Sessions: SessionConfig{
			Backend:    BackendMemory,
			TTLMinutes: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DBPath returns the SQLite database path inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "solfinder.db")
}

// SessionTTL returns the idle lifetime of a session.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Sessions.TTLMinutes) * time.Minute
}
