package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "SOLFINDER_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SOLFINDER_*). A .env file next to the
// config file is loaded first; it never overrides variables already set.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	if err := godotenv.Load(filepath.Join(filepath.Dir(path), ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: SOLFINDER_SERVER__PORT -> server.port.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validBackends is the set of recognized session backends.
var validBackends = map[SessionBackend]bool{
	BackendMemory: true,
	BackendRedis:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Catalog.URL == "" && c.Catalog.Path == "" {
		return fmt.Errorf("catalog.url or catalog.path is required")
	}
	if c.Catalog.Watch && c.Catalog.Path == "" {
		return fmt.Errorf("catalog.watch needs catalog.path")
	}

	if c.AppVersion == "" {
		return fmt.Errorf("app_version is required")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	if !validBackends[c.Sessions.Backend] {
		return fmt.Errorf("invalid sessions.backend %q: must be one of memory, redis", c.Sessions.Backend)
	}
	if c.Sessions.Backend == BackendRedis && c.Sessions.RedisAddr == "" {
		return fmt.Errorf("sessions.redis_addr is required for the redis backend")
	}
	if c.Sessions.TTLMinutes <= 0 {
		return fmt.Errorf("sessions.ttl_minutes must be positive")
	}

	if c.Log.Level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return fmt.Errorf("invalid log.level %q", c.Log.Level)
		}
	}

	return nil
}
