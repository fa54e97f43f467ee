// Package config loads the engine configuration from config/engine.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration.
type Config struct {
	Listen   string  `yaml:"listen"`
	LogLevel string  `yaml:"log_level"`
	Storage  Storage `yaml:"storage"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	Backend    string `yaml:"backend"` // "memory", "sqlite" or "redis"
	SQLitePath string `yaml:"sqlite_path"`
	RedisAddr  string `yaml:"redis_addr"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen:   ":8090",
		LogLevel: "info",
		Storage: Storage{
			Backend:    "sqlite",
			SQLitePath: "mobble-engine.db",
		},
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	switch cfg.Storage.Backend {
	case "memory", "sqlite", "redis":
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "sqlite" && cfg.Storage.SQLitePath == "" {
		return nil, fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
	}
	if cfg.Storage.Backend == "redis" && cfg.Storage.RedisAddr == "" {
		return nil, fmt.Errorf("storage.redis_addr is required for the redis backend")
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration or falls back to defaults when the
// file does not exist.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}
