package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultFile         = "genesisdash.json"
	defaultTickInterval = 800 * time.Millisecond
)

type StoreConfig struct {
	Backend string `yaml:"backend"` // json, sqlite or memory
	Path    string `yaml:"path"`
}

type Config struct {
	Store        StoreConfig   `yaml:"store"`
	TickInterval time.Duration `yaml:"tick_interval"`
	Seed         uint64        `yaml:"seed"` // 0 seeds from the clock
	LogFile      string        `yaml:"log_file"`
}

func DefaultConfig() Config {
	return Config{
		Store:        StoreConfig{Backend: backendJSON, Path: defaultFile},
		TickInterval: defaultTickInterval,
	}
}

// loadConfig reads a YAML file over the defaults. An empty path or a missing
// file yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides cfg from GENESIS_* variables. Unparsable values are
// reported rather than ignored.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("GENESIS_STORE"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("GENESIS_FILE"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("GENESIS_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GENESIS_TICK_INTERVAL: %w", err)
		}
		cfg.TickInterval = d
	}
	if v := os.Getenv("GENESIS_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GENESIS_SEED: %w", err)
		}
		cfg.Seed = n
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case backendJSON, backendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store %s needs a path", c.Store.Backend)
		}
	case backendMemory:
	default:
		return fmt.Errorf("unknown store backend %q (want json, sqlite or memory)", c.Store.Backend)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	return nil
}
