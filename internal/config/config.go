// Package config loads shopfront configuration: defaults, then an
// optional YAML file in the state directory, then a .env file, then
// environment variable overrides, in that order of increasing
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all shopfront configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Shop    ShopConfig    `yaml:"shop"`
	Logging LoggingConfig `yaml:"logging"`

	// stateDir is where shopfront keeps its persisted state, config,
	// and logs. Not serialized; derived at load time.
	stateDir string
}

// APIConfig configures the remote store service client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// GetTimeout parses the request timeout, falling back to 15s.
func (c APIConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 15 * time.Second
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// StoreConfig configures cart/session persistence.
type StoreConfig struct {
	Backend   string `yaml:"backend"` // file, sqlite, redis, memory
	Path      string `yaml:"path"`    // file dir or sqlite db path
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
}

// ShopConfig configures catalog presentation.
type ShopConfig struct {
	PageSize int `yaml:"page_size"`
}

// LoggingConfig mirrors internal/logging settings.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultStateDir is where shopfront keeps its state when not
// overridden: ~/.shopfront, or ./.shopfront if no home is resolvable.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shopfront"
	}
	return filepath.Join(home, ".shopfront")
}

// Default returns the built-in configuration for a state directory.
func Default(stateDir string) *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://fakestoreapi.com",
			Timeout: "15s",
		},
		Store: StoreConfig{
			Backend:   "file",
			Path:      filepath.Join(stateDir, "store"),
			RedisAddr: "localhost:6379",
		},
		Shop: ShopConfig{
			PageSize: 8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		stateDir: stateDir,
	}
}

// Load builds the effective configuration for a state directory. A
// missing config file is not an error; defaults apply.
func Load(stateDir string) (*Config, error) {
	if stateDir == "" {
		stateDir = DefaultStateDir()
	}
	cfg := Default(stateDir)

	path := filepath.Join(stateDir, "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fine, defaults only
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env in the working directory, if present. Existing process env
	// wins over .env contents.
	_ = godotenv.Load()

	cfg.applyEnvOverrides()
	cfg.stateDir = stateDir

	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(stateDir, "store")
	}
	if cfg.Shop.PageSize <= 0 {
		cfg.Shop.PageSize = 8
	}
	return cfg, nil
}

// applyEnvOverrides applies SHOPFRONT_* environment variables on top of
// the file-derived configuration.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHOPFRONT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SHOPFRONT_API_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("SHOPFRONT_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("SHOPFRONT_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("SHOPFRONT_REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv("SHOPFRONT_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Store.RedisDB = db
		}
	}
	if v := os.Getenv("SHOPFRONT_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Shop.PageSize = n
		}
	}
	if v := os.Getenv("SHOPFRONT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
	if v := os.Getenv("SHOPFRONT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// StateDir returns the state directory this config was loaded for.
func (c *Config) StateDir() string { return c.stateDir }

// Save writes the configuration back to the state directory.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.stateDir, 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	path := filepath.Join(c.stateDir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
