// Package config loads runtime startup configuration from a YAML file with
// environment-variable overrides for deployment-sensitive fields.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort    = 8080
	defaultEnv     = "development"
	defaultAPIBase = "http://localhost:8081"

	// Store backends.
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMySQL  = "mysql"

	defaultStoreBackend = StoreFile
	defaultStorePath    = "data/storefront.json"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int         `yaml:"port"`
	Env            string      `yaml:"env"` // "development" | "production"
	APIBase        string      `yaml:"api_base"`
	AllowedOrigins []string    `yaml:"allowed_origins"`
	Store          StoreConfig `yaml:"store"`
	Log            LogConfig   `yaml:"log"`
}

// StoreConfig selects the durable key-value store backend.
type StoreConfig struct {
	Backend  string `yaml:"backend"` // file | memory | redis | mysql
	Path     string `yaml:"path"`    // file backend
	RedisURL string `yaml:"redis_url"`
	MySQLDSN string `yaml:"mysql_dsn"`
}

// LogConfig configures the file log sink.
type LogConfig struct {
	Dir          string `yaml:"dir"`
	RotateSizeMB int    `yaml:"rotate_size_mb"`
	RotateKeep   int    `yaml:"rotate_keep"`
}

// Load reads the config file at configPath, falling back to defaults when the
// file does not exist, then applies env overrides and validates.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case os.IsNotExist(err) && configPath == "":
		// No explicit --config and no file at the default path: run on defaults.
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	base, err := url.Parse(cfg.APIBase)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api_base must be an absolute URL, got %q", cfg.APIBase)
	}
	switch cfg.Store.Backend {
	case StoreFile, StoreMemory:
	case StoreRedis:
		if strings.TrimSpace(cfg.Store.RedisURL) == "" {
			return nil, fmt.Errorf("store.redis_url is required for the redis backend")
		}
	case StoreMySQL:
		if strings.TrimSpace(cfg.Store.MySQLDSN) == "" {
			return nil, fmt.Errorf("store.mysql_dsn is required for the mysql backend")
		}
	default:
		return nil, fmt.Errorf("unknown store.backend %q", cfg.Store.Backend)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:    defaultPort,
		Env:     defaultEnv,
		APIBase: defaultAPIBase,
		Store: StoreConfig{
			Backend: defaultStoreBackend,
			Path:    defaultStorePath,
		},
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_ENV")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_API_BASE")); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_STORE_BACKEND")); v != "" {
		cfg.Store.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_STORE_PATH")); v != "" {
		cfg.Store.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_REDIS_URL")); v != "" {
		cfg.Store.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_MYSQL_DSN")); v != "" {
		cfg.Store.MySQLDSN = v
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
