package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where Load looks for the config file unless
// ENVSPACE_CONFIG points elsewhere.
const DefaultConfigPath = "./envspace.yml"

// Config holds all envspace configuration settings
type Config struct {
	// Database is the SQLite database file path
	Database string `yaml:"database"`

	// Superuser is the administrator account seeded at startup
	Superuser Superuser `yaml:"superuser"`

	// Listen is the HTTP bind address
	Listen Listen `yaml:"listen"`

	// LogLevel is a logrus level name (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// TokenSecret signs session tokens. Generated at startup when empty.
	TokenSecret string `yaml:"token_secret"`

	// TokenTTL is the session token lifetime in seconds
	TokenTTL int `yaml:"token_ttl"`
}

// Superuser is the seeded administrator account
type Superuser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Listen is the HTTP bind address
type Listen struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		Database: "./envspace.db",
		Superuser: Superuser{
			Email:    "super@example.com",
			Password: "superuser",
		},
		Listen: Listen{
			Host: "0.0.0.0",
			Port: 5666,
		},
		LogLevel: "info",
		TokenTTL: 3600,
	}
}

// Path returns the config file path, honoring ENVSPACE_CONFIG.
func Path() string {
	if p := os.Getenv("ENVSPACE_CONFIG"); p != "" {
		return p
	}
	return DefaultConfigPath
}

// Load reads configuration from the file at path, falling back to defaults
// for anything unset. A missing file is not an error; a malformed one is.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	cfg := newDefault()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ENVSPACE_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("ENVSPACE_SUPERUSER_EMAIL"); v != "" {
		cfg.Superuser.Email = v
	}
	if v := os.Getenv("ENVSPACE_SUPERUSER_PASSWORD"); v != "" {
		cfg.Superuser.Password = v
	}
	if v := os.Getenv("ENVSPACE_LISTEN_HOST"); v != "" {
		cfg.Listen.Host = v
	}
	if v := os.Getenv("ENVSPACE_LISTEN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Listen.Port = port
		}
	}
	if v := os.Getenv("ENVSPACE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ENVSPACE_TOKEN_SECRET"); v != "" {
		cfg.TokenSecret = v
	}
	if v := os.Getenv("ENVSPACE_TOKEN_TTL"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil {
			cfg.TokenTTL = ttl
		}
	}
}

// Addr returns the host:port string to bind the HTTP server on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Listen.Host, c.Listen.Port)
}
