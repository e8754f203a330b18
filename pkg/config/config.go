// Package config provides file and environment based configuration for delimconv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oleg578/delimconv"
)

// Config holds all configuration for the delimconv CLI and API server.
type Config struct {
	// Server configuration
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	// MaxInputBytes caps the size of text accepted for one conversion.
	MaxInputBytes int64 `yaml:"max_input_bytes"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	// Defaults applied when a request or CLI call leaves them unset.
	Defaults Defaults `yaml:"defaults"`
}

// Defaults holds the delimiter selections and options used when none are given.
type Defaults struct {
	Source  delimconv.Selection `yaml:"source"`
	Target  delimconv.Selection `yaml:"target"`
	Options delimconv.Options   `yaml:"options"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		RequestTimeout:  30 * time.Second,
		MaxInputBytes:   10 << 20,
		LogLevel:        "info",
		LogJSON:         true,
		Defaults: Defaults{
			Source: delimconv.Selection{Value: "comma"},
			Target: delimconv.Selection{Value: "tab"},
		},
	}
}

// Load builds the configuration from the built-in defaults, the YAML file
// named by DELIMCONV_CONFIG (if set), and finally environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("DELIMCONV_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Host = getEnv("DELIMCONV_HOST", c.Host)
	c.Port = getIntEnv("DELIMCONV_PORT", c.Port)
	c.ShutdownTimeout = getDurationEnv("DELIMCONV_SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.RequestTimeout = getDurationEnv("DELIMCONV_REQUEST_TIMEOUT", c.RequestTimeout)
	c.MaxInputBytes = int64(getIntEnv("DELIMCONV_MAX_INPUT_BYTES", int(c.MaxInputBytes)))
	c.LogLevel = getEnv("DELIMCONV_LOG_LEVEL", c.LogLevel)
	c.LogJSON = getBoolEnv("DELIMCONV_LOG_JSON", c.LogJSON)
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.MaxInputBytes <= 0 {
		return fmt.Errorf("max_input_bytes must be positive")
	}
	if c.Defaults.Source.Resolve() == "" {
		return fmt.Errorf("default source delimiter cannot be empty")
	}
	if c.Defaults.Target.Resolve() == "" {
		return fmt.Errorf("default target delimiter cannot be empty")
	}
	if err := c.Defaults.Options.Validate(); err != nil {
		return fmt.Errorf("default options: %w", err)
	}
	return nil
}

// Addr returns the listen address for the API server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
