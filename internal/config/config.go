// Package config loads orchestrator configuration from defaults, an optional
// YAML file and environment variable overrides, in that precedence order.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"agenthub/orchestrator/pkg/types"
)

const envPrefix = "ORC_"

// Config is the complete orchestrator configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Engine    EngineConfig    `yaml:"engine"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reporters []ReporterEntry `yaml:"reporters,omitempty"`
}

// ServerConfig holds REST API server configuration.
type ServerConfig struct {
	Address      string        `yaml:"address" env:"ORC_SERVER_ADDRESS"`
	ReadTimeout  types.Duration `yaml:"read_timeout" env:"ORC_SERVER_READ_TIMEOUT"`
	WriteTimeout types.Duration `yaml:"write_timeout" env:"ORC_SERVER_WRITE_TIMEOUT"`
	EnableCORS   bool          `yaml:"enable_cors" env:"ORC_SERVER_ENABLE_CORS"`
}

// EngineConfig holds workflow engine defaults.
type EngineConfig struct {
	// IdleWait is the pause before re-checking readiness while tasks run.
	IdleWait types.Duration `yaml:"idle_wait" env:"ORC_ENGINE_IDLE_WAIT"`
	// DependencyPolicy is "wait" or "propagate".
	DependencyPolicy string `yaml:"dependency_policy" env:"ORC_ENGINE_DEPENDENCY_POLICY"`
	// ScriptTimeout bounds a single script-provider execution.
	ScriptTimeout types.Duration `yaml:"script_timeout" env:"ORC_ENGINE_SCRIPT_TIMEOUT"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" env:"ORC_LOG_LEVEL"`
}

// ReporterEntry configures one report sink.
type ReporterEntry struct {
	Type    string         `yaml:"type"`
	Enabled bool           `yaml:"enabled"`
	Config  map[string]any `yaml:"config,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  types.Duration(30 * time.Second),
			WriteTimeout: types.Duration(30 * time.Second),
			EnableCORS:   false,
		},
		Engine: EngineConfig{
			IdleWait:         types.Duration(10 * time.Millisecond),
			DependencyPolicy: "wait",
			ScriptTimeout:    types.Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when
// non-empty and present), then environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv(envPrefix + "SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv(envPrefix + "SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = types.Duration(d)
		}
	}
	if v := os.Getenv(envPrefix + "SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = types.Duration(d)
		}
	}
	if v := os.Getenv(envPrefix + "SERVER_ENABLE_CORS"); v != "" {
		cfg.Server.EnableCORS = v == "true" || v == "1"
	}
	if v := os.Getenv(envPrefix + "ENGINE_IDLE_WAIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Engine.IdleWait = types.Duration(d)
		}
	}
	if v := os.Getenv(envPrefix + "ENGINE_DEPENDENCY_POLICY"); v != "" {
		cfg.Engine.DependencyPolicy = v
	}
	if v := os.Getenv(envPrefix + "ENGINE_SCRIPT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Engine.ScriptTimeout = types.Duration(d)
		}
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address cannot be empty")
	}
	if c.Engine.IdleWait <= 0 {
		return fmt.Errorf("engine.idle_wait must be positive, got %s", c.Engine.IdleWait)
	}
	switch c.Engine.DependencyPolicy {
	case "wait", "propagate":
	default:
		return fmt.Errorf("engine.dependency_policy must be wait or propagate, got %q", c.Engine.DependencyPolicy)
	}
	if c.Engine.ScriptTimeout <= 0 {
		return fmt.Errorf("engine.script_timeout must be positive, got %s", c.Engine.ScriptTimeout)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	for i, r := range c.Reporters {
		switch r.Type {
		case "console", "json", "webhook":
		default:
			return fmt.Errorf("reporters[%d].type must be console, json or webhook, got %q", i, r.Type)
		}
	}
	return nil
}
