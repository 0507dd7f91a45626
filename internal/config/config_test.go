package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Millisecond, cfg.Engine.IdleWait.Std())
	assert.Equal(t, "wait", cfg.Engine.DependencyPolicy)
	assert.Equal(t, 30*time.Second, cfg.Engine.ScriptTimeout.Std())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orchestrator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ":9090"
  read_timeout: 5s
engine:
  idle_wait: 2ms
  dependency_policy: propagate
logging:
  level: debug
reporters:
  - type: json
    enabled: true
    config:
      file_path: out/report.json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Std())
	assert.Equal(t, 2*time.Millisecond, cfg.Engine.IdleWait.Std())
	assert.Equal(t, "propagate", cfg.Engine.DependencyPolicy)
	assert.Equal(t, "debug", cfg.Logging.Level)

	require.Len(t, cfg.Reporters, 1)
	assert.Equal(t, "json", cfg.Reporters[0].Type)
	assert.True(t, cfg.Reporters[0].Enabled)
	assert.Equal(t, "out/report.json", cfg.Reporters[0].Config["file_path"])
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ORC_SERVER_ADDRESS", ":7070")
	t.Setenv("ORC_ENGINE_DEPENDENCY_POLICY", "propagate")
	t.Setenv("ORC_ENGINE_IDLE_WAIT", "25ms")
	t.Setenv("ORC_SERVER_ENABLE_CORS", "true")
	t.Setenv("ORC_LOG_LEVEL", "error")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "propagate", cfg.Engine.DependencyPolicy)
	assert.Equal(t, 25*time.Millisecond, cfg.Engine.IdleWait.Std())
	assert.True(t, cfg.Server.EnableCORS)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orchestrator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \":9090\"\n"), 0o644))
	t.Setenv("ORC_SERVER_ADDRESS", ":6060")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Server.Address)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.Server.Address = "" }},
		{"zero idle wait", func(c *Config) { c.Engine.IdleWait = 0 }},
		{"bad policy", func(c *Config) { c.Engine.DependencyPolicy = "retry" }},
		{"zero script timeout", func(c *Config) { c.Engine.ScriptTimeout = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad reporter type", func(c *Config) {
			c.Reporters = []ReporterEntry{{Type: "statsd", Enabled: true}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
