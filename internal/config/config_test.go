// File: internal/config/config_test.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "shapes-cli", cfg.Logger().ServiceName)
	assert.Equal(t, "margin-box", cfg.Editor().DefaultRefBox)
	assert.Equal(t, 4.0, cfg.Editor().PointRadius)
	assert.Equal(t, "last", cfg.Editor().EdgeTieBreak)
	assert.Len(t, cfg.Editor().UnitCycle, 11)
	assert.Equal(t, 50*time.Millisecond, cfg.Sync().Throttle)
	assert.Equal(t, 4, cfg.Worker().Concurrency)
	assert.True(t, cfg.Browser().Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser().Timeout)
	assert.NoError(t, cfg.Validate())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"unknown ref box", func(c *Config) { c.editor.DefaultRefBox = "view-box" }, "editor.default_ref_box"},
		{"zero point radius", func(c *Config) { c.editor.PointRadius = 0 }, "editor.point_radius must be positive"},
		{"bad tie break", func(c *Config) { c.editor.EdgeTieBreak = "first" }, "editor.edge_tiebreak"},
		{"negative min vertices", func(c *Config) { c.editor.MinVertices = -1 }, "editor.min_vertices"},
		{"negative throttle", func(c *Config) { c.sync.Throttle = -time.Second }, "sync.throttle"},
		{"no workers", func(c *Config) { c.worker.Concurrency = 0 }, "worker.concurrency must be a positive integer"},
		{"no timeout", func(c *Config) { c.browser.Timeout = 0 }, "browser.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("closest tie break", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.SetEditorEdgeTieBreak("Closest")
		assert.NoError(t, cfg.Validate())
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
editor:
  default_ref_box: content-box
  point_radius: 6
  unit_cycle: ["px", "%"]
worker:
  concurrency: 8
sync:
  throttle: 250ms
`)
		v := viper.New()
		SetDefaults(v) // Set defaults first
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "content-box", cfg.Editor().DefaultRefBox)
		assert.Equal(t, 6.0, cfg.Editor().PointRadius)
		assert.Equal(t, []string{"px", "%"}, cfg.Editor().UnitCycle)
		assert.Equal(t, 8, cfg.Worker().Concurrency)
		assert.Equal(t, 250*time.Millisecond, cfg.Sync().Throttle)
		// Check a default value was also loaded
		assert.Equal(t, "info", cfg.Logger().Level)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("worker.concurrency", 0) // Intentionally invalid

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "worker.concurrency must be a positive integer")
	})
}

func TestLoad(t *testing.T) {
	t.Run("explicit file and env override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logger:\n  level: debug\neditor:\n  point_radius: 8\n"), 0o600))
		t.Setenv("SHAPES_EDITOR_POINT_RADIUS", "10")

		v := viper.New()
		require.NoError(t, Load(v, path))
		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logger().Level)
		assert.Equal(t, 10.0, cfg.Editor().PointRadius)
	})

	t.Run("missing search path file falls back to defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())
		v := viper.New()
		require.NoError(t, Load(v, ""))
		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "margin-box", cfg.Editor().DefaultRefBox)
	})

}
