package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/shelf/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromReaders(t *testing.T) {
	t.Parallel()

	t.Run("should return an empty config without readers", func(t *testing.T) {
		t.Parallel()
		cfg, err := loadFromReaders(nil)
		require.NoError(t, err)
		assert.Empty(t, cfg.Catalog)
		assert.Nil(t, cfg.Options)
	})

	t.Run("should let later layers win", func(t *testing.T) {
		t.Parallel()
		cfg, err := loadFromReaders([]io.Reader{
			strings.NewReader(`{"catalog": "global.json", "options": {"item_height": 3, "debug": true}}`),
			strings.NewReader(`{"catalog": "local.json", "options": {"item_height": 6}}`),
		})
		require.NoError(t, err)
		assert.Equal(t, "local.json", cfg.Catalog)
		require.NotNil(t, cfg.Options)
		assert.Equal(t, 6, cfg.Options.ItemHeight)
		assert.True(t, cfg.Options.Debug)
	})

	t.Run("should fail on invalid json", func(t *testing.T) {
		t.Parallel()
		_, err := loadFromReaders([]io.Reader{strings.NewReader(`{nope`)})
		require.Error(t, err)
	})
}

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{Catalog: "products.json"}
	cfg.setDefaults("/work")

	assert.Equal(t, "/work", cfg.WorkingDir())
	assert.Equal(t, filepath.Join("/work", "products.json"), cfg.Catalog)
	assert.Equal(t, filepath.Join("/work", ".shelf"), cfg.Options.DataDirectory)
	assert.Equal(t, defaultItemHeight, cfg.Options.ItemHeight)
	assert.Equal(t, window.DefaultOverscan, cfg.Overscan())
	assert.True(t, cfg.ShowScrollbar())
	assert.Equal(t, defaultThumbWidth, cfg.Thumbnails().Width)
	assert.Equal(t, filepath.Join("/work", ".shelf", "logs", "shelf.log"), cfg.LogFile())

	opts := cfg.ObserverOptions()
	assert.True(t, opts.FreezeOnceVisible)
	assert.Equal(t, defaultRootMargin, opts.RootMargin)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	zero := 0
	negative := -1
	off := false

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero overscan is fine", func(c *Config) { c.Options.Overscan = &zero }, ""},
		{"negative overscan", func(c *Config) { c.Options.Overscan = &negative }, "invalid overscan"},
		{"negative item height", func(c *Config) { c.Options.ItemHeight = -2 }, "invalid item height"},
		{"tiny thumbnails", func(c *Config) { c.Options.Thumbnails.Width = 1 }, "invalid thumbnail width"},
		{"bad root margin", func(c *Config) { c.Options.Thumbnails.RootMargin = "lots" }, "invalid thumbnail visibility options"},
		{"bad threshold", func(c *Config) { c.Options.Thumbnails.Threshold = []float64{2} }, "invalid thumbnail visibility options"},
		{"freeze off", func(c *Config) { c.Options.Thumbnails.FreezeOnceVisible = &off }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &Config{}
			cfg.setDefaults(t.TempDir())
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigField(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &Config{dataConfigDir: filepath.Join(dir, "nested", "shelf.json")}

	_, ok, err := cfg.GetConfigField("options.overscan")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cfg.SetConfigField("options.overscan", 8))
	require.NoError(t, cfg.SetConfigField("catalog", "demo.json"))

	v, ok, err := cfg.GetConfigField("options.overscan")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "8", v)

	data, err := os.ReadFile(cfg.dataConfigDir)
	require.NoError(t, err)
	loaded, err := LoadReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, "demo.json", loaded.Catalog)
	assert.Equal(t, 8, *loaded.Options.Overscan)
}

func TestLoad(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("SHELF_CATALOG", "")
	t.Setenv("SHELF_DEBUG", "")

	require.NoError(t, os.MkdirAll(filepath.Join(home, "config", "shelf"), 0o755))
	require.NoError(t, os.WriteFile(GlobalConfig(), []byte(`{"options": {"overscan": 2, "item_height": 5}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(work, "shelf.json"), []byte(`{"catalog": "catalog.json", "options": {"overscan": 7}}`), 0o644))

	cfg, err := Load(work, false)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Overscan())
	assert.Equal(t, 5, cfg.Options.ItemHeight)
	assert.Equal(t, filepath.Join(work, "catalog.json"), cfg.Catalog)
	assert.False(t, cfg.Options.Debug)

	t.Setenv("SHELF_CATALOG", "/elsewhere.json")
	t.Setenv("SHELF_DEBUG", "true")
	cfg, err = Load(work, false)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere.json", cfg.Catalog)
	assert.True(t, cfg.Options.Debug)
}
