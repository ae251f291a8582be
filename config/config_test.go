package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := load(filepath.Join(dir, "missing.yaml"), "", noEnv)
	require.Error(t, err, "an explicit config path must exist")

	t.Chdir(dir)
	cfg, err = load("", filepath.Join(dir, ".env"), noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "javatree.yaml", `
all_classes: true
format: text
ignore:
  - build/
  - "*Test.java"
nodes_per_file: 10
`)
	envFile := writeFile(t, dir, ".env", "JAVATREE_FORMAT=dot\nJAVATREE_SPLIT=true\n")

	t.Run("yaml only", func(t *testing.T) {
		cfg, err := load(path, "", noEnv)
		require.NoError(t, err)
		assert.True(t, cfg.AllClasses)
		assert.Equal(t, FormatText, cfg.Format)
		assert.Equal(t, []string{"build/", "*Test.java"}, cfg.Ignore)
		assert.Equal(t, 10, cfg.NodesPerFile)
		assert.Equal(t, ColorAuto, cfg.Color)
	})

	t.Run("dotenv overrides yaml", func(t *testing.T) {
		cfg, err := load(path, envFile, noEnv)
		require.NoError(t, err)
		assert.Equal(t, FormatDot, cfg.Format)
		assert.True(t, cfg.Split)
	})

	t.Run("environment overrides dotenv", func(t *testing.T) {
		env := map[string]string{
			"JAVATREE_FORMAT": "json",
			"JAVATREE_IGNORE": "gen/, vendor/",
			"JAVATREE_SPLIT":  "false",
		}
		cfg, err := load(path, envFile, func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		})
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, cfg.Format)
		assert.False(t, cfg.Split)
		assert.Equal(t, []string{"gen/", "vendor/"}, cfg.Ignore)
	})
}

func TestLoadBadValues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "format: [not, a, string]\n")
	_, err := load(path, "", noEnv)
	assert.Error(t, err)

	_, err = load("", "", func(k string) (string, bool) {
		if k == "JAVATREE_NODES_PER_FILE" {
			return "many", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "JAVATREE_NODES_PER_FILE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown format", func(c *Config) { c.Format = "svg" }, true},
		{"unknown color", func(c *Config) { c.Color = "sometimes" }, true},
		{"negative budget", func(c *Config) { c.Format = FormatDot; c.NodesPerFile = -1 }, true},
		{"split needs dot", func(c *Config) { c.Split = true }, true},
		{"split with dot", func(c *Config) { c.Format = FormatDot; c.Split = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestIsTree(t *testing.T) {
	for _, f := range Formats {
		cfg := Config{Format: f}
		want := f != FormatDTree && f != FormatDot && f != FormatJSON
		assert.Equal(t, want, cfg.IsTree(), f)
	}
}
