package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	valid := Config{
		ModelPaths: []string{"model.hcl"},
		Log:        LogConfig{Level: "INFO", Format: "Text"},
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no paths", mutate: func(c *Config) { c.ModelPaths = nil }, wantErr: "model path"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: "invalid log level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "invalid log format"},
		{name: "dotted separator", mutate: func(c *Config) { c.Naming.Separator = "." }, wantErr: "invalid naming separator"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			got, err := NewConfig(c)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "info", got.Log.Level)
			assert.Equal(t, "text", got.Log.Format)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(NewViper(), "", []string{"m.hcl"})
	require.NoError(t, err)

	assert.Equal(t, []string{"m.hcl"}, cfg.ModelPaths)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "_", cfg.Naming.Separator)
	assert.False(t, cfg.Validate.RemoveUnused)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odegrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
validate:
  remove_unused: true
naming:
  reserved: [exp, log]
  prefixes:
    tmp: u_
  separator: "__"
metrics:
  enabled: true
  file: out.prom
`), 0o644))

	cfg, err := LoadConfig(NewViper(), path, []string{"m.hcl"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Validate.RemoveUnused)
	assert.Equal(t, []string{"exp", "log"}, cfg.Naming.Reserved)
	assert.Equal(t, map[string]string{"tmp": "u_"}, cfg.Naming.Prefixes)
	assert.Equal(t, "__", cfg.Naming.Separator)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "out.prom", cfg.Metrics.File)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("ODEGRID_LOG_LEVEL", "warn")
	t.Setenv("ODEGRID_VALIDATE_REMOVE_UNUSED", "true")

	cfg, err := LoadConfig(NewViper(), "", []string{"m.hcl"})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Validate.RemoveUnused)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"), []string{"m.hcl"})
	require.ErrorContains(t, err, "reading config")
}
