package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoadAndInitConfigs_Defaults ensures missing files fall back to defaults.
func TestLoadAndInitConfigs_Defaults(t *testing.T) {
	config, err := LoadAndInitConfigs("./missing.yml", "./missing.env", "abc123", "v0.1.0", "2024-07-01")
	require.NoError(t, err)

	assert.Equal(t, "abc123", config.GitCommit)
	assert.Equal(t, "v0.1.0", config.GitTag)
	assert.Equal(t, "2024-07-01", config.BuildTime)
	assert.Equal(t, DefaultBaseURL, config.Catalog.BaseURL)
	assert.Equal(t, DefaultRequestTimeout, config.Catalog.RequestTimeout)
	assert.Equal(t, DefaultDebounce, config.Search.Debounce)
	assert.Equal(t, DefaultBreakpoint, config.Viewport.Breakpoint)
	assert.Equal(t, DefaultCellWidth, config.Viewport.CellWidth)
	assert.Equal(t, DefaultLogFile, config.LogFile)
	assert.Equal(t, DefaultLogMaxSize, config.LogMaxSize)
	assert.Equal(t, zapcore.InfoLevel, config.LogLevel)
	assert.False(t, config.Tracing.Enabled)
}

// TestLoadAndInitConfigs_Sources ensures the environment overrides the yaml file.
func TestLoadAndInitConfigs_Sources(t *testing.T) {
	yml := writeTempFile(t, "config.yml", `
is_production: true
log_level: debug
catalog:
  base_url: http://catalog.local:9000
  request_timeout: 3s
  rate_limit: 5
search:
  debounce: 150ms
viewport:
  breakpoint: 640
`)
	env := writeTempFile(t, "config.env", "BKS_VIEWPORT_CELL_WIDTH=10\n")
	t.Setenv("BKS_CATALOG_BASE_URL", "http://override.local:8081")
	t.Cleanup(func() { os.Unsetenv("BKS_VIEWPORT_CELL_WIDTH") })

	config, err := LoadAndInitConfigs(yml, env, "", "", "")
	require.NoError(t, err)

	assert.True(t, config.IsProduction)
	assert.Equal(t, zapcore.DebugLevel, config.LogLevel)
	assert.Equal(t, "http://override.local:8081", config.Catalog.BaseURL)
	assert.Equal(t, 3*time.Second, config.Catalog.RequestTimeout)
	assert.Equal(t, 5.0, config.Catalog.RateLimit)
	assert.Equal(t, 1, config.Catalog.RateBurst, "burst defaults to one when limiting")
	assert.Equal(t, 150*time.Millisecond, config.Search.Debounce)
	assert.Equal(t, 640, config.Viewport.Breakpoint)
	assert.Equal(t, 10, config.Viewport.CellWidth)
}

// TestLoadAndInitConfigs_InvalidFile ensures a broken yaml file is reported.
func TestLoadAndInitConfigs_InvalidFile(t *testing.T) {
	yml := writeTempFile(t, "config.yml", "catalog: [oops")
	_, err := LoadAndInitConfigs(yml, "", "", "", "")
	assert.ErrorContains(t, err, "failed to load configurations from file")
}

// TestInitConfig_Validation ensures inconsistent settings are rejected.
func TestInitConfig_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		config Config
		errMsg string
	}{
		{"relative base url", Config{Catalog: CatalogConfig{BaseURL: "localhost:8080/api"}}, "valid catalog base url"},
		{"no scheme", Config{Catalog: CatalogConfig{BaseURL: "//catalog"}}, "valid catalog base url"},
		{"negative timeout", Config{Catalog: CatalogConfig{RequestTimeout: -time.Second}}, "timeout"},
		{"negative debounce", Config{Search: SearchConfig{Debounce: -time.Millisecond}}, "debounce"},
		{"negative breakpoint", Config{Viewport: ViewportConfig{Breakpoint: -1}}, "breakpoint"},
		{"tracing without endpoint", Config{Tracing: TracingConfig{Enabled: true}}, "tracing endpoint"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := InitConfig(&tc.config, "", "", "")
			assert.ErrorContains(t, err, tc.errMsg)
		})
	}
}
