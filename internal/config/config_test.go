package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears variables that would leak in from the developer's shell
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("FLEET_SCRAPER_CONFIG_PATH", "")
	t.Setenv("FLEET_SCRAPER_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("BLOB_READ_WRITE_TOKEN", "")
	t.Setenv("CRON_SECRET", "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://advantage-aviation.com/rental-aircraft/#tab4", cfg.IndexURL)
	assert.Equal(t, "https://advantage-aviation.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Second, cfg.PacingDelay)
	assert.Equal(t, 24*time.Hour, cfg.ScheduleInterval)
	assert.Equal(t, "public/cessna_172_g1000_fleet.json", cfg.OutputPath)
	assert.Equal(t, "cessna_172_g1000_fleet.json", cfg.Blob.Pathname)
	assert.Empty(t, cfg.Blob.Token)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FLEET_SCRAPER_PACING_DELAY", "250ms")
	t.Setenv("FLEET_SCRAPER_LOG_LEVEL", "debug")
	t.Setenv("FLEET_SCRAPER_BLOB_API_URL", "http://localhost:9000")
	t.Setenv("BLOB_READ_WRITE_TOKEN", "vercel_blob_rw_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.PacingDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://localhost:9000", cfg.Blob.APIURL)
	assert.Equal(t, "vercel_blob_rw_test", cfg.Blob.Token)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "index_url: http://localhost:8081/rentals\nrequest_timeout: 5s\nlog:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	t.Setenv("FLEET_SCRAPER_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8081/rentals", cfg.IndexURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.Unsetenv("FLEET_SCRAPER_LISTEN_ADDR"))
	t.Cleanup(func() { os.Unsetenv("FLEET_SCRAPER_LISTEN_ADDR") })

	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(path, []byte("FLEET_SCRAPER_LISTEN_ADDR=:9999\n"), 0644))
	t.Setenv("FLEET_SCRAPER_ENV_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ListenAddr)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolate(t)
	t.Setenv("FLEET_SCRAPER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			IndexURL:         "https://example.test/",
			BaseURL:          "https://example.test",
			RequestTimeout:   time.Second,
			PacingDelay:      time.Second,
			ScheduleInterval: time.Hour,
			OutputPath:       "fleet.json",
			Log:              LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero pacing allowed", mutate: func(c *Config) { c.PacingDelay = 0 }},
		{name: "missing index url", mutate: func(c *Config) { c.IndexURL = "" }, wantErr: "index_url"},
		{name: "missing base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: "base_url"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: "request_timeout"},
		{name: "negative pacing", mutate: func(c *Config) { c.PacingDelay = -time.Second }, wantErr: "pacing_delay"},
		{name: "zero schedule", mutate: func(c *Config) { c.ScheduleInterval = 0 }, wantErr: "schedule_interval"},
		{name: "missing output path", mutate: func(c *Config) { c.OutputPath = "" }, wantErr: "output_path"},
		{name: "token without api url", mutate: func(c *Config) { c.Blob.Token = "t" }, wantErr: "blob.api_url"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
