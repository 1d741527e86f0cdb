package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the fleet scraper
type Config struct {
	IndexURL         string
	BaseURL          string
	UserAgent        string
	RequestTimeout   time.Duration
	PacingDelay      time.Duration
	OutputPath       string
	DBPath           string
	ScheduleInterval time.Duration
	ListenAddr       string
	CronSecret       string
	Blob             BlobConfig
	Log              LogConfig
}

// BlobConfig holds object store settings. Uploads are skipped when Token is empty.
type BlobConfig struct {
	Token    string
	APIURL   string
	Pathname string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from the dotenv file, config file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("index_url", "https://advantage-aviation.com/rental-aircraft/#tab4")
	v.SetDefault("base_url", "https://advantage-aviation.com")
	v.SetDefault("user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("pacing_delay", "1s")
	v.SetDefault("output_path", "public/cessna_172_g1000_fleet.json")
	v.SetDefault("db_path", "fleet_history.db")
	v.SetDefault("schedule_interval", "24h")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("cron_secret", "")
	v.SetDefault("blob.token", "")
	v.SetDefault("blob.api_url", "https://blob.vercel-storage.com")
	v.SetDefault("blob.pathname", "cessna_172_g1000_fleet.json")
	v.SetDefault("env_file", ".env.local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/fleet_scraper")
	v.AddConfigPath(".")

	if configPath := os.Getenv("FLEET_SCRAPER_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults + env vars
	}

	v.SetEnvPrefix("FLEET_SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	envFile := v.GetString("env_file")
	if err := loadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("error reading env file %s: %w", envFile, err)
	}

	// The object store token keeps the unprefixed name used by the hosting platform
	if err := v.BindEnv("blob.token", "FLEET_SCRAPER_BLOB_TOKEN", "BLOB_READ_WRITE_TOKEN"); err != nil {
		return nil, fmt.Errorf("error binding blob token: %w", err)
	}
	if err := v.BindEnv("cron_secret", "FLEET_SCRAPER_CRON_SECRET", "CRON_SECRET"); err != nil {
		return nil, fmt.Errorf("error binding cron secret: %w", err)
	}

	cfg := &Config{
		IndexURL:         v.GetString("index_url"),
		BaseURL:          v.GetString("base_url"),
		UserAgent:        v.GetString("user_agent"),
		RequestTimeout:   v.GetDuration("request_timeout"),
		PacingDelay:      v.GetDuration("pacing_delay"),
		OutputPath:       v.GetString("output_path"),
		DBPath:           v.GetString("db_path"),
		ScheduleInterval: v.GetDuration("schedule_interval"),
		ListenAddr:       v.GetString("listen_addr"),
		CronSecret:       v.GetString("cron_secret"),
		Blob: BlobConfig{
			Token:    v.GetString("blob.token"),
			APIURL:   v.GetString("blob.api_url"),
			Pathname: v.GetString("blob.pathname"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadDotEnv exports the entries of a KEY=value file into the process environment.
// Variables that are already set win. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	env := viper.New()
	env.SetConfigFile(path)
	env.SetConfigType("env")
	if err := env.ReadInConfig(); err != nil {
		return err
	}

	for _, key := range env.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, env.GetString(key)); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}

	return nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.IndexURL == "" {
		return fmt.Errorf("index_url is required")
	}

	if cfg.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be greater than 0")
	}

	if cfg.PacingDelay < 0 {
		return fmt.Errorf("pacing_delay must not be negative")
	}

	if cfg.ScheduleInterval <= 0 {
		return fmt.Errorf("schedule_interval must be greater than 0")
	}

	if cfg.OutputPath == "" {
		return fmt.Errorf("output_path is required")
	}

	if cfg.Blob.Token != "" && cfg.Blob.APIURL == "" {
		return fmt.Errorf("blob.api_url is required when a blob token is set")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
