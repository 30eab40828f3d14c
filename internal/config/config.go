package config

import (
	"os"
	"strconv"
	"time"

	"vizboard/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
	Render   RenderConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
	// MaxConcurrentCharts bounds parallel chart precomputation on the
	// dashboard page
	MaxConcurrentCharts int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
}

// DatabaseConfig holds optional Postgres settings. An empty URL selects
// the in-memory repositories.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether a database is configured
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// DataConfig holds ingest and sample-data settings
type DataConfig struct {
	// MaxUploadBytes caps uploaded and fetched dataset payloads
	MaxUploadBytes int64
	// FetchTimeout bounds URL dataset fetches
	FetchTimeout time.Duration
	// SampleRecords sizes the generated sample dataset
	SampleRecords int
	// SampleSeed makes sample generation reproducible
	SampleSeed int64
}

// RenderConfig holds chart export defaults
type RenderConfig struct {
	Width  int
	Height int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:                getEnvOrDefault("PORT", "8080"),
			MaxConcurrentCharts: getEnvIntOrDefault("MAX_CONCURRENT_CHARTS", 4),
			ReadTimeout:         getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:        getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnvOrDefault("DATABASE_URL", ""),
			MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Data: DataConfig{
			MaxUploadBytes: getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 32<<20),
			FetchTimeout:   getEnvDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
			SampleRecords:  getEnvIntOrDefault("SAMPLE_RECORDS", 500),
			SampleSeed:     getEnvInt64OrDefault("SAMPLE_SEED", 42),
		},
		Render: RenderConfig{
			Width:  getEnvIntOrDefault("RENDER_WIDTH", 1024),
			Height: getEnvIntOrDefault("RENDER_HEIGHT", 640),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Server.MaxConcurrentCharts < 1 {
		return errors.ConfigInvalid("MAX_CONCURRENT_CHARTS must be at least 1")
	}
	if config.Data.MaxUploadBytes < 1 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Data.SampleRecords < 1 {
		return errors.ConfigInvalid("SAMPLE_RECORDS must be positive")
	}
	if config.Render.Width < 1 || config.Render.Height < 1 {
		return errors.ConfigInvalid("render dimensions must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
