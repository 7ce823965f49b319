// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultMaxUploadBytes = 50 << 20

// Config holds all runtime configuration for the service.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	// Metadata store: the hosted backend's PostgreSQL database.
	DatabaseURL string

	// Object store (S3-compatible: MinIO locally, the hosted backend's S3 gateway in production)
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageBucket     string
	StorageUseSSL     bool
	StoragePublicBase string // browser-accessible base URL, e.g. "http://localhost:9000/uploads"

	MaxUploadBytes int64
}

// Load reads configuration from a .env file (if present) and environment variables.
// It fails when the store location or credentials are absent.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		StorageEndpoint:   os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKey:  os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey:  os.Getenv("STORAGE_SECRET_KEY"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "uploads"),
		StorageUseSSL:     getEnv("STORAGE_USE_SSL", "false") == "true",
		StoragePublicBase: os.Getenv("STORAGE_PUBLIC_BASE"),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.StorageEndpoint == "" {
		missing = append(missing, "STORAGE_ENDPOINT")
	}
	if cfg.StorageAccessKey == "" {
		missing = append(missing, "STORAGE_ACCESS_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	maxBytes, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", strconv.Itoa(defaultMaxUploadBytes)), 10, 64)
	if err != nil || maxBytes <= 0 {
		return nil, errors.New("MAX_UPLOAD_BYTES must be a positive integer")
	}
	cfg.MaxUploadBytes = maxBytes

	if cfg.StoragePublicBase == "" {
		cfg.StoragePublicBase = cfg.defaultPublicBase()
	}

	return cfg, nil
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// defaultPublicBase builds the path-style bucket URL, e.g. "http://localhost:9000/uploads".
func (c *Config) defaultPublicBase() string {
	scheme := "http"
	if c.StorageUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, strings.TrimRight(c.StorageEndpoint, "/"), c.StorageBucket)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
