// Package config loads portal settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Addr   string
	DBPath string

	// AllowedEmailDomain restricts who may register. Empty allows any
	// domain.
	AllowedEmailDomain string

	// LogPath tees logs to a file when set.
	LogPath string

	// AMQPURL enables event publishing when set.
	AMQPURL      string
	AMQPExchange string

	// MinIOEndpoint switches blob storage from SQLite to an
	// S3-compatible bucket when set.
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first, without overriding variables
// already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	} else {
		slog.Debug("Loaded .env file")
	}

	cfg := &Config{
		Addr:               getEnv("ADDR", ":8080"),
		DBPath:             getEnv("DB_PATH", "lostfound.db"),
		AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "umt.edu.pk"),
		LogPath:            getEnv("LOG_PATH", ""),
		AMQPURL:            getEnv("AMQP_URL", ""),
		AMQPExchange:       getEnv("AMQP_EXCHANGE", "lostfound.events"),
		MinIOEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:        getEnv("MINIO_BUCKET", "lostfound-images"),
		MinIOUseSSL:        getEnvBool("MINIO_USE_SSL", false),
	}

	if cfg.MinIOEndpoint != "" && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ENDPOINT set but MINIO_ACCESS_KEY or MINIO_SECRET_KEY missing")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("Invalid boolean environment variable", "key", key, "value", v)
		return fallback
	}
	return b
}
