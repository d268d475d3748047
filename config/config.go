package config

import (
	"fmt"
	"os"
	"strconv"

	"attendees/cache"
	"attendees/fields"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr       string
	RedisAddr      string
	PostgresURL    string
	JaegerEndpoint string

	FieldCacheTTLDays int
	MessagesLocale    string

	// RebuildReadModel replays the data lake into the admin read model on start.
	RebuildReadModel bool
}

// Load reads the configuration from the environment, with .env as an
// optional source.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("could not load .env file: %w", err)
	}

	cfg := Config{
		HTTPAddr:       getEnvOrDefault("HTTP_ADDR", ":8080"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		JaegerEndpoint: getEnvOrDefault("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		MessagesLocale: getEnvOrDefault("MESSAGES_LOCALE", fields.LocalePtBR),
	}

	ttl, err := strconv.Atoi(getEnvOrDefault("FIELD_CACHE_TTL_DAYS", strconv.Itoa(cache.DefaultTTLDays)))
	if err != nil {
		return Config{}, fmt.Errorf("invalid FIELD_CACHE_TTL_DAYS: %w", err)
	}
	if ttl <= 0 {
		logrus.WithField("ttl_days", ttl).Warn("Non-positive FIELD_CACHE_TTL_DAYS, using default")
		ttl = cache.DefaultTTLDays
	}
	cfg.FieldCacheTTLDays = ttl

	cfg.RebuildReadModel, err = strconv.ParseBool(getEnvOrDefault("REBUILD_READ_MODEL", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid REBUILD_READ_MODEL: %w", err)
	}

	if cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required")
	}
	if cfg.PostgresURL == "" {
		return Config{}, fmt.Errorf("POSTGRES_URL is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
