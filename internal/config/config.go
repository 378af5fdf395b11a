package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config carries service configuration sourced from the environment.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	RedisAddr   string
	WorkerID    string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		WorkerID:    os.Getenv("WORKER_ID"),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
