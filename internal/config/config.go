// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App  string
	Port int

	PostgresDSN           string
	PostgresMigrationsDir string
	DBPath                string
	DBMigrationsDir       string

	RedisURL string

	CORSOrigins []string
	// ReconcileSchedule is a cron expression; empty disables the job.
	ReconcileSchedule string
	LogLevel          slog.Level
}

// Lambda reports whether the process runs inside AWS Lambda.
func Lambda() bool { return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" }

// Load reads the environment, loading .env and .env.local first when not on
// Lambda. Missing env files are not an error.
func Load() (*Config, error) {
	if !Lambda() {
		_ = godotenv.Load(".env", ".env.local")
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	schedule, ok := os.LookupEnv("RATING_RECONCILE_SCHEDULE")
	if !ok {
		schedule = "@every 1h"
	}

	return &Config{
		App:                   strings.ToLower(getEnv("APP", "dev")),
		Port:                  port,
		PostgresDSN:           strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		PostgresMigrationsDir: os.Getenv("POSTGRES_MIGRATIONS_DIR"),
		DBPath:                strings.TrimSpace(os.Getenv("DB_PATH")),
		DBMigrationsDir:       os.Getenv("DB_MIGRATIONS_DIR"),
		RedisURL:              strings.TrimSpace(os.Getenv("REDIS_URL")),
		CORSOrigins:           splitList(getEnv("CORS_ORIGINS", "*")),
		ReconcileSchedule:     strings.TrimSpace(schedule),
		LogLevel:              level,
	}, nil
}

// Dev reports whether development-only routes and demo data are enabled.
func (c *Config) Dev() bool { return c.App == "dev" }

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
