package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL    string
	Environment    string
	TenantID       string
	EvalWorkers    int
	JobWorkers     int
	JobQueueSize   int
	JobTimeout     time.Duration
	PlanCacheSize  int
	RoundingPlaces int
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
	RunMigrations  bool
	MigrationsDir  string
}

func Load() Config {
	return Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Environment:    getEnv("APP_ENV", "development"),
		TenantID:       getEnv("TENANT_ID", "default"),
		EvalWorkers:    getEnvInt("EVAL_WORKERS", 4),
		JobWorkers:     getEnvInt("JOB_WORKERS", 2),
		JobQueueSize:   getEnvInt("JOB_QUEUE_SIZE", 128),
		JobTimeout:     getEnvDuration("JOB_TIMEOUT", 5*time.Minute),
		PlanCacheSize:  getEnvInt("PLAN_CACHE_SIZE", 64),
		RoundingPlaces: getEnvInt("ROUNDING_PLACES", 2),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		RunMigrations:  getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),
	}
}

// PersistenceEnabled reports whether invoices should be written to Postgres.
func (c Config) PersistenceEnabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if c.Environment == "production" && !c.PersistenceEnabled() {
		return fmt.Errorf("DATABASE_URL is required in production")
	}
	if strings.TrimSpace(c.TenantID) == "" {
		return fmt.Errorf("TENANT_ID must not be empty")
	}
	if c.EvalWorkers <= 0 {
		return fmt.Errorf("EVAL_WORKERS must be positive")
	}
	if c.JobWorkers <= 0 {
		return fmt.Errorf("JOB_WORKERS must be positive")
	}
	if c.JobQueueSize <= 0 {
		return fmt.Errorf("JOB_QUEUE_SIZE must be positive")
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("JOB_TIMEOUT must be positive")
	}
	if c.PlanCacheSize <= 0 {
		return fmt.Errorf("PLAN_CACHE_SIZE must be positive")
	}
	if c.RoundingPlaces < 0 {
		return fmt.Errorf("ROUNDING_PLACES must not be negative")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	return nil
}
