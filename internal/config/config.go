// Package config loads the process configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	// Core settings
	Port     string
	LogLevel string

	// Snapshot source: a local directory by default, a GCS bucket when set.
	SnapshotDir         string
	SnapshotBucket      string
	SnapshotPrefix      string
	SnapshotCredentials string

	// Cache TTLs
	MetricsCacheTTL  time.Duration
	SpendingCacheTTL time.Duration

	// Calculator tunables
	IlliquidFrictionPct       float64
	BaseCreditScore           int
	UtilizationPenalty        float64
	SuccessMarginPct          float64
	DefaultMonthlyBudgetCents int64

	// HTTP settings
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not read .env file: %v", err)
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SnapshotDir:         getEnv("SNAPSHOT_DIR", "./data/snapshot"),
		SnapshotBucket:      getEnv("SNAPSHOT_BUCKET", ""),
		SnapshotPrefix:      getEnv("SNAPSHOT_PREFIX", ""),
		SnapshotCredentials: getEnv("SNAPSHOT_CREDENTIALS", ""),

		MetricsCacheTTL:  getEnvAsDuration("METRICS_CACHE_TTL", time.Minute),
		SpendingCacheTTL: getEnvAsDuration("SPENDING_CACHE_TTL", time.Minute),

		IlliquidFrictionPct:       getEnvAsFloat("ILLIQUID_FRICTION_PCT", 30),
		BaseCreditScore:           getEnvAsInt("BASE_CREDIT_SCORE", 715),
		UtilizationPenalty:        getEnvAsFloat("UTILIZATION_PENALTY", 2),
		SuccessMarginPct:          getEnvAsFloat("SUCCESS_MARGIN_PCT", 10),
		DefaultMonthlyBudgetCents: getEnvAsInt64("DEFAULT_MONTHLY_BUDGET_CENTS", 20000),

		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 100),
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a
// fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("invalid integer value for %s (%q), using default %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("invalid integer value for %s (%q), using default %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("invalid numeric value for %s (%q), using default %g", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or
// returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("invalid duration value for %s (%q), using default %s", key, valueStr, fallback)
	return fallback
}

// getEnvAsSlice retrieves a comma-separated environment variable.
func getEnvAsSlice(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	parts := strings.Split(valueStr, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
