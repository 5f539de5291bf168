package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Server
	Addr            string
	StaticDir       string
	ShutdownTimeout time.Duration

	// Database
	DBPath string
	Seed   bool

	// Env selects the log encoder ("production" or anything else).
	Env string

	// Warnings collects problems found while loading. Load runs before the
	// logger exists, so the caller logs them once the logger is set up.
	Warnings []string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() (*Config, error) {
	var warnings []string
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		warnings = append(warnings, fmt.Sprintf("could not read .env file: %v", err))
	}

	cfg := &Config{
		Addr:      getEnv("PRECIFICACAO_ADDR", ":3000"),
		StaticDir: getEnv("PRECIFICACAO_STATIC_DIR", "public"),
		DBPath:    getEnv("PRECIFICACAO_DB", "precificacao.db"),
		Env:       getEnv("ENV", "development"),
	}

	seedStr := getEnv("PRECIFICACAO_SEED", "true")
	seed, err := strconv.ParseBool(seedStr)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("invalid PRECIFICACAO_SEED value %q, falling back to true", seedStr))
		seed = true
	}
	cfg.Seed = seed

	timeoutStr := getEnv("PRECIFICACAO_SHUTDOWN_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		warnings = append(warnings, fmt.Sprintf("invalid PRECIFICACAO_SHUTDOWN_TIMEOUT value %q, falling back to 10s", timeoutStr))
		timeout = 10 * time.Second
	}
	cfg.ShutdownTimeout = timeout
	cfg.Warnings = warnings

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
