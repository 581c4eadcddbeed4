// Package config provides configuration management for the climate router.
// It loads configuration from environment variables with sensible defaults
// and validates the configuration before the application starts.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path; stdout when empty
//   - BASE_PATH: URL prefix stripped before route matching (default: empty)
//
// Schedule Settings:
//   - TIMEZONE: IANA zone used for all day-boundary computations
//     (default: Europe/Amsterdam)
//   - REFRESH_CRON: Cron spec for the timeline refresh job (default: "0 0 * * *")
//
// Storage:
//   - DATABASE_PATH: SQLite database file path (default: ./climate_router.db)
//
// Security:
//   - JWT_SECRET: JWT signing secret (required, minimum 32 characters)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds all configuration values for the climate router application.
// Values are loaded with Load() and should be checked with Validate() before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	LogFile  string // Log file path, stdout when empty
	BasePath string // URL prefix stripped before route matching

	// Schedule settings
	Timezone    string // IANA zone for schedule day boundaries
	RefreshCron string // Cron spec for the timeline refresh job

	// Storage
	DatabasePath string // Path to SQLite database file

	// Security
	JWTSecret string // Secret key for JWT verification (required)
}

// Load creates a new Config instance with values loaded from environment
// variables, falling back to defaults for anything unset. It does not
// validate; call Validate() on the result.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
		BasePath: getEnv("BASE_PATH", ""),

		Timezone:    getEnv("TIMEZONE", "Europe/Amsterdam"),
		RefreshCron: getEnv("REFRESH_CRON", "0 0 * * *"),

		DatabasePath: getEnv("DATABASE_PATH", "./climate_router.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks required fields, value formats and cross-field rules.
// The application should call this after Load() and before starting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long for security")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE must be a valid IANA zone name: %v", err)
	}

	if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
		return fmt.Errorf("REFRESH_CRON must be a valid cron spec: %v", err)
	}

	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}

	return nil
}

// Location resolves the configured IANA zone. Validate() must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
