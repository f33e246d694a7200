package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	SecretKey      string        // Required: HMAC signing secret for session tokens
	AdminSecretKey string        // Optional: secret required to provision admin accounts
	SessionTTL     time.Duration // Optional: session token lifetime (default: 24h)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./blog.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Stale token sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		SecretKey:            os.Getenv("SECRET_KEY"),
		AdminSecretKey:       os.Getenv("ADMIN_SECRET_KEY"), // Optional: if unset, admin provisioning is disabled
		SessionTTL:           getEnvSecondsOrDefault("SESSION_TTL_SECONDS", 24*time.Hour),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "blog.db"),
		PepperFile:           getEnvOrDefault("PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

// getEnvSecondsOrDefault reads an integer number of seconds.
func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
