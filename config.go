package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/task-tracker/modules/auth"
)

// Config holds the process configuration read from the environment.
type Config struct {
	HTTPPort int
	DBPath   string
	DBDebug  bool

	JWTSecretKey  string
	JWTIssuer     string
	JWTTokenTTL   time.Duration
	AuthDemoUsers []string

	RedisAddr         string
	RedisPassword     string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	ActivityHistory int
	ShutdownTimeout time.Duration
	LogLevel        string
}

// loadConfig reads the configuration, falling back to defaults for
// missing or malformed values.
func loadConfig() Config {
	jwtDefaults := auth.DefaultJWTConfig()

	return Config{
		HTTPPort: getEnvInt("HTTP_PORT", 3000),
		DBPath:   getEnv("DB_PATH", "tasks.db"),
		DBDebug:  getEnvBool("DB_DEBUG", false),

		JWTSecretKey:  getEnv("JWT_SECRET_KEY", jwtDefaults.SecretKey),
		JWTIssuer:     getEnv("JWT_ISSUER", jwtDefaults.Issuer),
		JWTTokenTTL:   getEnvDuration("JWT_TOKEN_TTL", jwtDefaults.AccessTokenDuration),
		AuthDemoUsers: getEnvList("AUTH_DEMO_USERS"),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		ActivityHistory: getEnvInt("ACTIVITY_HISTORY", 100),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable as a list.
func getEnvList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
