package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort              string
	Environment             string
	LogLevel                string
	FirebaseProject         string
	FirebaseDatabaseURL     string
	FirebaseCredentialsJSON string
	FirebaseCredentialsPath string
	StorageBucket           string
	RedisURL                string
	ChannelLogoCacheTTL     time.Duration
	RateLimitPerMinute      int
	CORSAllowedOrigins      []string
}

func Load() (*Config, error) {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	config := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		Environment:             getEnv("ENVIRONMENT", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		FirebaseProject:         getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseDatabaseURL:     getEnv("FIREBASE_DATABASE_URL", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:           getEnv("STORAGE_BUCKET", ""),
		RedisURL:                getEnv("REDIS_URL", ""),
		ChannelLogoCacheTTL:     time.Duration(getEnvAsInt64("CHANNEL_LOGO_CACHE_TTL_SECONDS", 3600)) * time.Second,
		RateLimitPerMinute:      int(getEnvAsInt64("RATE_LIMIT_PER_MINUTE", 120)),
		CORSAllowedOrigins:      getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	return config, nil
}

// Validate checks the settings the API server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.FirebaseProject == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if c.FirebaseDatabaseURL == "" {
		missing = append(missing, "FIREBASE_DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
