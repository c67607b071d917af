package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DatabasePath string // SQLite file path
	RedisURL     string // optional; empty disables the Redis mark store
	MongoURI     string // optional; empty disables conversation archival

	// Content service configuration
	ContentAPIURL  string // base URL of the AI content service
	ContentTimeout time.Duration

	// Trigger engine configuration
	PollInterval time.Duration
	Timezone     string // IANA name for wall-clock windows

	// Assistant config file (endpoints, classifier keywords, fallbacks)
	AssistantConfigPath string

	// Retention for messages and trigger marks
	MessageRetentionDays int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3001"),
		DatabasePath: getEnv("DATABASE_PATH", "daymate.db"),
		RedisURL:     getEnv("REDIS_URL", ""),
		MongoURI:     getEnv("MONGODB_URI", ""),

		ContentAPIURL:  getEnv("CONTENT_API_URL", "http://localhost:8900"),
		ContentTimeout: time.Duration(getIntEnv("CONTENT_TIMEOUT_SECONDS", 10)) * time.Second,

		PollInterval: time.Duration(getIntEnv("POLL_INTERVAL_SECONDS", 60)) * time.Second,
		Timezone:     getEnv("TIMEZONE", "Asia/Seoul"),

		AssistantConfigPath: getEnv("ASSISTANT_CONFIG_PATH", "assistant.yaml"),

		MessageRetentionDays: getIntEnv("MESSAGE_RETENTION_DAYS", 90),
	}
}

// Location resolves the configured timezone, falling back to the local zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
