package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Aggregation
	FetchTimeout time.Duration `json:"fetch_timeout"`
	MinPageSize  int           `json:"min_page_size"`
	MaxPageSize  int           `json:"max_page_size"`

	// Redis configuration (custom source list persistence). An empty
	// URL switches the source repository to the in-memory implementation.
	RedisURL    string `json:"redis_url"`
	RedisPrefix string `json:"redis_prefix"`

	// AI Configuration
	AIBackend  string        `json:"ai_backend"`
	AIApiKey   string        `json:"ai_api_key"`
	AIModel    string        `json:"ai_model"`
	AIEndpoint string        `json:"ai_endpoint"`
	AITimeout  time.Duration `json:"ai_timeout"`

	// Publish sink
	PublishURL   string `json:"publish_url"`
	PublishToken string `json:"publish_token"`

	// Logging
	LogLevel string `json:"log_level"`

	// Security
	AdminAPIKey string `json:"admin_api_key"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Aggregation
		FetchTimeout: getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		MinPageSize:  getEnvAsInt("MIN_PAGE_SIZE", 5),
		MaxPageSize:  getEnvAsInt("MAX_PAGE_SIZE", 50),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "newsdesk:"),

		// AI Configuration
		AIBackend:  getEnv("AI_BACKEND", "gemini"),
		AIApiKey:   getEnv("AI_API_KEY", ""),
		AIModel:    getEnv("AI_MODEL", "gemini-pro"),
		AIEndpoint: getEnv("AI_ENDPOINT", ""),
		AITimeout:  getEnvAsDuration("AI_TIMEOUT", 60*time.Second),

		// Publish sink
		PublishURL:   getEnv("PUBLISH_URL", ""),
		PublishToken: getEnv("PUBLISH_TOKEN", ""),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate normalizes derived values and rejects impossible settings
func (c *Config) Validate() error {
	if c.MinPageSize < 1 {
		c.MinPageSize = 1
	}
	if c.MaxPageSize < c.MinPageSize {
		c.MaxPageSize = c.MinPageSize
	}
	return nil
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
