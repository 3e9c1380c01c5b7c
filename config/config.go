package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	ListenAddr string

	// Database configuration
	DatabaseURL string

	// Redis session store
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Session lifetime for issued bearer tokens
	SessionTTL time.Duration

	// Support assistant (Gemini REST API)
	AssistantAPIKey  string
	AssistantModel   string
	AssistantBaseURL string

	// Admin provisioning (used by the seed subcommand only)
	AdminEmail    string
	AdminPassword string

	// How often the background pool scan runs
	ScanInterval time.Duration

	// Environment is "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// Local development convenience; missing .env is not an error
	_ = godotenv.Load()

	config := &Config{
		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionTTL:   24 * time.Hour,
		ScanInterval: time.Minute,

		AssistantAPIKey:  os.Getenv("GEMINI_API_KEY"),
		AssistantModel:   os.Getenv("GEMINI_MODEL"),
		AssistantBaseURL: os.Getenv("GEMINI_BASE_URL"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if config.AssistantModel == "" {
		config.AssistantModel = "gemini-2.0-flash"
	}
	if config.AssistantBaseURL == "" {
		config.AssistantBaseURL = "https://generativelanguage.googleapis.com"
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		if parsed, err := strconv.Atoi(db); err == nil {
			config.RedisDB = parsed
		}
	}
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			config.SessionTTL = parsed
		}
	}
	if interval := os.Getenv("SCAN_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.ScanInterval = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required")
		}
	}

	return config, nil
}
