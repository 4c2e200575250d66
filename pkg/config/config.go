package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port    string
		Env     string
		Timeout time.Duration
	}

	// Database configuration (relational record store)
	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
		MaxConns int
		Timeout  time.Duration
	}

	// Redis configuration (session store)
	Redis struct {
		Addr     string
		Password string
		DB       int
		// SessionTTL is applied on every session write; 0 keeps sessions forever
		SessionTTL time.Duration
	}

	// LLM provider configuration
	LLM struct {
		APIKey      string
		BaseURL     string
		Model       string
		Temperature float64
		// CallTimeout bounds each classification and generation call independently
		CallTimeout time.Duration
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Request limits
	Limits struct {
		RateLimit        float64
		RateLimitBurst   int
		MaxMessageLength int
	}

	// Catalog cache settings
	Cache struct {
		TTL         time.Duration
		MaxSize     int
		PurgeWindow time.Duration
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables.
// Uses singleton pattern to ensure only one instance exists.
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()

		instance = &Config{}

		// Server config
		instance.Server.Port = getEnvString("PORT", "8080")
		instance.Server.Env = getEnvString("APP_ENV", "development")
		instance.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 30*time.Second)

		// Database config
		instance.Database.Host = getEnvString("DB_HOST", "localhost")
		instance.Database.Port = getEnvString("DB_PORT", "5432")
		instance.Database.User = getEnvString("DB_USER", "chatbot_user")
		instance.Database.Password = getEnvString("DB_PASSWORD", "chatbot_pass")
		instance.Database.Name = getEnvString("DB_NAME", "chatbot_db")
		instance.Database.SSLMode = getEnvString("DB_SSL_MODE", "disable")
		instance.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 20)
		instance.Database.Timeout = getEnvDuration("DB_TIMEOUT", 5*time.Second)

		// Redis config
		instance.Redis.Addr = getEnvString("REDIS_ADDR", "localhost:6379")
		instance.Redis.Password = getEnvString("REDIS_PASSWORD", "")
		instance.Redis.DB = getEnvInt("REDIS_DB", 0)
		instance.Redis.SessionTTL = getEnvDuration("SESSION_TTL", 24*time.Hour)

		// LLM config
		instance.LLM.APIKey = getEnvString("LLM_API_KEY", "")
		instance.LLM.BaseURL = getEnvString("LLM_BASE_URL", "")
		instance.LLM.Model = getEnvString("LLM_MODEL", "gpt-4o-mini")
		instance.LLM.Temperature = getEnvFloat("LLM_TEMPERATURE", 0.2)
		instance.LLM.CallTimeout = getEnvDuration("LLM_CALL_TIMEOUT", 30*time.Second)

		// Logging config
		instance.Logging.Level = getEnvString("LOG_LEVEL", "info")
		instance.Logging.Format = getEnvString("LOG_FORMAT", "json")

		// Limits
		instance.Limits.RateLimit = float64(getEnvInt("RATE_LIMIT", 5))
		instance.Limits.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
		instance.Limits.MaxMessageLength = getEnvInt("MAX_MESSAGE_LENGTH", 4000)

		// Catalog cache settings
		instance.Cache.TTL = getEnvDuration("CACHE_TTL", 5*time.Minute)
		instance.Cache.MaxSize = getEnvInt("CACHE_MAX_SIZE", 1000)
		instance.Cache.PurgeWindow = getEnvDuration("CACHE_PURGE_WINDOW", 10*time.Minute)
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
