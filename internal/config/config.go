package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port        string
	Env         string
	AllowOrigin string
	StaticDir   string

	// Store
	CSVPath string

	// Auth
	AppPassword     string
	AppPasswordHash string
	APIToken        string
	SessionSecret   string
	SessionTTL      time.Duration

	// Rate limiting
	RateLimit  int
	RateWindow time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		AllowOrigin: getEnv("ALLOW_ORIGIN", "*"),
		StaticDir:   getEnv("STATIC_DIR", "./static"),

		// Store
		CSVPath: getEnv("CSV_PATH", "./notes.csv"),

		// Auth
		AppPassword:     getEnv("APP_PASSWORD", "admin123"),
		AppPasswordHash: getEnv("APP_PASSWORD_HASH", ""),
		APIToken:        getEnv("API_TOKEN", ""),
		SessionSecret:   getEnv("SESSION_SECRET", "fallback-session-secret-for-dev-only"),
	}

	config.SessionTTL = getDurationEnv("SESSION_TTL", 24*time.Hour)
	config.RateWindow = getDurationEnv("RATE_WINDOW", 60*time.Second)
	config.RateLimit = getIntEnv("RATE_LIMIT", 30)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

// getDurationEnv retrieves a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
