package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	RedisURL           string
	SessionSecret      string
	SessionIssuer      string
	SessionAudience    string
	SessionTTL         time.Duration
	PendingOrderTTL    time.Duration
	DeliveryLeadTime   time.Duration
	Timezone           string
	CORSAllowedOrigins []string
	LogLevel           string
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production environment variables are set directly
			logrus.Debug("No .env file found, using system environment variables")
		}
	} else {
		logrus.Infof("Loaded configuration from %s", envFile)
	}

	sessionTTL, err := getDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	pendingTTL, err := getDuration("PENDING_ORDER_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	leadTime, err := getDuration("DELIVERY_LEAD_TIME", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionIssuer:      getEnv("SESSION_ISSUER", "campus-eats"),
		SessionAudience:    getEnv("SESSION_AUDIENCE", "campus-eats-web"),
		SessionTTL:         sessionTTL,
		PendingOrderTTL:    pendingTTL,
		DeliveryLeadTime:   leadTime,
		Timezone:           getEnv("APP_TIMEZONE", "Local"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	// Development and test runs get a throwaway signing key
	if config.SessionSecret == "" && !config.IsProduction() {
		config.SessionSecret = "insecure-development-session-secret"
		logrus.Warn("SESSION_SECRET not set, using an insecure development secret")
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.IsProduction() && len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// Location resolves the configured timezone used for delivery-time checks
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GetConfig returns the loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (used at startup and in tests)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
