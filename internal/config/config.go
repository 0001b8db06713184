package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Session
	JWTSecret string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Billing rules
	// Days past the later of last-payment date and due date after which a
	// client is shown as inactive.
	InactiveAfterDays int

	// Reminder sweep shared secret; when set, the sweep endpoint requires it
	// in the X-Reminder-Secret header.
	ReminderSecret string

	// Email delivery
	Email EmailConfig
}

// EmailConfig holds the Resend delivery configuration
type EmailConfig struct {
	APIKey string
	From   string
}

// DefaultInactiveAfterDays is the inactivity threshold applied when
// INACTIVE_AFTER_DAYS is not set.
const DefaultInactiveAfterDays = 45

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	inactiveDays := DefaultInactiveAfterDays
	if v := os.Getenv("INACTIVE_AFTER_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("INACTIVE_AFTER_DAYS must be a positive integer")
		}
		inactiveDays = n
	}

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		Port:              getEnv("PORT", "8080"),
		CORSOrigins:       strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:               getEnv("ENV", "development"),
		InactiveAfterDays: inactiveDays,
		ReminderSecret:    getEnv("REMINDER_SECRET", ""),
		Email: EmailConfig{
			APIKey: getEnv("RESEND_API_KEY", ""),
			From:   getEnv("EMAIL_FROM", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Env == "production" && c.ReminderSecret == "" {
		return fmt.Errorf("REMINDER_SECRET is required in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
