package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string
	CORSOrigins []string

	// Admin dashboard access
	AdminUsername  string
	AdminPassword  string
	AdminJWTSecret string

	// Anti-abuse
	RateLimitMax     int
	RateLimitWindow  time.Duration
	RateLimitBackend string
	MinSubmitElapsed time.Duration

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Email delivery
	EmailProvider  string
	ResendAPIKey   string
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	NotifyEmail    string
	StrategyPDFURL string

	// AWS (only used when EmailProvider is "ses")
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),

		AdminUsername:  getEnv("ADMIN_USERNAME", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		RateLimitMax:     getEnvAsInt("RATE_LIMIT_MAX", 3),
		RateLimitWindow:  getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitBackend: strings.ToLower(strings.TrimSpace(getEnv("RATE_LIMIT_BACKEND", "memory"))),
		MinSubmitElapsed: getEnvAsDuration("MIN_SUBMIT_ELAPSED", 2*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "resend"))),
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		FromEmail:      getEnv("FROM_EMAIL", "onboarding@resend.dev"),
		FromName:       getEnv("FROM_NAME", "ParceFX"),
		NotifyEmail:    getEnv("NOTIFY_EMAIL", ""),
		StrategyPDFURL: getEnv("STRATEGY_PDF_URL", ""),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
