package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// HighLevel (LeadConnector) gateway settings
	HighLevelBaseURL string
	HighLevelTimeout time.Duration

	// BookingTimezone is the single fixed zone used for slot queries,
	// e.g. "Asia/Jerusalem".
	BookingTimezone string

	CORSAllowedOrigins []string

	// Per-IP rate limit on the public booking routes. Zero disables it.
	PublicRateLimit float64
	PublicRateBurst int

	// Email confirmation settings
	EmailProvider     string // "sendgrid", "ses", or "" to disable
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	AWSRegion         string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		HighLevelBaseURL: getEnv("HIGHLEVEL_BASE_URL", "https://services.leadconnectorhq.com"),
		HighLevelTimeout: getEnvAsDuration("HIGHLEVEL_TIMEOUT", 20*time.Second),

		BookingTimezone: getEnv("BOOKING_TIMEZONE", "Asia/Jerusalem"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		PublicRateLimit: getEnvAsFloat("BOOKING_RATE_LIMIT", 0),
		PublicRateBurst: getEnvAsInt("BOOKING_RATE_BURST", 20),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Glowbook"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
