package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBUrl         string
	JWTSecret     string
	FrontendURL   string
	PublicBaseURL string // externally reachable API base, for provider callbacks
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Google Calendar OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	// Payment providers
	StripeSecretKey string
	KhaltiSecretKey string
	KhaltiBaseURL   string
	// Redis Configuration (rate limiting)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	// Interview reconciliation
	SweepInterval   time.Duration
	MeetingDuration time.Duration
	// External call budget
	ProviderTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; ignored in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@karya.work"),
		// Google Calendar OAuth
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URI", ""),
		// Payment providers
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		KhaltiSecretKey: getEnv("KHALTI_SECRET_KEY", ""),
		KhaltiBaseURL:   strings.TrimRight(getEnv("KHALTI_BASE_URL", "https://dev.khalti.com/api/v2"), "/"),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		// Interview reconciliation
		SweepInterval:   time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 15)) * time.Minute,
		MeetingDuration: time.Duration(getEnvInt("MEETING_DURATION_MINUTES", 60)) * time.Minute,
		// External call budget
		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 15)) * time.Second,
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Authenticated requests will be rejected.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
