package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Tournament Settings
	MaxParticipants int

	// Transaction Settings
	TxMaxRetries          int
	LockTimeoutMillis     int
	TournamentCacheTTLSec int

	// NOWPayments
	NowPaymentsAPIKey      string
	NowPaymentsBaseURL     string
	NowPaymentsCallbackURL string
	NowPaymentsTimeout     int
	PaymentRateLimitSecs   int

	// Credentials
	CredentialScheme string // "plain" or "bcrypt"

	// Security
	JWTSecret         string
	SessionTimeoutMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/pubgarena?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Tournament Settings
		MaxParticipants: getEnvInt("MAX_PARTICIPANTS", 100),

		// Transaction Settings
		TxMaxRetries:          getEnvInt("TX_MAX_RETRIES", 3),
		LockTimeoutMillis:     getEnvInt("LOCK_TIMEOUT_MILLIS", 3000),
		TournamentCacheTTLSec: getEnvInt("TOURNAMENT_CACHE_TTL_SECONDS", 15),

		// NOWPayments
		NowPaymentsAPIKey:      getEnv("NOWPAYMENTS_API_KEY", ""),
		NowPaymentsBaseURL:     getEnv("NOWPAYMENTS_BASE_URL", "https://api.nowpayments.io/v1"),
		NowPaymentsCallbackURL: getEnv("NOWPAYMENTS_CALLBACK_URL", ""),
		NowPaymentsTimeout:     getEnvInt("NOWPAYMENTS_TIMEOUT_SECONDS", 30),
		PaymentRateLimitSecs:   getEnvInt("PAYMENT_RATE_LIMIT_SECONDS", 10),

		// Credentials
		CredentialScheme: getEnv("CREDENTIAL_SCHEME", "plain"),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
