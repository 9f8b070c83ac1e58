package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// Telegram application identity (from my.telegram.org).
	TelegramAPIID   int
	TelegramAPIHash string
	// Pre-provisioned session string for single-tenant deployments. When set,
	// send-alert can run without the login endpoints ever being called.
	TelegramSession string
	// Upper bound for one Telegram round trip (connect + RPC + disconnect).
	TelegramTimeoutSeconds int

	AWSRegion          string
	AWSEndpointURL     string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID     string
	AWSSecretKey       string
	AWSCredentialsFile string // optional shared-credentials file path
	DynamoTables       DynamoTables

	// SNS SMS copy of the emergency text. Off unless SMSFallback is true.
	SMSFallback bool
	SNSRegion   string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	LoginAttempts string
	Alerts        string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		TelegramAPIID:          getEnvInt("TELEGRAM_API_ID", 0),
		TelegramAPIHash:        getEnv("TELEGRAM_API_HASH", ""),
		TelegramSession:        getEnv("TELEGRAM_SESSION", ""),
		TelegramTimeoutSeconds: getEnvInt("TELEGRAM_TIMEOUT_SECONDS", 60),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:     getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:       getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSCredentialsFile: getEnv("AWS_CREDENTIALS_FILE", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			LoginAttempts: getEnv("DYNAMO_TABLE_LOGIN_ATTEMPTS", "login_attempts"),
			Alerts:        getEnv("DYNAMO_TABLE_ALERTS", "alerts"),
		},

		SMSFallback: getEnvBool("SMS_FALLBACK", false),
		SNSRegion:   getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
