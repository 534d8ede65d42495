package config

import (
	"os"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort string

	MySQLDSN       string
	MigrationsPath string

	JWTSecret     string
	JWTExpiration time.Duration

	// gateway
	PhonePeMerchantID string
	PhonePeSaltKey    string
	PhonePeSaltIndex  string
	PhonePeBaseURL    string
	PhonePeTimeout    time.Duration
	FrontendURL       string
	ServerURL         string

	// invoice & mail
	InvoiceBucket  string
	SendGridAPIKey string
	MailFromName   string
	MailFromEmail  string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPPort: getEnv("APP_PORT", "8080"),

		MySQLDSN:       getEnv("MYSQL_DSN", "user:pass@tcp(mysql:3306)/storefront?parseTime=true"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		JWTSecret:     getEnv("JWT_SECRET", "dev-secret"),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION", 24*time.Hour),

		PhonePeMerchantID: getEnv("PHONEPE_MERCHANT_ID", ""),
		PhonePeSaltKey:    getEnv("PHONEPE_SALT_KEY", ""),
		PhonePeSaltIndex:  getEnv("PHONEPE_SALT_INDEX", "1"),
		PhonePeBaseURL:    getEnv("PHONEPE_BASE_URL", "https://api-preprod.phonepe.com/apis/pg-sandbox"),
		PhonePeTimeout:    getEnvDuration("PHONEPE_TIMEOUT", 15*time.Second),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		ServerURL:         getEnv("SERVER_URL", "http://localhost:8080"),

		InvoiceBucket:  getEnv("INVOICE_BUCKET", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFromName:   getEnv("MAIL_FROM_NAME", "Pluto Intero"),
		MailFromEmail:  getEnv("MAIL_FROM_EMAIL", "orders@example.com"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
