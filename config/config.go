package config

import (
	"os"
	"strings"
	"time"
)

// Config carries every runtime setting the process needs. Values come from the
// environment; a .env file is loaded by main before this runs.
type Config struct {
	HTTPAddr  string
	GinMode   string
	JWTSecret string
	ClientURL string

	CORSOrigins []string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	RedisAddr string

	HyperPayBaseURL       string
	HyperPayAccessToken   string
	HyperPayEntityIDAED   string
	HyperPayEntityIDUSD   string
	HyperPayMode          string
	HyperPayWebhookSecret string
	HyperPayTimeout       time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:  ":" + getenv("PORT", "8080"),
		GinMode:   getenv("GIN_MODE", ""),
		JWTSecret: getenv("JWT_SECRET", ""),
		ClientURL: getenv("CLIENT_URL", "http://localhost:3000"),

		CORSOrigins: splitCSV(getenv("CORS_ORIGINS", "*")),

		DBUser: getenv("DB_USER", "root"),
		DBPass: getenv("DB_PASS", ""),
		DBHost: getenv("DB_HOST", "127.0.0.1"),
		DBPort: getenv("DB_PORT", "3306"),
		DBName: getenv("DB_NAME", "hotel_ops"),

		RedisAddr: getenv("REDIS_ADDR", ""),

		HyperPayBaseURL:       getenv("HYPERPAY_BASE_URL", "https://eu-test.oppwa.com"),
		HyperPayAccessToken:   getenv("HYPERPAY_ACCESS_TOKEN", ""),
		HyperPayEntityIDAED:   getenv("HYPERPAY_ENTITY_ID_AED", ""),
		HyperPayEntityIDUSD:   getenv("HYPERPAY_ENTITY_ID_USD", ""),
		HyperPayMode:          getenv("HYPERPAY_MODE", "test"),
		HyperPayWebhookSecret: getenv("HYPERPAY_WEBHOOK_SECRET", ""),
		HyperPayTimeout:       15 * time.Second,
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
