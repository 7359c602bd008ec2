package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	APP_ENV     string
	APP_URL     string
	CORS_ORIGIN string
	DB_URL      string
	LOG_LEVEL   string

	OPENAI_API_KEY string
	OPENAI_MODEL   string
	OPENAI_TIMEOUT time.Duration

	STRIPE_SECRET_KEY       string
	STRIPE_WEBHOOK_SECRET   string
	STRIPE_STARTER_PRICE_ID string
	STRIPE_PRO_PRICE_ID     string
	STRIPE_AGENCY_PRICE_ID  string

	AUTH_ISSUER        string
	AUTH_JWKS_URL      string
	AUTH_AUDIENCE      string
	AUTH_JWT_SECRET    string
	AUTH_CLIENT_ID     string
	AUTH_CLIENT_SECRET string
	AUTH_AUTHORIZE_URL string
	AUTH_TOKEN_URL     string
	AUTH_REDIRECT_URL  string
	SESSION_COOKIE     string

	REDIS_URL                string
	GENERATE_RATE_PER_MINUTE int
	CONTACT_RATE_PER_HOUR    int

	SMTP_HOST     string
	SMTP_PORT     int
	SMTP_USERNAME string
	SMTP_PASSWORD string
	SMTP_FROM     string
	SUPPORT_EMAIL string

	AMQP_URL      string
	AMQP_EXCHANGE string

	ADMIN_EMAILS []string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	APP_ENV = getEnv("APP_ENV", "development")
	APP_URL = getEnv("APP_URL", "http://localhost:3000")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", APP_URL)
	DB_URL = mustEnv("DB_URL")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")

	OPENAI_API_KEY = mustEnv("OPENAI_API_KEY")
	OPENAI_MODEL = getEnv("OPENAI_MODEL", "gpt-4-turbo-preview")
	OPENAI_TIMEOUT = getDuration("OPENAI_TIMEOUT", 60*time.Second)

	STRIPE_SECRET_KEY = mustEnv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = mustEnv("STRIPE_WEBHOOK_SECRET")
	STRIPE_STARTER_PRICE_ID = getEnv("STRIPE_STARTER_PRICE_ID", "")
	STRIPE_PRO_PRICE_ID = getEnv("STRIPE_PRO_PRICE_ID", "")
	STRIPE_AGENCY_PRICE_ID = getEnv("STRIPE_AGENCY_PRICE_ID", "")

	AUTH_ISSUER = mustEnv("AUTH_ISSUER")
	AUTH_JWKS_URL = mustEnv("AUTH_JWKS_URL")
	AUTH_AUDIENCE = getEnv("AUTH_AUDIENCE", "")
	AUTH_JWT_SECRET = mustEnv("AUTH_JWT_SECRET")
	AUTH_CLIENT_ID = mustEnv("AUTH_CLIENT_ID")
	AUTH_CLIENT_SECRET = mustEnv("AUTH_CLIENT_SECRET")
	AUTH_AUTHORIZE_URL = mustEnv("AUTH_AUTHORIZE_URL")
	AUTH_TOKEN_URL = mustEnv("AUTH_TOKEN_URL")
	AUTH_REDIRECT_URL = getEnv("AUTH_REDIRECT_URL", APP_URL+"/auth/callback")
	SESSION_COOKIE = getEnv("SESSION_COOKIE", "rf_session")

	REDIS_URL = getEnv("REDIS_URL", "")
	GENERATE_RATE_PER_MINUTE = getInt("GENERATE_RATE_PER_MINUTE", 10)
	CONTACT_RATE_PER_HOUR = getInt("CONTACT_RATE_PER_HOUR", 5)

	SMTP_HOST = getEnv("SMTP_HOST", "")
	SMTP_PORT = getInt("SMTP_PORT", 587)
	SMTP_USERNAME = getEnv("SMTP_USERNAME", "")
	SMTP_PASSWORD = getEnv("SMTP_PASSWORD", "")
	SMTP_FROM = getEnv("SMTP_FROM", "")
	SUPPORT_EMAIL = getEnv("SUPPORT_EMAIL", "")

	AMQP_URL = getEnv("AMQP_URL", "")
	AMQP_EXCHANGE = getEnv("AMQP_EXCHANGE", "replyforge.events")

	ADMIN_EMAILS = getList("ADMIN_EMAILS")
}

// LoadDatabaseEnv loads only what the migrate command needs.
func LoadDatabaseEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
	APP_ENV = getEnv("APP_ENV", "development")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	DB_URL = mustEnv("DB_URL")
}

func IsProduction() bool {
	return APP_ENV == "production"
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid integer for %s: %q", key, v)
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("Invalid duration for %s: %q", key, v)
	}
	return d
}
