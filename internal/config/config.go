package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Postgres
	DatabaseDSN string

	// Razorpay. KeyID/KeySecret may be empty, which disables the prepaid
	// path; COD checkouts only need the database.
	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	GatewayTimeout    time.Duration

	// Storefront access tokens
	JWTSecret string

	// RabbitMQ. Empty disables event publishing.
	RabbitURL string

	Currency string
}

func Load() Config {
	return Config{
		Port:              getenv("PORT", "8084"),
		DatabaseDSN:       getenv("ORDER_DB_DSN", ""),
		RazorpayKeyID:     getenv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getenv("RAZORPAY_KEY_SECRET", ""),
		RazorpayBaseURL:   getenv("RAZORPAY_BASE_URL", ""),
		GatewayTimeout:    parseDuration(getenv("GATEWAY_TIMEOUT", "10s"), 10*time.Second),
		JWTSecret:         getenv("JWT_SECRET", ""),
		RabbitURL:         getenv("RABBITMQ_URL", ""),
		Currency:          getenv("CURRENCY", "INR"),
	}
}

// PrepaidEnabled reports whether gateway credentials are present. When false
// the create-order endpoint fails prepaid requests with a configuration
// error instead of calling the gateway.
func (c Config) PrepaidEnabled() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
