// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Secrets for Twilio, SendGrid and Stripe are read by
// their services directly where noted.
type Config struct {
	Port              string // HTTP port to listen on
	DatabaseURL       string // Postgres connection string
	JWTSecret         string // secret used to sign admin JWTs
	StripeSecretKey   string // Stripe API key (empty disables checkout)
	StripeWebhookKey  string // Stripe webhook signing secret
	AMQPURL           string // RabbitMQ URL (empty disables event publishing)
	AMQPExchange      string // exchange for reservation lifecycle events
	SMSCountryPrefix  string // international prefix for local phone numbers
	TwilioFromNumber  string // sender number for SMS
	SendgridFromEmail string // sender address for email
	SendgridFromName  string // sender display name for email
	ReconcilerSpec    string // cron spec for the reconciler
	CORSOrigin        string // allowed origin for browser clients
}

// Load reads configuration from the environment. DATABASE_URL and JWT_SECRET
// are required; everything else has a sensible default or degrades the
// corresponding integration gracefully when empty.
func Load() Config {
	return Config{
		Port:              getenv("PORT", "8080"),
		DatabaseURL:       must("DATABASE_URL"),
		JWTSecret:         must("JWT_SECRET"),
		StripeSecretKey:   os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookKey:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		AMQPURL:           os.Getenv("AMQP_URL"),
		AMQPExchange:      getenv("AMQP_EXCHANGE", "carshow.reservations"),
		SMSCountryPrefix:  getenv("SMS_COUNTRY_PREFIX", "+63"),
		TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
		SendgridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		SendgridFromName:  getenv("SENDGRID_FROM_NAME", "Car Show Rental"),
		ReconcilerSpec:    getenv("RECONCILER_SPEC", "@every 1m"),
		CORSOrigin:        getenv("CORS_ORIGIN", "*"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
