package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type R2Config struct {
	AccountID       string `envconfig:"R2_ACCOUNT_ID"`
	AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`
	Bucket          string `envconfig:"R2_BUCKET"`
	PublicURL       string `envconfig:"R2_PUBLIC_URL"`
}

type StripeConfig struct {
	SecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	WebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
}

type EmailConfig struct {
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	FromAddress  string `envconfig:"EMAIL_FROM_ADDRESS" default:"no-reply@imaginet.app"`
	FromName     string `envconfig:"EMAIL_FROM_NAME" default:"Imaginet"`
}

type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	Environment  string `envconfig:"APP_ENV" default:"production"`
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	PublicAppURL string `envconfig:"PUBLIC_APP_URL" default:"http://localhost:3000"`

	// Boş bırakılırsa sunucu açılır ama tüm webhook doğrulamaları başarısız olur
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
	// Clerk session token'larını doğrulamak için PEM public key
	ClerkJWTKey string `envconfig:"CLERK_JWT_KEY"`

	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RateLimitMax   int    `envconfig:"RATE_LIMIT_MAX" default:"60"`

	R2     R2Config
	Stripe StripeConfig
	Email  EmailConfig
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.AllowedOrigins = strings.Join(splitAndTrim(cfg.AllowedOrigins), ", ")
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
