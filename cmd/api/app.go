package main

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sefazor/imaginet-backend/internal/config"
	"github.com/sefazor/imaginet-backend/internal/handler"
	"github.com/sefazor/imaginet-backend/internal/middleware"
	"github.com/sefazor/imaginet-backend/internal/service"
	"github.com/sefazor/imaginet-backend/pkg/email"
	"github.com/sefazor/imaginet-backend/pkg/payment"
	"github.com/sefazor/imaginet-backend/pkg/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API is the assembled application.
type API struct {
	App   *fiber.App
	Users *service.UserService
}

func NewFiberApp(cfg *config.Config, routes *handler.Routes, sessions *middleware.SessionVerifier) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "imaginet-backend",
		BodyLimit: service.MaxUploadSize + 1024*1024,
	})

	// Global Middleware'ler önce tanımlanmalı
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(middleware.PrometheusMiddleware())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		// Webhook'lar sağlayıcıların sabit IP'lerinden gelir
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/webhook/")
		},
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	routes.Register(app, middleware.AuthMiddleware(sessions))

	return app
}

func provideStripe(cfg *config.Config) *payment.StripeService {
	return payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.PublicAppURL)
}

// provideMailer returns nil when no Resend key is configured.
func provideMailer(cfg *config.Config, log *zap.Logger) service.WelcomeMailer {
	if cfg.Email.ResendAPIKey == "" {
		log.Warn("RESEND_API_KEY is not set, welcome emails are disabled")
		return nil
	}
	return email.NewEmailService(cfg, log)
}

func provideWebhookVerifier(cfg *config.Config, log *zap.Logger) (*webhook.Verifier, error) {
	if cfg.WebhookSecret == "" {
		log.Warn("WEBHOOK_SECRET is not set, every clerk webhook will be rejected")
	}
	return webhook.NewVerifier(cfg.WebhookSecret)
}

func provideSessionVerifier(cfg *config.Config, log *zap.Logger) (*middleware.SessionVerifier, error) {
	if cfg.ClerkJWTKey == "" {
		log.Warn("CLERK_JWT_KEY is not set, session routes will answer 401")
	}
	return middleware.NewSessionVerifier(cfg.ClerkJWTKey)
}

func provideSQLDB(db *gorm.DB) (*sql.DB, error) {
	return db.DB()
}
