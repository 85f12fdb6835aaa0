//go:build wireinject
// +build wireinject

package main

import (
	"context"
	"database/sql"

	"github.com/google/wire"
	"github.com/sefazor/imaginet-backend/internal/config"
	"github.com/sefazor/imaginet-backend/internal/handler"
	"github.com/sefazor/imaginet-backend/internal/repository"
	"github.com/sefazor/imaginet-backend/internal/service"
	"github.com/sefazor/imaginet-backend/pkg/payment"
	"github.com/sefazor/imaginet-backend/pkg/storage"
	"github.com/sefazor/imaginet-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func InitializeAPI(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (*API, error) {
	wire.Build(
		// Repositories
		repository.NewUserRepository,
		repository.NewImageRepository,
		repository.NewTransactionRepository,
		wire.Bind(new(service.UserStore), new(*repository.UserRepository)),
		wire.Bind(new(service.ImageStore), new(*repository.ImageRepository)),
		wire.Bind(new(service.TransactionStore), new(*repository.TransactionRepository)),

		// Storage
		storage.NewCloudflareStorage,
		wire.Bind(new(storage.StorageService), new(*storage.CloudflareStorage)),

		// Payment & email
		provideStripe,
		wire.Bind(new(service.CheckoutProvider), new(*payment.StripeService)),
		wire.Bind(new(handler.EventConstructor), new(*payment.StripeService)),
		provideMailer,

		// Validator
		utils.NewValidator,

		// Services
		service.NewUserService,
		service.NewImageService,
		service.NewPaymentService,

		// Verifiers
		provideWebhookVerifier,
		provideSessionVerifier,
		provideSQLDB,
		wire.Bind(new(handler.Pinger), new(*sql.DB)),

		// Handlers
		handler.NewHealthHandler,
		handler.NewWebhookHandler,
		handler.NewPaymentHandler,
		handler.NewUserHandler,
		handler.NewImageHandler,
		wire.Struct(new(handler.Routes), "*"),

		// App
		NewFiberApp,
		wire.Struct(new(API), "*"),
	)
	return nil, nil
}
