package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/pkg/payment"
	"github.com/stripe/stripe-go/v74"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*models.User, error)
	Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error)
	UpdateByClerkID(ctx context.Context, clerkID string, req models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)
	DeleteByClerkID(ctx context.Context, clerkID string) (*models.User, error)
	AddCredits(ctx context.Context, clerkID string, delta int) (*models.User, error)
}

type ImageStore interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id string) (*models.Image, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Image, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Image, error)
	Update(ctx context.Context, id string, req models.UpdateImageRequest) (*models.Image, error)
	Delete(ctx context.Context, id string) (*models.Image, error)
}

type TransactionStore interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	GetByStripeID(ctx context.Context, stripeID string) (*models.Transaction, error)
	GetByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]models.Transaction, error)
	Update(ctx context.Context, id string, req models.UpdateTransactionRequest) (*models.Transaction, error)
	TransitionStatus(ctx context.Context, stripeID, from, to string) (*models.Transaction, error)
	Complete(ctx context.Context, stripeID, paymentIntentID string, fallback *models.Transaction) (*models.Transaction, error)
	Refund(ctx context.Context, paymentIntentID string) (*models.Transaction, error)
	Delete(ctx context.Context, id string) (*models.Transaction, error)
}

// WelcomeMailer greets newly registered users.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, email, name string, credits int) error
}

type CheckoutProvider interface {
	CreateCheckoutSession(params payment.CheckoutParams) (*stripe.CheckoutSession, error)
}
