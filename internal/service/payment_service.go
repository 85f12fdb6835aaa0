package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/pkg/payment"
	"github.com/sefazor/imaginet-backend/pkg/utils"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
)

// Checkout metadata keys
const (
	metaBuyerID = "buyerId"
	metaPlan    = "plan"
	metaCredits = "credits"
)

type PaymentService struct {
	checkout        CheckoutProvider
	userRepo        UserStore
	transactionRepo TransactionStore
	validator       *utils.Validator
	log             *zap.Logger
}

func NewPaymentService(checkout CheckoutProvider, userRepo UserStore, transactionRepo TransactionStore, validator *utils.Validator, log *zap.Logger) *PaymentService {
	return &PaymentService{
		checkout:        checkout,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		validator:       validator,
		log:             log.Named("payments"),
	}
}

func (s *PaymentService) Plans() []models.Plan {
	return models.Plans
}

func (s *PaymentService) CreateCheckout(ctx context.Context, clerkID, planID string) (*models.CheckoutSession, error) {
	plan, ok := models.FindPlan(planID)
	if !ok || plan.Price <= 0 {
		return nil, ErrUnknownPlan
	}

	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, notFound("User", err)
	}

	session, err := s.checkout.CreateCheckoutSession(payment.CheckoutParams{
		CustomerEmail: user.Email,
		ProductName:   plan.Name,
		Description:   plan.Description,
		AmountCents:   int64(math.Round(plan.Price * 100)),
		Metadata: map[string]string{
			metaBuyerID: user.ID.String(),
			metaPlan:    plan.ID,
			metaCredits: strconv.Itoa(plan.Credits),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	// Ödeme bekleyen kayıt
	transaction := &models.Transaction{
		BuyerID:  user.ID,
		StripeID: session.ID,
		Amount:   plan.Price,
		Plan:     plan.ID,
		Credits:  plan.Credits,
		Status:   models.TransactionStatusPending,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	return &models.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// HandleStripeEvent applies a verified Stripe event. Redelivered events are
// no-ops.
func (s *PaymentService) HandleStripeEvent(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var session stripe.CheckoutSession
		if err := decodeEventObject(event, &session); err != nil {
			return err
		}
		return s.completeCheckout(ctx, &session)

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		var session stripe.CheckoutSession
		if err := decodeEventObject(event, &session); err != nil {
			return err
		}
		// Sadece bekleyen ödemeler başarısız sayılır
		_, err := s.transactionRepo.TransitionStatus(ctx, session.ID,
			models.TransactionStatusPending, models.TransactionStatusFailed)
		if err != nil && !IsNotFound(err) {
			return err
		}
		return nil

	case "charge.refunded":
		var charge stripe.Charge
		if err := decodeEventObject(event, &charge); err != nil {
			return err
		}
		return s.refundCharge(ctx, &charge)
	}

	s.log.Debug("stripe event ignored", zap.String("type", string(event.Type)))
	return nil
}

func decodeEventObject(event *stripe.Event, v interface{}) error {
	if err := json.Unmarshal(event.Data.Raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// completeCheckout credits the buyer once the session is paid. Sessions
// paid asynchronously arrive unpaid first and are settled by
// checkout.session.async_payment_succeeded.
func (s *PaymentService) completeCheckout(ctx context.Context, session *stripe.CheckoutSession) error {
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
		session.PaymentStatus != stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
		s.log.Info("checkout awaiting payment",
			zap.String("stripeId", session.ID),
			zap.String("paymentStatus", string(session.PaymentStatus)),
		)
		return nil
	}

	var fallback *models.Transaction
	_, err := s.transactionRepo.GetByStripeID(ctx, session.ID)
	switch {
	case IsNotFound(err):
		// Checkout bu sunucu dışında açılmış olabilir, metadata'dan kaydı oluştur
		fallback, err = transactionFromSession(session)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	}

	var paymentIntentID string
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	transaction, err := s.transactionRepo.Complete(ctx, session.ID, paymentIntentID, fallback)
	if errors.Is(err, ErrAlreadySettled) {
		s.log.Info("checkout already settled", zap.String("stripeId", session.ID))
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Info("credits purchased",
		zap.String("stripeId", session.ID),
		zap.String("buyerId", transaction.BuyerID.String()),
		zap.Int("credits", transaction.Credits),
	)
	return nil
}

// refundCharge takes back the credits of a fully refunded purchase.
// Partial refunds keep the credits.
func (s *PaymentService) refundCharge(ctx context.Context, charge *stripe.Charge) error {
	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		return nil // Bizim sistemimizle ilgisi yok
	}
	if !charge.Refunded {
		s.log.Info("partial refund ignored",
			zap.String("chargeId", charge.ID),
			zap.Int64("amountRefunded", charge.AmountRefunded),
		)
		return nil
	}

	transaction, err := s.transactionRepo.Refund(ctx, charge.PaymentIntent.ID)
	switch {
	case IsNotFound(err), errors.Is(err, ErrAlreadySettled):
		return nil
	case err != nil:
		return err
	}

	s.log.Info("purchase refunded",
		zap.String("stripeId", transaction.StripeID),
		zap.String("buyerId", transaction.BuyerID.String()),
		zap.Int("credits", transaction.Credits),
	)
	return nil
}

func transactionFromSession(session *stripe.CheckoutSession) (*models.Transaction, error) {
	buyerID, err := uuid.Parse(session.Metadata[metaBuyerID])
	if err != nil {
		return nil, fmt.Errorf("%w: checkout session %s has no buyer", ErrInvalidInput, session.ID)
	}
	credits, err := strconv.Atoi(session.Metadata[metaCredits])
	if err != nil {
		return nil, fmt.Errorf("%w: checkout session %s has no credits", ErrInvalidInput, session.ID)
	}

	return &models.Transaction{
		BuyerID:  buyerID,
		StripeID: session.ID,
		Amount:   float64(session.AmountTotal) / 100,
		Plan:     session.Metadata[metaPlan],
		Credits:  credits,
		Status:   models.TransactionStatusCompleted,
	}, nil
}

func (s *PaymentService) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}

	transaction := &models.Transaction{
		BuyerID:  req.BuyerID,
		StripeID: req.StripeID,
		Amount:   req.Amount,
		Plan:     req.Plan,
		Credits:  req.Credits,
		Status:   req.Status,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *PaymentService) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("Transaction", err)
	}
	return transaction, nil
}

func (s *PaymentService) GetTransactionByStripeID(ctx context.Context, stripeID string) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByStripeID(ctx, stripeID)
	if err != nil {
		return nil, notFound("Transaction", err)
	}
	return transaction, nil
}

func (s *PaymentService) UpdateTransactionStatus(ctx context.Context, id, status string) (*models.Transaction, error) {
	if err := s.validator.Var(status, "required,transaction_status"); err != nil {
		return nil, invalid(err)
	}

	transaction, err := s.transactionRepo.Update(ctx, id, models.UpdateTransactionRequest{Status: &status})
	if err != nil {
		return nil, notFound("Transaction", err)
	}
	return transaction, nil
}

func (s *PaymentService) DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.Delete(ctx, id)
	if err != nil {
		return nil, notFound("Transaction", err)
	}
	return transaction, nil
}

func (s *PaymentService) GetUserTransactions(ctx context.Context, clerkID string) ([]models.Transaction, error) {
	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, notFound("User", err)
	}
	return s.transactionRepo.GetByBuyerID(ctx, user.ID)
}
