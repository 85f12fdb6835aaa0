package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sefazor/imaginet-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository struct {
	db           *gorm.DB
	transactions store[models.Transaction]
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{
		db:           db,
		transactions: store[models.Transaction]{db: db},
	}
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := r.transactions.create(ctx, transaction); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	transaction, err := r.transactions.getByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return transaction, nil
}

func (r *TransactionRepository) GetByStripeID(ctx context.Context, stripeID string) (*models.Transaction, error) {
	transaction, err := r.transactions.first(ctx, "stripe_id = ?", stripeID)
	if err != nil {
		return nil, fmt.Errorf("get transaction by stripe id: %w", err)
	}
	return transaction, nil
}

func (r *TransactionRepository) GetByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]models.Transaction, error) {
	transactions, err := r.transactions.find(ctx, "created_at DESC", "buyer_id = ?", buyerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	transaction, err := r.transactions.updateByID(ctx, id, req.Columns())
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return transaction, nil
}

// TransitionStatus moves the transaction from status from to status to.
// ErrNotFound means no transaction with that stripe id is in status from.
func (r *TransactionRepository) TransitionStatus(ctx context.Context, stripeID, from, to string) (*models.Transaction, error) {
	transaction, err := r.transactions.updateWhere(ctx,
		map[string]interface{}{"status": to},
		"stripe_id = ? AND status = ?", stripeID, from,
	)
	if err != nil {
		return nil, fmt.Errorf("transition transaction: %w", err)
	}
	return transaction, nil
}

// Complete marks the checkout paid and credits its buyer in one database
// transaction; either both happen or neither does. When no row matches
// stripeID, fallback is inserted as the completed purchase. A completed or
// refunded purchase yields ErrAlreadySettled.
func (r *TransactionRepository) Complete(ctx context.Context, stripeID, paymentIntentID string, fallback *models.Transaction) (*models.Transaction, error) {
	var settled models.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("stripe_id = ?", stripeID).
			First(&settled).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if fallback == nil {
				return ErrNotFound
			}
			settled = *fallback
			settled.StripeID = stripeID
			settled.PaymentIntentID = paymentIntentID
			settled.Status = models.TransactionStatusCompleted
			if err := tx.Create(&settled).Error; err != nil {
				return translateError(err)
			}
		case err != nil:
			return translateError(err)
		case settled.Status == models.TransactionStatusCompleted, settled.Status == models.TransactionStatusRefunded:
			return ErrAlreadySettled
		default:
			settled.Status = models.TransactionStatusCompleted
			settled.PaymentIntentID = paymentIntentID
			err := tx.Model(&settled).Updates(map[string]interface{}{
				"status":            settled.Status,
				"payment_intent_id": paymentIntentID,
				"updated_at":        time.Now(),
			}).Error
			if err != nil {
				return translateError(err)
			}
		}

		fields := map[string]interface{}{
			"credit_balance": gorm.Expr("credit_balance + ?", settled.Credits),
			"updated_at":     time.Now(),
		}
		if settled.Plan != "" {
			fields["plan_id"] = settled.Plan
		}
		return updateBuyer(tx, settled.BuyerID, fields)
	})
	if err != nil {
		return nil, fmt.Errorf("complete transaction: %w", err)
	}
	return &settled, nil
}

// Refund marks the completed purchase paid with paymentIntentID refunded
// and takes its credits back, never below a zero balance. A purchase that
// is not completed yields ErrAlreadySettled.
func (r *TransactionRepository) Refund(ctx context.Context, paymentIntentID string) (*models.Transaction, error) {
	var refunded models.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("payment_intent_id = ?", paymentIntentID).
			First(&refunded).Error
		if err != nil {
			return translateError(err)
		}
		if refunded.Status != models.TransactionStatusCompleted {
			return ErrAlreadySettled
		}

		refunded.Status = models.TransactionStatusRefunded
		err = tx.Model(&refunded).Updates(map[string]interface{}{
			"status":     refunded.Status,
			"updated_at": time.Now(),
		}).Error
		if err != nil {
			return translateError(err)
		}

		// Alıcı silinmişse geri alınacak bakiye yok
		return tx.Model(&models.User{}).
			Where("id = ?", refunded.BuyerID).
			Updates(map[string]interface{}{
				"credit_balance": gorm.Expr("GREATEST(credit_balance - ?, 0)", refunded.Credits),
				"updated_at":     time.Now(),
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("refund transaction: %w", err)
	}
	return &refunded, nil
}

func updateBuyer(tx *gorm.DB, buyerID uuid.UUID, fields map[string]interface{}) error {
	res := tx.Model(&models.User{}).Where("id = ?", buyerID).Updates(fields)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("buyer %s: %w", buyerID, ErrNotFound)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) (*models.Transaction, error) {
	transaction, err := r.transactions.deleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}
	return transaction, nil
}
