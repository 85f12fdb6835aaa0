package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusRefunded  = "refunded"
)

// PaymentIntentID is filled in when the checkout is paid; refunds are
// matched on it.
type Transaction struct {
	ID              uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey"`
	BuyerID         uuid.UUID `json:"buyer" gorm:"type:uuid;not null;index"`
	StripeID        string    `json:"stripeId" gorm:"uniqueIndex;not null"`
	PaymentIntentID string    `json:"paymentIntentId,omitempty" gorm:"index"`
	Amount          float64   `json:"amount" gorm:"not null"`
	Plan            string    `json:"plan"`
	Credits         int       `json:"credits" gorm:"not null;default:0"`
	Status          string    `json:"status" gorm:"not null"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type CreateTransactionRequest struct {
	BuyerID  uuid.UUID `json:"buyer" validate:"required"`
	StripeID string    `json:"stripeId" validate:"required"`
	Amount   float64   `json:"amount" validate:"gt=0"`
	Plan     string    `json:"plan"`
	Credits  int       `json:"credits" validate:"min=0"`
	Status   string    `json:"status" validate:"required,transaction_status"`
}

type UpdateTransactionRequest struct {
	Status *string `json:"status" validate:"omitempty,transaction_status"`
}

func (r UpdateTransactionRequest) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if r.Status != nil {
		cols["status"] = *r.Status
	}
	return cols
}

func (r UpdateTransactionRequest) Apply(t *Transaction) {
	if r.Status != nil {
		t.Status = *r.Status
	}
}
