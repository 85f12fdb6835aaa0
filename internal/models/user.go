package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Yeni hesaplar bu plan ve bakiye ile açılır
const (
	DefaultPlanID        = "free"
	DefaultCreditBalance = 10
)

type User struct {
	ID            uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey"`
	ClerkID       string    `json:"clerkId" gorm:"uniqueIndex;not null"`
	Username      string    `json:"username" gorm:"not null"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	PlanID        string    `json:"planId" gorm:"not null"`
	Email         string    `json:"email" gorm:"not null"`
	Photo         string    `json:"photo"`
	CreditBalance int       `json:"creditBalance" gorm:"not null"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type CreateUserRequest struct {
	ClerkID       string `json:"clerkId" validate:"required"`
	Username      string `json:"username" validate:"required"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	PlanID        string `json:"planId" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Photo         string `json:"photo"`
	CreditBalance int    `json:"creditBalance" validate:"min=0"`
}

// UpdateUserRequest sadece dolu alanları günceller
type UpdateUserRequest struct {
	Username      *string `json:"username" validate:"omitempty,min=1"`
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	PlanID        *string `json:"planId" validate:"omitempty,min=1"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Photo         *string `json:"photo"`
	CreditBalance *int    `json:"creditBalance" validate:"omitempty,min=0"`
}

// Columns returns the patch keyed by column name.
func (r UpdateUserRequest) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if r.Username != nil {
		cols["username"] = *r.Username
	}
	if r.FirstName != nil {
		cols["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		cols["last_name"] = *r.LastName
	}
	if r.PlanID != nil {
		cols["plan_id"] = *r.PlanID
	}
	if r.Email != nil {
		cols["email"] = *r.Email
	}
	if r.Photo != nil {
		cols["photo"] = *r.Photo
	}
	if r.CreditBalance != nil {
		cols["credit_balance"] = *r.CreditBalance
	}
	return cols
}

// Apply copies the present fields onto u.
func (r UpdateUserRequest) Apply(u *User) {
	if r.Username != nil {
		u.Username = *r.Username
	}
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.PlanID != nil {
		u.PlanID = *r.PlanID
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.Photo != nil {
		u.Photo = *r.Photo
	}
	if r.CreditBalance != nil {
		u.CreditBalance = *r.CreditBalance
	}
}

type UpdateCreditsRequest struct {
	Delta int `json:"delta" validate:"required"`
}
