package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sefazor/imaginet-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db    *gorm.DB
	users store[models.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db:    db,
		users: store[models.User]{db: db},
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.users.create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.users.getByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	user, err := r.users.first(ctx, "clerk_id = ?", clerkID)
	if err != nil {
		return nil, fmt.Errorf("get user by clerk id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := r.users.updateByID(ctx, id, req.Columns())
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) UpdateByClerkID(ctx context.Context, clerkID string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := r.users.updateWhere(ctx, req.Columns(), "clerk_id = ?", clerkID)
	if err != nil {
		return nil, fmt.Errorf("update user by clerk id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	user, err := r.users.deleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) DeleteByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	user, err := r.users.deleteWhere(ctx, "clerk_id = ?", clerkID)
	if err != nil {
		return nil, fmt.Errorf("delete user by clerk id: %w", err)
	}
	return user, nil
}

// AddCredits moves the balance by delta in a single statement. The
// balance never drops below zero: such updates fail with
// ErrInsufficientCredits.
func (r *UserRepository) AddCredits(ctx context.Context, clerkID string, delta int) (*models.User, error) {
	var user models.User
	res := r.db.WithContext(ctx).
		Model(&user).
		Clauses(clause.Returning{}).
		Where("clerk_id = ? AND credit_balance + ? >= 0", clerkID, delta).
		Updates(map[string]interface{}{
			"credit_balance": gorm.Expr("credit_balance + ?", delta),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("add credits: %w", translateError(res.Error))
	}

	if res.RowsAffected == 0 {
		// Kullanıcı yok mu, bakiye mi yetersiz?
		if _, err := r.GetByClerkID(ctx, clerkID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("add credits: %w", ErrInsufficientCredits)
	}

	return &user, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}
