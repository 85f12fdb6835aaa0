package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"wrapped record not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, ErrDuplicateKey},
		{"postgres unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_clerk_id"}, ErrDuplicateKey},
		{"other postgres error", &pgconn.PgError{Code: "23502"}, nil},
		{"unrelated", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in)
			switch {
			case tt.in == nil:
				assert.NoError(t, got)
			case tt.want == nil:
				assert.False(t, errors.Is(got, ErrNotFound))
				assert.False(t, errors.Is(got, ErrDuplicateKey))
			default:
				assert.ErrorIs(t, got, tt.want)
			}
		})
	}
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("get user: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrDuplicateKey))
	assert.True(t, IsDuplicateKey(translateError(gorm.ErrDuplicatedKey)))
}
