package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// store implements the data access shared by every entity: one storage
// call per operation, "no match" reported as ErrNotFound.
type store[T any] struct {
	db *gorm.DB
}

func (s store[T]) create(ctx context.Context, entity *T) error {
	return translateError(s.db.WithContext(ctx).Create(entity).Error)
}

func (s store[T]) first(ctx context.Context, query string, args ...interface{}) (*T, error) {
	var out T
	if err := s.db.WithContext(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, translateError(err)
	}
	return &out, nil
}

func (s store[T]) getByID(ctx context.Context, id string) (*T, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		// Geçersiz id'ler "bulunamadı" ile aynı muamele görür
		return nil, ErrNotFound
	}
	return s.first(ctx, "id = ?", uid)
}

func (s store[T]) find(ctx context.Context, order string, query string, args ...interface{}) ([]T, error) {
	var out []T
	err := s.db.WithContext(ctx).Where(query, args...).Order(order).Find(&out).Error
	return out, translateError(err)
}

// updateWhere applies fields to the row matched by query and returns it as
// stored after the update. updated_at is always refreshed.
func (s store[T]) updateWhere(ctx context.Context, fields map[string]interface{}, query string, args ...interface{}) (*T, error) {
	assignments := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		assignments[k] = v
	}
	assignments["updated_at"] = time.Now()

	var out T
	res := s.db.WithContext(ctx).
		Model(&out).
		Clauses(clause.Returning{}).
		Where(query, args...).
		Updates(assignments)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &out, nil
}

func (s store[T]) updateByID(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.updateWhere(ctx, fields, "id = ?", uid)
}

// deleteWhere removes the matched row and returns its last stored state.
func (s store[T]) deleteWhere(ctx context.Context, query string, args ...interface{}) (*T, error) {
	var out T
	res := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where(query, args...).
		Delete(&out)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &out, nil
}

func (s store[T]) deleteByID(ctx context.Context, id string) (*T, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.deleteWhere(ctx, "id = ?", uid)
}
