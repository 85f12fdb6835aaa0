package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sefazor/imaginet-backend/internal/models"
	"gorm.io/gorm"
)

type ImageRepository struct {
	images store[models.Image]
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{
		images: store[models.Image]{db: db},
	}
}

func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	if err := r.images.create(ctx, image); err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	return nil
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	image, err := r.images.getByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return image, nil
}

func (r *ImageRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Image, error) {
	image, err := r.images.first(ctx, "public_id = ?", publicID)
	if err != nil {
		return nil, fmt.Errorf("get image by public id: %w", err)
	}
	return image, nil
}

// GetByUserID returns the user's images, newest first.
func (r *ImageRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Image, error) {
	images, err := r.images.find(ctx, "created_at DESC", "user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

func (r *ImageRepository) Update(ctx context.Context, id string, req models.UpdateImageRequest) (*models.Image, error) {
	image, err := r.images.updateByID(ctx, id, req.Columns())
	if err != nil {
		return nil, fmt.Errorf("update image: %w", err)
	}
	return image, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id string) (*models.Image, error) {
	image, err := r.images.deleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete image: %w", err)
	}
	return image, nil
}
