package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/pkg/storage"
	"github.com/sefazor/imaginet-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const MaxUploadSize = 10 * 1024 * 1024

var (
	ErrUnsupportedImage = errors.New("invalid file type")
	ErrFileTooLarge     = errors.New("file size too large")
)

type ImageService struct {
	imageRepo ImageStore
	userRepo  UserStore
	storage   storage.StorageService
	validator *utils.Validator
	log       *zap.Logger
}

func NewImageService(imageRepo ImageStore, userRepo UserStore, storage storage.StorageService, validator *utils.Validator, log *zap.Logger) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		userRepo:  userRepo,
		storage:   storage,
		validator: validator,
		log:       log.Named("images"),
	}
}

// AddImage records a transformation for the caller and charges its fee.
func (s *ImageService) AddImage(ctx context.Context, clerkID string, req models.AddImageRequest) (*models.Image, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}

	author, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, notFound("User", err)
	}

	// Önce kredi düş, kayıt başarısız olursa iade et
	if _, err := s.userRepo.AddCredits(ctx, clerkID, -models.TransformationCreditFee); err != nil {
		return nil, notFound("User", err)
	}

	image := &models.Image{
		Title:              req.Title,
		TransformationType: req.TransformationType,
		AspectRatio:        req.AspectRatio,
		Color:              req.Color,
		Width:              req.Width,
		Height:             req.Height,
		Prompt:             req.Prompt,
		PublicID:           req.PublicID,
		SecureURL:          req.SecureURL,
		UserID:             author.ID,
		Author:             models.AuthorSnapshot(author),
	}
	if req.Config != nil {
		image.Config = datatypes.JSONMap(req.Config)
	}

	if err := s.imageRepo.Create(ctx, image); err != nil {
		if _, refundErr := s.userRepo.AddCredits(ctx, clerkID, models.TransformationCreditFee); refundErr != nil {
			s.log.Error("credit refund failed", zap.String("clerkId", clerkID), zap.Error(refundErr))
		}
		return nil, err
	}

	s.log.Info("image added",
		zap.String("id", image.ID.String()),
		zap.String("transformation", image.TransformationType),
		zap.String("clerkId", clerkID),
	)
	return image, nil
}

func (s *ImageService) GetImageByID(ctx context.Context, id string) (*models.Image, error) {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("Image", err)
	}
	return image, nil
}

func (s *ImageService) GetImageByPublicID(ctx context.Context, publicID string) (*models.Image, error) {
	image, err := s.imageRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, notFound("Image", err)
	}
	return image, nil
}

// GetUserImage returns the image only when clerkID owns it.
func (s *ImageService) GetUserImage(ctx context.Context, clerkID, id string) (*models.Image, error) {
	image, err := s.GetImageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, clerkID, image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *ImageService) GetUserImages(ctx context.Context, clerkID string) ([]models.Image, error) {
	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, notFound("User", err)
	}

	images, err := s.imageRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}
	return images, nil
}

func (s *ImageService) UpdateImage(ctx context.Context, clerkID, id string, req models.UpdateImageRequest) (*models.Image, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}

	if _, err := s.GetUserImage(ctx, clerkID, id); err != nil {
		return nil, err
	}

	image, err := s.imageRepo.Update(ctx, id, req)
	if err != nil {
		return nil, notFound("Image", err)
	}
	return image, nil
}

// DeleteImage removes the record; the stored object is cleaned up best effort.
func (s *ImageService) DeleteImage(ctx context.Context, clerkID, id string) (*models.Image, error) {
	if _, err := s.GetUserImage(ctx, clerkID, id); err != nil {
		return nil, err
	}

	image, err := s.imageRepo.Delete(ctx, id)
	if err != nil {
		return nil, notFound("Image", err)
	}

	if s.storage != nil && s.ownsObject(image) {
		if err := s.storage.Delete(ctx, image.PublicID); err != nil {
			s.log.Warn("stored object not removed", zap.String("publicId", image.PublicID), zap.Error(err))
		}
	}
	return image, nil
}

// UploadImage stores a source image and returns where it can be fetched.
func (s *ImageService) UploadImage(ctx context.Context, clerkID string, file *multipart.FileHeader) (*models.UploadedImage, error) {
	if s.storage == nil {
		return nil, errors.New("storage is not configured")
	}

	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, notFound("User", err)
	}

	// Dosya tipini kontrol et
	contentType := file.Header.Get("Content-Type")
	if err := s.validator.Var(contentType, "supported_image"); err != nil {
		return nil, ErrUnsupportedImage
	}

	// Dosya boyutunu kontrol et (10MB)
	if file.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	key := fmt.Sprintf("%s%s/%s%s", uploadPrefix, user.ID, utils.GenerateRandomString(16), strings.ToLower(filepath.Ext(file.Filename)))
	if err := s.storage.Upload(ctx, key, src, contentType); err != nil {
		return nil, err
	}

	return &models.UploadedImage{
		PublicID:  key,
		SecureURL: s.storage.PublicURL(key),
	}, nil
}

const uploadPrefix = "images/"

func (s *ImageService) ownsObject(image *models.Image) bool {
	return strings.HasPrefix(image.PublicID, uploadPrefix+image.UserID.String()+"/")
}

func (s *ImageService) authorize(ctx context.Context, clerkID string, image *models.Image) error {
	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return notFound("User", err)
	}
	if image.UserID != user.ID {
		return ErrForbidden
	}
	return nil
}
