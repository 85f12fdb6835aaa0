package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Desteklenen dönüşüm tipleri
const (
	TransformationRestore          = "restore"
	TransformationRemoveBackground = "removeBackground"
	TransformationFill             = "fill"
	TransformationRemove           = "remove"
	TransformationRecolor          = "recolor"
)

// TransformationCreditFee is charged for every recorded transformation.
const TransformationCreditFee = 1

type Image struct {
	ID                 uuid.UUID         `json:"_id" gorm:"type:uuid;primaryKey"`
	Title              string            `json:"title" gorm:"not null"`
	TransformationType string            `json:"transformationType" gorm:"not null"`
	AspectRatio        string            `json:"aspectRatio"`
	Color              string            `json:"color"`
	Width              int               `json:"width" gorm:"not null"`
	Height             int               `json:"height" gorm:"not null"`
	Prompt             string            `json:"prompt"`
	PublicID           string            `json:"publicId" gorm:"not null;index"`
	SecureURL          string            `json:"secureUrl" gorm:"not null"`
	Config             datatypes.JSONMap `json:"config,omitempty" gorm:"type:jsonb"`
	UserID             uuid.UUID         `json:"userId" gorm:"type:uuid;not null;index"`
	Author             ImageAuthor       `json:"author" gorm:"embedded;embeddedPrefix:author_"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// ImageAuthor is copied from the owner when the image is created and is
// not refreshed when the owner later changes their profile.
type ImageAuthor struct {
	UserID    uuid.UUID `json:"_id" gorm:"type:uuid"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func AuthorSnapshot(u *User) ImageAuthor {
	return ImageAuthor{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type AddImageRequest struct {
	Title              string                 `json:"title" validate:"required,max=200"`
	TransformationType string                 `json:"transformationType" validate:"required,transformation_type"`
	AspectRatio        string                 `json:"aspectRatio" validate:"omitempty,aspect_ratio"`
	Color              string                 `json:"color"`
	Width              int                    `json:"width" validate:"gt=0"`
	Height             int                    `json:"height" validate:"gt=0"`
	Prompt             string                 `json:"prompt"`
	PublicID           string                 `json:"publicId" validate:"required"`
	SecureURL          string                 `json:"secureUrl" validate:"required,url"`
	Config             map[string]interface{} `json:"config"`
}

type UpdateImageRequest struct {
	Title              *string                `json:"title" validate:"omitempty,min=1,max=200"`
	TransformationType *string                `json:"transformationType" validate:"omitempty,transformation_type"`
	AspectRatio        *string                `json:"aspectRatio" validate:"omitempty,aspect_ratio"`
	Color              *string                `json:"color"`
	Width              *int                   `json:"width" validate:"omitempty,gt=0"`
	Height             *int                   `json:"height" validate:"omitempty,gt=0"`
	Prompt             *string                `json:"prompt"`
	PublicID           *string                `json:"publicId" validate:"omitempty,min=1"`
	SecureURL          *string                `json:"secureUrl" validate:"omitempty,url"`
	Config             map[string]interface{} `json:"config"`
}

func (r UpdateImageRequest) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if r.Title != nil {
		cols["title"] = *r.Title
	}
	if r.TransformationType != nil {
		cols["transformation_type"] = *r.TransformationType
	}
	if r.AspectRatio != nil {
		cols["aspect_ratio"] = *r.AspectRatio
	}
	if r.Color != nil {
		cols["color"] = *r.Color
	}
	if r.Width != nil {
		cols["width"] = *r.Width
	}
	if r.Height != nil {
		cols["height"] = *r.Height
	}
	if r.Prompt != nil {
		cols["prompt"] = *r.Prompt
	}
	if r.PublicID != nil {
		cols["public_id"] = *r.PublicID
	}
	if r.SecureURL != nil {
		cols["secure_url"] = *r.SecureURL
	}
	if r.Config != nil {
		cols["config"] = datatypes.JSONMap(r.Config)
	}
	return cols
}

func (r UpdateImageRequest) Apply(i *Image) {
	if r.Title != nil {
		i.Title = *r.Title
	}
	if r.TransformationType != nil {
		i.TransformationType = *r.TransformationType
	}
	if r.AspectRatio != nil {
		i.AspectRatio = *r.AspectRatio
	}
	if r.Color != nil {
		i.Color = *r.Color
	}
	if r.Width != nil {
		i.Width = *r.Width
	}
	if r.Height != nil {
		i.Height = *r.Height
	}
	if r.Prompt != nil {
		i.Prompt = *r.Prompt
	}
	if r.PublicID != nil {
		i.PublicID = *r.PublicID
	}
	if r.SecureURL != nil {
		i.SecureURL = *r.SecureURL
	}
	if r.Config != nil {
		i.Config = datatypes.JSONMap(r.Config)
	}
}

type UploadedImage struct {
	PublicID  string `json:"publicId"`
	SecureURL string `json:"secureUrl"`
}
