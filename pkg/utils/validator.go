package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var aspectRatioPattern = regexp.MustCompile(`^[1-9][0-9]*:[1-9][0-9]*$`)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Custom validations
	v.RegisterValidation("supported_image", validateImageType)
	v.RegisterValidation("transformation_type", validateTransformationType)
	v.RegisterValidation("aspect_ratio", validateAspectRatio)
	v.RegisterValidation("transaction_status", validateTransactionStatus)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Var validates a single value against a tag list.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// Desteklenen resim formatlarını kontrol et
func validateImageType(fl validator.FieldLevel) bool {
	mimeType := fl.Field().String()
	supportedTypes := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	return supportedTypes[mimeType]
}

func validateTransformationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "restore", "removeBackground", "fill", "remove", "recolor":
		return true
	}
	return false
}

// "16:9" gibi oranlar
func validateAspectRatio(fl validator.FieldLevel) bool {
	return aspectRatioPattern.MatchString(fl.Field().String())
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "completed", "failed", "refunded":
		return true
	}
	return false
}
