package service

import (
	"errors"
	"fmt"

	"github.com/sefazor/imaginet-backend/internal/repository"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrForbidden           = errors.New("forbidden")
	ErrUnknownPlan         = errors.New("unknown plan")
	ErrInsufficientCredits = repository.ErrInsufficientCredits
	ErrDuplicateKey        = repository.ErrDuplicateKey
	ErrAlreadySettled      = repository.ErrAlreadySettled
)

// NotFoundError names the entity that was looked up. It still matches
// repository.ErrNotFound with errors.Is.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return repository.ErrNotFound
}

func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func notFound(entity string, err error) error {
	if IsNotFound(err) {
		return &NotFoundError{Entity: entity}
	}
	return err
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
