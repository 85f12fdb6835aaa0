package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/internal/service"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses. Anything unexpected
// is logged and hidden behind a generic message.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var nf *service.NotFoundError

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrorResponse(err.Error()))
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(nf.Error()))
	case service.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Not found"))
	case errors.Is(err, service.ErrDuplicateKey):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse("Resource already exists"))
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("You do not have access to this resource"))
	case errors.Is(err, service.ErrInsufficientCredits):
		return c.Status(fiber.StatusPaymentRequired).JSON(models.ErrorResponse("Insufficient credits"))
	case errors.Is(err, service.ErrUnknownPlan):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Unknown plan"))
	case errors.Is(err, service.ErrUnsupportedImage), errors.Is(err, service.ErrFileTooLarge):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Internal Server Error"))
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
}
