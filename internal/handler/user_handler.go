package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/imaginet-backend/internal/middleware"
	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/internal/service"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
	log         *zap.Logger
}

func NewUserHandler(userService *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log.Named("users"),
	}
}

// GetMe returns the profile and credit balance of the caller.
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.userService.GetUserByClerkID(c.UserContext(), clerkID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.SuccessResponse(user, ""))
}
