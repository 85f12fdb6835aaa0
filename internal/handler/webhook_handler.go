package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/imaginet-backend/internal/middleware"
	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/internal/service"
	"github.com/sefazor/imaginet-backend/pkg/webhook"
	"go.uber.org/zap"
)

const (
	msgMissingHeaders = "Error occured -- no svix headers"
	msgVerifyFailed   = "Error occured"
	msgInternal       = "Internal Server Error"
)

type WebhookHandler struct {
	verifier    *webhook.Verifier
	userService *service.UserService
	log         *zap.Logger
}

func NewWebhookHandler(verifier *webhook.Verifier, userService *service.UserService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier:    verifier,
		userService: userService,
		log:         log.Named("clerk-webhook"),
	}
}

// HandleClerkWebhook applies identity provider user lifecycle events.
func (h *WebhookHandler) HandleClerkWebhook(c *fiber.Ctx) error {
	headers := webhook.Headers(func(key string) string { return c.Get(key) })
	msgID := headers.Get(webhook.HeaderID)
	payload := c.Body()

	if err := h.verifier.Verify(payload, headers); err != nil {
		middleware.RecordWebhook("clerk", "", "rejected")
		if errors.Is(err, webhook.ErrMissingHeaders) {
			h.log.Warn("delivery without svix headers")
			return c.Status(fiber.StatusBadRequest).SendString(msgMissingHeaders)
		}
		h.log.Warn("delivery failed verification", zap.String("svixId", msgID), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).SendString(msgVerifyFailed)
	}

	// İmzalı ama bozuk gövde sağlayıcının tekrar denemesi için 500 döner
	var event models.ClerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		middleware.RecordWebhook("clerk", "", "failed")
		h.log.Error("verified delivery is not an event", zap.String("svixId", msgID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString(msgInternal)
	}

	ctx := c.UserContext()
	var (
		user *models.User
		err  error
	)
	switch event.Type {
	case models.ClerkEventUserCreated:
		user, err = h.userCreated(ctx, event.Data)
	case models.ClerkEventUserUpdated:
		user, err = h.userUpdated(ctx, event.Data)
	case models.ClerkEventUserDeleted:
		user, err = h.userDeleted(ctx, event.Data)
	default:
		middleware.RecordWebhook("clerk", event.Type, "ignored")
		return c.Status(fiber.StatusOK).SendString("")
	}

	if err != nil {
		middleware.RecordWebhook("clerk", event.Type, "failed")
		h.log.Error("webhook processing failed",
			zap.String("svixId", msgID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).SendString(msgInternal)
	}

	middleware.RecordWebhook("clerk", event.Type, "processed")
	if user == nil {
		return c.Status(fiber.StatusOK).SendString("")
	}
	return c.Status(fiber.StatusOK).JSON(models.WebhookUserResponse{Message: "OK", User: user})
}

func (h *WebhookHandler) userCreated(ctx context.Context, raw json.RawMessage) (*models.User, error) {
	var data models.ClerkUserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	user, err := h.userService.CreateUser(ctx, data.CreateUserRequest())
	if !errors.Is(err, service.ErrDuplicateKey) {
		return user, err
	}

	// Aynı event tekrar gelirse mevcut kullanıcıyı döndür
	existing, getErr := h.userService.GetUserByClerkID(ctx, data.ID)
	if getErr != nil {
		return nil, err
	}
	h.log.Info("duplicate user.created delivery", zap.String("clerkId", data.ID))
	return existing, nil
}

func (h *WebhookHandler) userUpdated(ctx context.Context, raw json.RawMessage) (*models.User, error) {
	var data models.ClerkUserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	user, err := h.userService.UpdateUserByClerkID(ctx, data.ID, data.UpdateUserRequest())
	if service.IsNotFound(err) {
		// user.created kaçırılmış, kaydı şimdi oluştur
		h.log.Info("update for unknown user, creating", zap.String("clerkId", data.ID))
		return h.userService.CreateUser(ctx, data.CreateUserRequest())
	}
	return user, err
}

func (h *WebhookHandler) userDeleted(ctx context.Context, raw json.RawMessage) (*models.User, error) {
	var data models.ClerkDeletedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}

	user, err := h.userService.DeleteUserByClerkID(ctx, data.ID)
	if service.IsNotFound(err) {
		return nil, nil
	}
	return user, err
}
