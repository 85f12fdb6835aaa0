package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/imaginet-backend/internal/middleware"
	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/internal/service"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
)

// EventConstructor verifies and decodes a Stripe webhook delivery.
type EventConstructor interface {
	ConstructEvent(payload []byte, signature string) (stripe.Event, error)
}

type PaymentHandler struct {
	paymentService *service.PaymentService
	events         EventConstructor
	log            *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, events EventConstructor, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		events:         events,
		log:            log.Named("payments"),
	}
}

func (h *PaymentHandler) GetPlans(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(h.paymentService.Plans(), ""))
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	session, err := h.paymentService.CreateCheckout(c.UserContext(), clerkID, req.PlanID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.SuccessResponse(session, "Checkout session created"))
}

func (h *PaymentHandler) GetPurchaseHistory(c *fiber.Ctx) error {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		return unauthorized(c)
	}

	transactions, err := h.paymentService.GetUserTransactions(c.UserContext(), clerkID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(models.SuccessResponse(transactions, ""))
}

func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := h.events.ConstructEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		middleware.RecordWebhook("stripe", "", "rejected")
		h.log.Warn("stripe signature rejected", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid webhook signature"))
	}

	eventType := string(event.Type)
	if err := h.paymentService.HandleStripeEvent(c.UserContext(), &event); err != nil {
		middleware.RecordWebhook("stripe", eventType, "failed")
		if errors.Is(err, service.ErrInvalidInput) {
			h.log.Warn("stripe event rejected", zap.String("id", event.ID), zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		}
		h.log.Error("stripe event failed", zap.String("id", event.ID), zap.String("type", eventType), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Internal Server Error"))
	}

	middleware.RecordWebhook("stripe", eventType, "processed")
	return c.SendStatus(fiber.StatusOK)
}
