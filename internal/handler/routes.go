package handler

import "github.com/gofiber/fiber/v2"

// Routes groups every handler served by the api.
type Routes struct {
	Health  *HealthHandler
	Webhook *WebhookHandler
	Payment *PaymentHandler
	User    *UserHandler
	Image   *ImageHandler
}

// Register mounts the routes on r; auth guards the session routes.
func (h *Routes) Register(r fiber.Router, auth fiber.Handler) {
	if h.Health != nil {
		r.Get("/health", h.Health.Health)
	}

	api := r.Group("/api")

	// Webhooks (imza ile doğrulanır, session gerekmez)
	api.Post("/webhook/clerk", h.Webhook.HandleClerkWebhook)
	api.Post("/webhook/stripe", h.Payment.HandleStripeWebhook)

	api.Get("/plans", h.Payment.GetPlans)

	// Protected routes
	api.Get("/users/me", auth, h.User.GetMe)

	images := api.Group("/images", auth)
	images.Get("/", h.Image.GetUserImages)
	images.Post("/", h.Image.AddImage)
	images.Post("/upload", h.Image.UploadImage)
	images.Get("/:id", h.Image.GetImage)
	images.Put("/:id", h.Image.UpdateImage)
	images.Delete("/:id", h.Image.DeleteImage)

	transactions := api.Group("/transactions", auth)
	transactions.Get("/", h.Payment.GetPurchaseHistory)
	transactions.Post("/checkout", h.Payment.CreateCheckoutSession)
}
