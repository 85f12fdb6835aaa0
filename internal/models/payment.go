package models

type CreateCheckoutSessionRequest struct {
	PlanID string `json:"planId" validate:"required"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
