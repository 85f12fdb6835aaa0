package payment

import (
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"
)

// CheckoutParams describes a one-off credit purchase.
type CheckoutParams struct {
	CustomerEmail string
	ProductName   string
	Description   string
	AmountCents   int64
	Metadata      map[string]string
}

type StripeService struct {
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeService(secretKey, webhookSecret, appURL string) *StripeService {
	stripe.Key = secretKey
	appURL = strings.TrimRight(appURL, "/")
	return &StripeService{
		webhookSecret: webhookSecret,
		successURL:    appURL + "/profile?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:     appURL + "/credits",
	}
}

func (s *StripeService) CreateCheckoutSession(params CheckoutParams) (*stripe.CheckoutSession, error) {
	p := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(params.ProductName),
						Description: stripe.String(params.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	if params.CustomerEmail != "" {
		p.CustomerEmail = stripe.String(params.CustomerEmail)
	}

	for k, v := range params.Metadata {
		p.AddMetadata(k, v)
	}

	return session.New(p)
}

// ConstructEvent verifies the Stripe-Signature header and decodes the event.
func (s *StripeService) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
