package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74/webhook"
)

func TestNewStripeServiceURLs(t *testing.T) {
	s := NewStripeService("sk_test_x", "whsec_x", "https://imaginet.app/")
	assert.Equal(t, "https://imaginet.app/profile?session_id={CHECKOUT_SESSION_ID}", s.successURL)
	assert.Equal(t, "https://imaginet.app/credits", s.cancelURL)
}

func TestConstructEvent(t *testing.T) {
	s := NewStripeService("sk_test_x", "whsec_test", "http://localhost:3000")
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})

	event, err := s.ConstructEvent(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.EqualValues(t, "checkout.session.completed", event.Type)
}

func TestConstructEventBadSignature(t *testing.T) {
	s := NewStripeService("sk_test_x", "whsec_test", "http://localhost:3000")
	_, err := s.ConstructEvent([]byte(`{"id":"evt_1"}`), "t=1,v1=deadbeef")
	assert.Error(t, err)
}
