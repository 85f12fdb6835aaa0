package webhook

import (
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

var (
	ErrMissingHeaders   = errors.New("missing svix headers")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Verifier checks svix signed deliveries against a shared secret. A
// verifier built from an empty secret rejects every delivery.
type Verifier struct {
	wh *svix.Webhook
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return &Verifier{}, nil
	}

	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}
	return &Verifier{wh: wh}, nil
}

// Verify authenticates payload, which must be the body exactly as received.
func (v *Verifier) Verify(payload []byte, headers http.Header) error {
	if headers.Get(HeaderID) == "" || headers.Get(HeaderTimestamp) == "" || headers.Get(HeaderSignature) == "" {
		return ErrMissingHeaders
	}
	if v.wh == nil {
		return fmt.Errorf("%w: no secret configured", ErrInvalidSignature)
	}
	if err := v.wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

// Headers collects the svix headers through a lookup function so callers
// on non net/http stacks can reuse Verify.
func Headers(get func(key string) string) http.Header {
	h := http.Header{}
	for _, key := range []string{HeaderID, HeaderTimestamp, HeaderSignature} {
		if v := get(key); v != "" {
			h.Set(key, v)
		}
	}
	return h
}
