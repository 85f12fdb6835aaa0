package servicetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sefazor/imaginet-backend/pkg/payment"
	"github.com/stripe/stripe-go/v74"
)

// Storage keeps uploaded objects in memory.
type Storage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
}

func NewStorage() *Storage {
	return &Storage{Objects: map[string][]byte{}}
}

func (s *Storage) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = buf.Bytes()
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Objects[key]; !ok {
		return errors.New("no such key")
	}
	delete(s.Objects, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

func (s *Storage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

// Mailer records welcome emails.
type Mailer struct {
	mu   sync.Mutex
	Sent []string
	Err  error
}

func (m *Mailer) SendWelcomeEmail(_ context.Context, email, _ string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, email)
	return nil
}

func (m *Mailer) Recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Sent...)
}

// Checkout hands out sequential session ids.
type Checkout struct {
	mu     sync.Mutex
	Params []payment.CheckoutParams
	Err    error
}

func (c *Checkout) CreateCheckoutSession(params payment.CheckoutParams) (*stripe.CheckoutSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	c.Params = append(c.Params, params)
	id := fmt.Sprintf("cs_test_%d", len(c.Params))
	return &stripe.CheckoutSession{
		ID:  id,
		URL: "https://checkout.stripe.test/" + id,
	}, nil
}
