// Package servicetest provides in-memory stores that behave like the
// postgres repositories, for tests of the layers above them.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/internal/repository"
)

type Users struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.User
	// Fail makes every call return this error when set.
	Fail error
}

func NewUsers(seed ...models.User) *Users {
	u := &Users{rows: map[uuid.UUID]models.User{}}
	for _, row := range seed {
		row := row
		if err := u.Create(context.Background(), &row); err != nil {
			panic(err)
		}
	}
	return u
}

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	for _, row := range s.rows {
		if row.ClerkID == user.ClerkID {
			return fmt.Errorf("%w: clerk_id %s", repository.ErrDuplicateKey, user.ClerkID)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.rows[user.ID] = *user
	return nil
}

func (s *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	row, ok := s.byID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (s *Users) GetByClerkID(_ context.Context, clerkID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	row, ok := s.byClerkID(clerkID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (s *Users) Update(_ context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	row, ok := s.byID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.apply(row, req), nil
}

func (s *Users) UpdateByClerkID(_ context.Context, clerkID string, req models.UpdateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	row, ok := s.byClerkID(clerkID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.apply(row, req), nil
}

func (s *Users) Delete(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	row, ok := s.byID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.rows, row.ID)
	return &row, nil
}

func (s *Users) DeleteByClerkID(_ context.Context, clerkID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	row, ok := s.byClerkID(clerkID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.rows, row.ID)
	return &row, nil
}

func (s *Users) AddCredits(_ context.Context, clerkID string, delta int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	row, ok := s.byClerkID(clerkID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	if row.CreditBalance+delta < 0 {
		return nil, repository.ErrInsufficientCredits
	}
	balance := row.CreditBalance + delta
	return s.apply(row, models.UpdateUserRequest{CreditBalance: &balance}), nil
}

func (s *Users) credit(id uuid.UUID, credits int, plan string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	row, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	balance := row.CreditBalance + credits
	req := models.UpdateUserRequest{CreditBalance: &balance}
	if plan != "" {
		req.PlanID = &plan
	}
	s.apply(row, req)
	return nil
}

func (s *Users) debit(id uuid.UUID, credits int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	row, ok := s.rows[id]
	if !ok {
		return nil
	}
	balance := row.CreditBalance - credits
	if balance < 0 {
		balance = 0
	}
	s.apply(row, models.UpdateUserRequest{CreditBalance: &balance})
	return nil
}

// Len reports how many users are stored.
func (s *Users) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *Users) apply(row models.User, req models.UpdateUserRequest) *models.User {
	req.Apply(&row)
	row.UpdatedAt = time.Now()
	s.rows[row.ID] = row
	return &row
}

func (s *Users) byID(id string) (models.User, bool) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.User{}, false
	}
	row, ok := s.rows[uid]
	return row, ok
}

func (s *Users) byClerkID(clerkID string) (models.User, bool) {
	for _, row := range s.rows {
		if row.ClerkID == clerkID {
			return row, true
		}
	}
	return models.User{}, false
}

type Images struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Image
	Fail error
}

func NewImages() *Images {
	return &Images{rows: map[uuid.UUID]models.Image{}}
}

func (s *Images) Create(_ context.Context, image *models.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	now := time.Now()
	image.CreatedAt, image.UpdatedAt = now, now
	s.rows[image.ID] = *image
	return nil
}

func (s *Images) GetByID(_ context.Context, id string) (*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (s *Images) GetByPublicID(_ context.Context, publicID string) (*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.PublicID == publicID {
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Images) GetByUserID(_ context.Context, userID uuid.UUID) ([]models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	images := []models.Image{}
	for _, row := range s.rows {
		if row.UserID == userID {
			images = append(images, row)
		}
	}
	sort.Slice(images, func(i, j int) bool {
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})
	return images, nil
}

func (s *Images) Update(_ context.Context, id string, req models.UpdateImageRequest) (*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	req.Apply(&row)
	row.UpdatedAt = time.Now()
	s.rows[row.ID] = row
	return &row, nil
}

func (s *Images) Delete(_ context.Context, id string) (*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byID(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.rows, row.ID)
	return &row, nil
}

func (s *Images) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *Images) byID(id string) (models.Image, bool) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.Image{}, false
	}
	row, ok := s.rows[uid]
	return row, ok
}

// Transactions settles purchases against users the way the repository
// does inside one database transaction: a failed credit update leaves the
// purchase untouched.
type Transactions struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]models.Transaction
	users *Users
}

func NewTransactions(users *Users) *Transactions {
	return &Transactions{rows: map[uuid.UUID]models.Transaction{}, users: users}
}

func (s *Transactions) Create(_ context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byStripeID(t.StripeID); ok {
		return fmt.Errorf("%w: stripe_id %s", repository.ErrDuplicateKey, t.StripeID)
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	s.rows[t.ID] = *t
	return nil
}

func (s *Transactions) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	row, ok := s.rows[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (s *Transactions) GetByStripeID(_ context.Context, stripeID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byStripeID(stripeID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (s *Transactions) GetByBuyerID(_ context.Context, buyerID uuid.UUID) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Transaction{}
	for _, row := range s.rows {
		if row.BuyerID == buyerID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Transactions) Update(_ context.Context, id string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	row, ok := s.rows[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	req.Apply(&row)
	row.UpdatedAt = time.Now()
	s.rows[row.ID] = row
	return &row, nil
}

func (s *Transactions) TransitionStatus(_ context.Context, stripeID, from, to string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byStripeID(stripeID)
	if !ok || row.Status != from {
		return nil, repository.ErrNotFound
	}
	row.Status = to
	row.UpdatedAt = time.Now()
	s.rows[row.ID] = row
	return &row, nil
}

func (s *Transactions) Complete(_ context.Context, stripeID, paymentIntentID string, fallback *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byStripeID(stripeID)
	switch {
	case !ok && fallback == nil:
		return nil, repository.ErrNotFound
	case !ok:
		row = *fallback
		row.ID = uuid.New()
		row.StripeID = stripeID
		row.CreatedAt = time.Now()
	case row.Status == models.TransactionStatusCompleted, row.Status == models.TransactionStatusRefunded:
		return nil, repository.ErrAlreadySettled
	}

	if err := s.users.credit(row.BuyerID, row.Credits, row.Plan); err != nil {
		return nil, err
	}
	row.Status = models.TransactionStatusCompleted
	row.PaymentIntentID = paymentIntentID
	row.UpdatedAt = time.Now()
	s.rows[row.ID] = row
	return &row, nil
}

func (s *Transactions) Refund(_ context.Context, paymentIntentID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		row   models.Transaction
		found bool
	)
	for _, r := range s.rows {
		if paymentIntentID != "" && r.PaymentIntentID == paymentIntentID {
			row, found = r, true
			break
		}
	}
	if !found {
		return nil, repository.ErrNotFound
	}
	if row.Status != models.TransactionStatusCompleted {
		return nil, repository.ErrAlreadySettled
	}

	if err := s.users.debit(row.BuyerID, row.Credits); err != nil {
		return nil, err
	}
	row.Status = models.TransactionStatusRefunded
	row.UpdatedAt = time.Now()
	s.rows[row.ID] = row
	return &row, nil
}

func (s *Transactions) Delete(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	row, ok := s.rows[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.rows, uid)
	return &row, nil
}

func (s *Transactions) byStripeID(stripeID string) (models.Transaction, bool) {
	for _, row := range s.rows {
		if row.StripeID == stripeID {
			return row, true
		}
	}
	return models.Transaction{}, false
}
