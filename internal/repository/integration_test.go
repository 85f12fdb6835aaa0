package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/pkg/database"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	ctx          context.Context
	pgc          *postgres.PostgresContainer
	db           *gorm.DB
	users        *UserRepository
	images       *ImageRepository
	transactions *TransactionRepository
}

func TestRepositoryIntegration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("set RUN_INTEGRATION_TESTS=1 to run against a postgres container")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("imaginet_test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := database.NewDatabase(s.ctx, database.Options{URL: connStr})
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(db, database.DefaultRegistry()))
	s.db = db

	s.users = NewUserRepository(db)
	s.images = NewImageRepository(db)
	s.transactions = NewTransactionRepository(db)
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	if s.db != nil {
		_ = database.Close(s.db)
	}
	if s.pgc != nil {
		s.Require().NoError(s.pgc.Terminate(s.ctx))
	}
}

func (s *RepositoryIntegrationTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE users, images, transactions").Error)
}

func (s *RepositoryIntegrationTestSuite) newUser(clerkID string) *models.User {
	return &models.User{
		ClerkID:       clerkID,
		Username:      "testuser",
		FirstName:     "Test",
		LastName:      "User",
		PlanID:        "free",
		Email:         "test@example.com",
		Photo:         "https://example.com/photo.jpg",
		CreditBalance: 10,
	}
}

func (s *RepositoryIntegrationTestSuite) TestUser_CreateThenGet() {
	u := s.newUser("test_clerk_id_123")
	s.Require().NoError(s.users.Create(s.ctx, u))
	s.NotEqual(uuid.Nil, u.ID)
	s.False(u.CreatedAt.IsZero())
	s.False(u.UpdatedAt.IsZero())

	got, err := s.users.GetByID(s.ctx, u.ID.String())
	s.Require().NoError(err)
	s.Equal(u.ClerkID, got.ClerkID)
	s.Equal(u.Username, got.Username)
	s.Equal(u.FirstName, got.FirstName)
	s.Equal(u.LastName, got.LastName)
	s.Equal(u.PlanID, got.PlanID)
	s.Equal(u.Email, got.Email)
	s.Equal(u.Photo, got.Photo)
	s.Equal(u.CreditBalance, got.CreditBalance)

	byClerk, err := s.users.GetByClerkID(s.ctx, u.ClerkID)
	s.Require().NoError(err)
	s.Equal(u.ID, byClerk.ID)
}

func (s *RepositoryIntegrationTestSuite) TestUser_DuplicateClerkID() {
	s.Require().NoError(s.users.Create(s.ctx, s.newUser("dup")))

	err := s.users.Create(s.ctx, s.newUser("dup"))
	s.ErrorIs(err, ErrDuplicateKey)
}

func (s *RepositoryIntegrationTestSuite) TestUser_UpdateOnlyTouchesPatch() {
	u := s.newUser("patch_me")
	s.Require().NoError(s.users.Create(s.ctx, u))

	time.Sleep(10 * time.Millisecond)

	name := "updateduser"
	credits := 20
	updated, err := s.users.Update(s.ctx, u.ID.String(), models.UpdateUserRequest{
		Username:      &name,
		CreditBalance: &credits,
	})
	s.Require().NoError(err)
	s.Equal("updateduser", updated.Username)
	s.Equal(20, updated.CreditBalance)
	s.Equal(u.Email, updated.Email)
	s.Equal(u.FirstName, updated.FirstName)
	s.Equal(u.ClerkID, updated.ClerkID)
	s.True(updated.UpdatedAt.After(u.UpdatedAt))
}

func (s *RepositoryIntegrationTestSuite) TestUser_DeleteReturnsSnapshot() {
	u := s.newUser("delete_me")
	s.Require().NoError(s.users.Create(s.ctx, u))

	deleted, err := s.users.Delete(s.ctx, u.ID.String())
	s.Require().NoError(err)
	s.Equal(u.ID, deleted.ID)
	s.Equal(u.Username, deleted.Username)

	_, err = s.users.GetByID(s.ctx, u.ID.String())
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestUser_MissingIDs() {
	missing := uuid.NewString()
	name := "newname"

	_, err := s.users.GetByID(s.ctx, missing)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.users.Update(s.ctx, missing, models.UpdateUserRequest{Username: &name})
	s.ErrorIs(err, ErrNotFound)
	_, err = s.users.Delete(s.ctx, missing)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.users.GetByID(s.ctx, "64f1c2e8a1b2c3d4e5f60718")
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestUser_AddCredits() {
	u := s.newUser("credits")
	s.Require().NoError(s.users.Create(s.ctx, u))

	updated, err := s.users.AddCredits(s.ctx, u.ClerkID, -4)
	s.Require().NoError(err)
	s.Equal(6, updated.CreditBalance)

	_, err = s.users.AddCredits(s.ctx, u.ClerkID, -7)
	s.ErrorIs(err, ErrInsufficientCredits)

	_, err = s.users.AddCredits(s.ctx, "nobody", 5)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestImage_Lifecycle() {
	u := s.newUser("image_owner")
	s.Require().NoError(s.users.Create(s.ctx, u))

	img := &models.Image{
		Title:              "Portrait",
		TransformationType: models.TransformationRecolor,
		Color:              "blue",
		Width:              800,
		Height:             600,
		Prompt:             "shirt",
		PublicID:           "images/abc",
		SecureURL:          "https://cdn.example.com/images/abc",
		Config:             map[string]interface{}{"recolor": map[string]interface{}{"to": "blue"}},
		UserID:             u.ID,
		Author:             models.AuthorSnapshot(u),
	}
	s.Require().NoError(s.images.Create(s.ctx, img))

	got, err := s.images.GetByPublicID(s.ctx, "images/abc")
	s.Require().NoError(err)
	s.Equal(img.ID, got.ID)
	s.Equal("Test", got.Author.FirstName)
	s.Equal(u.ID, got.Author.UserID)
	s.Contains(got.Config, "recolor")

	title := "Renamed"
	updated, err := s.images.Update(s.ctx, img.ID.String(), models.UpdateImageRequest{Title: &title})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Title)
	s.Equal(800, updated.Width)

	list, err := s.images.GetByUserID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Len(list, 1)

	_, err = s.images.Delete(s.ctx, img.ID.String())
	s.Require().NoError(err)
	_, err = s.images.GetByID(s.ctx, img.ID.String())
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestTransaction_UniqueStripeIDAndTransition() {
	buyer := uuid.New()
	tx := &models.Transaction{BuyerID: buyer, StripeID: "cs_test_1", Amount: 40, Plan: "pro", Credits: 120, Status: models.TransactionStatusPending}
	s.Require().NoError(s.transactions.Create(s.ctx, tx))

	dup := &models.Transaction{BuyerID: buyer, StripeID: "cs_test_1", Amount: 40, Status: models.TransactionStatusPending}
	s.ErrorIs(s.transactions.Create(s.ctx, dup), ErrDuplicateKey)

	failed, err := s.transactions.TransitionStatus(s.ctx, "cs_test_1", models.TransactionStatusPending, models.TransactionStatusFailed)
	s.Require().NoError(err)
	s.Equal(models.TransactionStatusFailed, failed.Status)

	_, err = s.transactions.TransitionStatus(s.ctx, "cs_test_1", models.TransactionStatusPending, models.TransactionStatusFailed)
	s.ErrorIs(err, ErrNotFound)

	history, err := s.transactions.GetByBuyerID(s.ctx, buyer)
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *RepositoryIntegrationTestSuite) TestTransaction_CompleteAndRefund() {
	u := s.newUser("user_buyer")
	s.Require().NoError(s.users.Create(s.ctx, u))

	pending := &models.Transaction{BuyerID: u.ID, StripeID: "cs_test_1", Amount: 40, Plan: "pro", Credits: 120, Status: models.TransactionStatusPending}
	s.Require().NoError(s.transactions.Create(s.ctx, pending))

	completed, err := s.transactions.Complete(s.ctx, "cs_test_1", "pi_1", nil)
	s.Require().NoError(err)
	s.Equal(models.TransactionStatusCompleted, completed.Status)
	s.Equal("pi_1", completed.PaymentIntentID)

	_, err = s.transactions.Complete(s.ctx, "cs_test_1", "pi_1", nil)
	s.ErrorIs(err, ErrAlreadySettled)

	buyer, err := s.users.GetByID(s.ctx, u.ID.String())
	s.Require().NoError(err)
	s.Equal(u.CreditBalance+120, buyer.CreditBalance)
	s.Equal("pro", buyer.PlanID)

	refunded, err := s.transactions.Refund(s.ctx, "pi_1")
	s.Require().NoError(err)
	s.Equal(models.TransactionStatusRefunded, refunded.Status)

	_, err = s.transactions.Refund(s.ctx, "pi_1")
	s.ErrorIs(err, ErrAlreadySettled)

	buyer, err = s.users.GetByID(s.ctx, u.ID.String())
	s.Require().NoError(err)
	s.Equal(u.CreditBalance, buyer.CreditBalance)
}

func (s *RepositoryIntegrationTestSuite) TestTransaction_CompleteRollsBackWithoutBuyer() {
	fallback := &models.Transaction{BuyerID: uuid.New(), Amount: 40, Plan: "pro", Credits: 120}

	_, err := s.transactions.Complete(s.ctx, "cs_orphan", "pi_2", fallback)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.transactions.GetByStripeID(s.ctx, "cs_orphan")
	s.ErrorIs(err, ErrNotFound)
}
