package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sefazor/imaginet-backend/internal/models"
	"github.com/sefazor/imaginet-backend/pkg/utils"
	"go.uber.org/zap"
)

const welcomeEmailTimeout = 10 * time.Second

type UserService struct {
	userRepo  UserStore
	mailer    WelcomeMailer
	validator *utils.Validator
	log       *zap.Logger

	mailWG sync.WaitGroup
}

// mailer may be nil, in which case no welcome email is sent.
func NewUserService(userRepo UserStore, mailer WelcomeMailer, validator *utils.Validator, log *zap.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		mailer:    mailer,
		validator: validator,
		log:       log.Named("users"),
	}
}

func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}

	user := &models.User{
		ClerkID:       req.ClerkID,
		Username:      req.Username,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PlanID:        req.PlanID,
		Email:         req.Email,
		Photo:         req.Photo,
		CreditBalance: req.CreditBalance,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("clerkId", user.ClerkID), zap.String("id", user.ID.String()))
	s.sendWelcome(user)
	return user, nil
}

// Hoş geldin maili isteği bekletmez, hata sadece loglanır
func (s *UserService) sendWelcome(user *models.User) {
	if s.mailer == nil {
		return
	}

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.Username
	}

	s.mailWG.Add(1)
	go func() {
		defer s.mailWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), welcomeEmailTimeout)
		defer cancel()
		if err := s.mailer.SendWelcomeEmail(ctx, user.Email, name, user.CreditBalance); err != nil {
			s.log.Warn("welcome email failed", zap.String("clerkId", user.ClerkID), zap.Error(err))
		}
	}()
}

// Wait blocks until pending welcome emails are done.
func (s *UserService) Wait() {
	s.mailWG.Wait()
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("User", err)
	}
	return user, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	user, err := s.userRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		return nil, notFound("User", err)
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}

	user, err := s.userRepo.Update(ctx, id, req)
	if err != nil {
		return nil, notFound("User", err)
	}
	return user, nil
}

func (s *UserService) UpdateUserByClerkID(ctx context.Context, clerkID string, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err)
	}

	user, err := s.userRepo.UpdateByClerkID(ctx, clerkID, req)
	if err != nil {
		return nil, notFound("User", err)
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, notFound("User", err)
	}
	s.log.Info("user deleted", zap.String("id", id))
	return user, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	user, err := s.userRepo.DeleteByClerkID(ctx, clerkID)
	if err != nil {
		return nil, notFound("User", err)
	}
	s.log.Info("user deleted", zap.String("clerkId", clerkID))
	return user, nil
}

// UpdateCredits adds delta to the balance; a negative delta spends credits.
func (s *UserService) UpdateCredits(ctx context.Context, clerkID string, delta int) (*models.User, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", ErrInvalidInput)
	}

	user, err := s.userRepo.AddCredits(ctx, clerkID, delta)
	if err != nil {
		return nil, notFound("User", err)
	}
	return user, nil
}
