package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Service registers users and checks credentials.
type Service struct {
	repo   Repository
	logger *slog.Logger
	cost   int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithBcryptCost sets the bcrypt work factor for new password hashes.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

// NewService creates a new user Service.
func NewService(repo Repository, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:   repo,
		logger: logger,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a hashed password.
// Returns ErrEmailTaken if the email is already registered.
func (s *Service) Register(ctx context.Context, email, name, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.Save(ctx, User{
		Email:        normalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			s.logger.Info("registration rejected, email taken")
		}
		return User{}, err
	}

	s.logger.Info("user registered", slog.Int("user_id", u.ID))
	return u, nil
}

// Login returns the user matching email and password.
// Returns ErrInvalidCredentials when either is wrong.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	u, ok, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// FindByID retrieves a user by ID.
func (s *Service) FindByID(ctx context.Context, id int) (User, bool, error) {
	return s.repo.FindByID(ctx, id)
}
