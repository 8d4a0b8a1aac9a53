package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"itemshelf/internal/auth"
	"itemshelf/internal/domain"
	"itemshelf/internal/repository"
)

// UserService describes user lifecycle operations.
type UserService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, email, password, fullName string, superuser bool) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	EnsureFirstSuperuser(ctx context.Context, email, password string) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// Authenticate validates credentials. An unknown email and a wrong password
// collapse into the same failure; a disabled account is reported separately.
// This is the only place is_active is checked.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: lookup user: %v", ErrInternal, err)
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return sanitizeUser(user), nil
}

// Register persists a new account. The superuser flag is stored verbatim;
// gating registration behind a superuser check is the caller's job.
func (s *userService) Register(ctx context.Context, email, password, fullName string, superuser bool) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", ErrInternal, err)
	}

	user := &domain.User{
		Email:          email,
		HashedPassword: hash,
		FullName:       strings.TrimSpace(fullName),
		IsActive:       true,
		IsSuperuser:    superuser,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrInternal, err)
	}

	return sanitizeUser(user), nil
}

// GetByID resolves an identity by its surrogate key. A disabled account
// still resolves here; only login enforces the is_active flag.
func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: lookup user: %v", ErrInternal, err)
	}
	return sanitizeUser(user), nil
}

// EnsureFirstSuperuser seeds the bootstrap superuser on startup when no
// account with the configured email exists yet.
func (s *userService) EnsureFirstSuperuser(ctx context.Context, email, password string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup superuser: %w", err)
	}

	if _, err := s.Register(ctx, email, password, "", true); err != nil {
		return fmt.Errorf("seed superuser: %w", err)
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.HashedPassword = ""
	return &clean
}
