package user

import (
	"context"
	"time"

	userRepo "parkwise/database/repository/user"
	"parkwise/models"
)

type UserService interface {
	// Registration and authentication
	Register(ctx context.Context, data models.UserRegistrationData) (*AuthResponse, error)
	Login(ctx context.Context, data models.UserLoginData) (*AuthResponse, error)
	Verify(ctx context.Context, token string) (*models.User, error)

	// Lookups
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// Bootstrap
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo              userRepo.UserRepository
	MinPasswordLength int
	TokenTTL          time.Duration
	Now               func() time.Time
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func (s *DefaultUserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
