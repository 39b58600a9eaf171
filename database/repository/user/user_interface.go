package userRepo

import (
	"context"
	"errors"

	"parkwise/models"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record. It returns ErrEmailTaken for a duplicate email.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID, or nil when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its (lower-cased) email, or nil when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Search lists users of a role whose name or email contains term, case-insensitively.
	Search(ctx context.Context, role models.Role, term string) ([]models.User, error)
	// SetBlocked toggles the blocked flag. It returns ErrUserNotFound for an unknown ID.
	SetBlocked(ctx context.Context, id string, blocked bool) error
	// CountByBlocked counts users of a role and how many of them are blocked.
	CountByBlocked(ctx context.Context, role models.Role) (total int, blocked int, err error)
}
