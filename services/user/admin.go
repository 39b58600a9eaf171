package user

import (
	"context"

	"parkwise/models"
	"parkwise/utils"

	"go.uber.org/zap"
)

// EnsureAdmin creates the bootstrap admin account unless the email is already taken.
// It reports whether an account was created.
func (s *DefaultUserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	admin, err := s.newAccount(name, email, password, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.Repo.Create(ctx, admin); err != nil {
		return false, err
	}
	utils.GetLogger().Info("Seeded admin account", zap.String("email", email))
	return true, nil
}
