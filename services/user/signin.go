package user

import (
	"context"

	"parkwise/models"
	"parkwise/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	errInvalidCredentials = utils.NewUnauthorizedError("Invalid email or password")
	errInvalidToken       = utils.NewUnauthorizedError("Invalid or expired token")
	errAccountBlocked     = utils.NewForbiddenError("Your account has been blocked")
)

// Login checks credentials. Unknown email and wrong password fail identically.
func (s *DefaultUserService) Login(ctx context.Context, data models.UserLoginData) (*AuthResponse, error) {
	email := NormalizeEmail(data.Email)
	if email == "" || data.Password == "" {
		return nil, utils.NewValidationError("Email and password are required")
	}

	userRec, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if userRec == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(data.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	if userRec.IsBlocked {
		utils.GetLogger().Info("Blocked user attempted login", zap.String("userId", userRec.ID))
		return nil, errAccountBlocked
	}

	utils.GetLogger().Info("User logged in", zap.String("userId", userRec.ID), zap.String("role", string(userRec.Role)))
	return s.issue(userRec)
}

// Verify validates a bearer token and re-reads the account it names. Blocked accounts
// are refused even with a token issued before the block.
func (s *DefaultUserService) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ValidateToken(token)
	if err != nil {
		return nil, errInvalidToken
	}

	userRec, err := s.Repo.GetByID(ctx, claims.ID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if userRec == nil {
		return nil, utils.NewUnauthorizedError("User not found")
	}
	if userRec.IsBlocked {
		return nil, errAccountBlocked
	}
	return userRec, nil
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	userRec, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if userRec == nil {
		return nil, utils.NewNotFoundError("User not found")
	}
	return userRec, nil
}
