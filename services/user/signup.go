package user

import (
	"context"
	"errors"
	"strings"
	"time"

	userRepo "parkwise/database/repository/user"
	"parkwise/metrics"
	"parkwise/models"
	"parkwise/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// Register creates a user account and signs the caller in.
func (s *DefaultUserService) Register(ctx context.Context, data models.UserRegistrationData) (*AuthResponse, error) {
	name := strings.TrimSpace(data.Name)
	email := NormalizeEmail(data.Email)
	if err := s.validateRegistration(name, email, data.Password); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if existing != nil {
		return nil, utils.NewValidationError("Email already registered")
	}

	userObj, err := s.newAccount(name, email, data.Password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, userObj); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return nil, utils.NewValidationError("Email already registered")
		}
		return nil, utils.NewInternalError(err)
	}

	metrics.UserRegistrations.Inc()
	utils.GetLogger().Info("User registered", zap.String("userId", userObj.ID), zap.String("email", email))
	return s.issue(userObj)
}

func (s *DefaultUserService) newAccount(name, email, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	now := s.now()
	return &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *DefaultUserService) issue(u *models.User) (*AuthResponse, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, ttl)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return &AuthResponse{Token: token, User: u.Public()}, nil
}
