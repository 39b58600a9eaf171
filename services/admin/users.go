package admin

import (
	"context"
	"errors"
	"strings"

	userRepo "parkwise/database/repository/user"
	"parkwise/models"
	"parkwise/utils"

	"go.uber.org/zap"
)

// ListUsers lists regular accounts, optionally filtered by a name or email fragment.
func (a *DefaultAdminService) ListUsers(ctx context.Context, search string) ([]models.User, error) {
	users, err := a.Users.Search(ctx, models.RoleUser, strings.TrimSpace(search))
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return users, nil
}

// SetBlocked blocks or unblocks a regular account. A blocked user's active slot is left
// untouched.
func (a *DefaultAdminService) SetBlocked(ctx context.Context, userID string, blocked bool) (*models.User, error) {
	u, err := a.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if u == nil {
		return nil, utils.NewNotFoundError("User not found")
	}
	if u.Role == models.RoleAdmin {
		return nil, utils.NewForbiddenError("Admin accounts cannot be blocked")
	}

	if err := a.Users.SetBlocked(ctx, userID, blocked); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, utils.NewNotFoundError("User not found")
		}
		return nil, utils.NewInternalError(err)
	}
	u.IsBlocked = blocked

	utils.GetLogger().Info("User block status changed", zap.String("userId", userID), zap.Bool("blocked", blocked))
	return u, nil
}
