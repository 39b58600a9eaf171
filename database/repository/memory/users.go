package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	userRepo "parkwise/database/repository/user"
	"parkwise/models"
)

var _ userRepo.UserRepository = (*UserStore)(nil)

// UserStore is an in-memory UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (u *UserStore) Create(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, existing := range u.users {
		if existing.Email == user.Email {
			return userRepo.ErrEmailTaken
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	u.users[user.ID] = *user
	return nil
}

func (u *UserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	for _, user := range u.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (u *UserStore) Search(_ context.Context, role models.Role, term string) ([]models.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	needle := strings.ToLower(term)
	out := []models.User{}
	for _, user := range u.users {
		if user.Role != role {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(user.Name), needle) &&
			!strings.Contains(strings.ToLower(user.Email), needle) {
			continue
		}
		user.PasswordHash = ""
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (u *UserStore) SetBlocked(_ context.Context, id string, blocked bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	user, ok := u.users[id]
	if !ok {
		return userRepo.ErrUserNotFound
	}
	user.IsBlocked = blocked
	user.UpdatedAt = time.Now()
	u.users[id] = user
	return nil
}

func (u *UserStore) CountByBlocked(_ context.Context, role models.Role) (int, int, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	total, blocked := 0, 0
	for _, user := range u.users {
		if user.Role != role {
			continue
		}
		total++
		if user.IsBlocked {
			blocked++
		}
	}
	return total, blocked, nil
}
