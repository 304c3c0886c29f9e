package repository

import (
	"context"
	"fmt"
	"sync"

	"tableside/internal/domain"
	apperrors "tableside/internal/errors"
)

// MemoryUserRepository enforces unique usernames the way the users table's
// unique index does.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	users      map[string]domain.User
	byUsername map[string]string
	ids        []string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:      make(map[string]domain.User),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, userNotFound(id)
	}
	return copyUser(user), nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", username))
	}
	return copyUser(r.users[id]), nil
}

func (r *MemoryUserRepository) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.ids))
	for _, id := range r.ids {
		users = append(users, copyUser(r.users[id]))
	}
	return users, nil
}

func (r *MemoryUserRepository) Insert(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("username %s already exists", user.Username))
	}
	if _, exists := r.users[user.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("user with id %s already exists", user.ID))
	}

	r.users[user.ID] = *copyUser(*user)
	r.byUsername[user.Username] = user.ID
	r.ids = append(r.ids, user.ID)
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return userNotFound(id)
	}
	delete(r.users, id)
	delete(r.byUsername, user.Username)
	for i, v := range r.ids {
		if v == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return nil
}

func copyUser(u domain.User) *domain.User {
	u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &u
}
