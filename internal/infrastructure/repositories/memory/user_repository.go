package memory

import (
	"context"
	"sync"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
)

type MemoryUserRepository struct {
	users      map[domain.UserID]*domain.User
	byUsername map[string]domain.UserID
	byEmail    map[string]domain.UserID
	mu         sync.RWMutex
}

func NewMemoryUserRepository() ports.UserRepository {
	return &MemoryUserRepository{
		users:      make(map[domain.UserID]*domain.User),
		byUsername: make(map[string]domain.UserID),
		byEmail:    make(map[string]domain.UserID),
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return domain.ErrUserExists
	}
	if _, exists := r.byUsername[user.Username]; exists {
		return domain.ErrUserExists
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrUserExists
	}

	r.users[user.ID] = user
	r.byUsername[user.Username] = user.ID
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	return user, nil
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byUsername[username]
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	return r.users[id], nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[email]
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	return r.users[id], nil
}
