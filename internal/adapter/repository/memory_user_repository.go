package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

type memoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*entity.User
	byEmail map[string]string
}

func NewMemoryUserRepository() repository.UserRepository {
	return &memoryUserRepository{
		users:   make(map[string]*entity.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return errors.Conflict("Email already registered")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = email

	r.users[user.ID] = cloneUser(user)
	r.byEmail[email] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(user), nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(r.users[id]), nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *entity.User) error {
	_, err := r.UpdateFunc(ctx, user.ID, func(stored *entity.User) error {
		version := stored.Version
		*stored = *cloneUser(user)
		stored.Version = version
		return nil
	})
	return err
}

func (r *memoryUserRepository) UpdateFunc(ctx context.Context, id string, fn func(user *entity.User) error) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	working := cloneUser(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = id
	working.Email = stored.Email
	working.CreatedAt = stored.CreatedAt
	working.UpdatedAt = time.Now()
	working.Version = stored.Version + 1
	r.users[id] = cloneUser(working)
	return working, nil
}
