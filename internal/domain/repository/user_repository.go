package repository

import (
	"context"

	"ecosprout/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateFunc(ctx context.Context, id string, fn func(user *entity.User) error) (*entity.User, error)
}
