package repository

import (
	"context"

	"ecosprout/internal/domain/entity"
)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, filter entity.ItemFilter) ([]*entity.Item, int64, error)
	// UpdateFunc applies fn to the latest stored copy and saves it atomically.
	UpdateFunc(ctx context.Context, id string, fn func(item *entity.Item) error) (*entity.Item, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	// ToggleFavorite flips userID in the favorites set and reports whether it was added.
	ToggleFavorite(ctx context.Context, id, userID string) (bool, error)
	AddImage(ctx context.Context, id string, image entity.ItemImage) error
	ListUnscored(ctx context.Context) ([]*entity.Item, error)
}
