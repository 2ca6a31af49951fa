package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

type memoryItemRepository struct {
	mu    sync.RWMutex
	items map[string]*entity.Item
}

func NewMemoryItemRepository() repository.ItemRepository {
	return &memoryItemRepository{
		items: make(map[string]*entity.Item),
	}
}

func (r *memoryItemRepository) Create(ctx context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *memoryItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	return cloneItem(item), nil
}

func (r *memoryItemRepository) List(ctx context.Context, filter entity.ItemFilter) ([]*entity.Item, int64, error) {
	r.mu.RLock()
	candidates := make([]*entity.Item, 0, len(r.items))
	for _, item := range r.items {
		candidates = append(candidates, cloneItem(item))
	}
	r.mu.RUnlock()

	page, total := entity.FilterAndPage(candidates, filter)
	return page, total, nil
}

func (r *memoryItemRepository) UpdateFunc(ctx context.Context, id string, fn func(item *entity.Item) error) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	working := cloneItem(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = id
	working.UpdatedAt = time.Now()
	working.Version = stored.Version + 1
	r.items[id] = cloneItem(working)
	return working, nil
}

func (r *memoryItemRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return errors.NotFound("Item", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *memoryItemRepository) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return errors.NotFound("Item", nil)
	}
	item.Views++
	return nil
}

func (r *memoryItemRepository) ToggleFavorite(ctx context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return false, errors.NotFound("Item", nil)
	}
	return item.ToggleFavorite(userID), nil
}

func (r *memoryItemRepository) AddImage(ctx context.Context, id string, image entity.ItemImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return errors.NotFound("Item", nil)
	}
	item.Images = append(item.Images, image)
	item.UpdatedAt = time.Now()
	return nil
}

func (r *memoryItemRepository) ListUnscored(ctx context.Context) ([]*entity.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.Item
	for _, item := range r.items {
		if item.EcoScore == 0 {
			out = append(out, cloneItem(item))
		}
	}
	return out, nil
}
