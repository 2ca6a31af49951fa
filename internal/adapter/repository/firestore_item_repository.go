package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

const itemsCollection = "items"

type firestoreItemRepository struct {
	client *firestore.Client
}

func NewFirestoreItemRepository(client *firestore.Client) repository.ItemRepository {
	return &firestoreItemRepository{
		client: client,
	}
}

func (r *firestoreItemRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(itemsCollection).Doc(id)
}

func (r *firestoreItemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = r.client.Collection(itemsCollection).NewDoc().ID
	}

	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := r.doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create item", err)
	}
	return nil
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	doc, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Item", err)
		}
		return nil, errors.Internal("Failed to get item", err)
	}

	var item entity.Item
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse item data", err)
	}
	return &item, nil
}

// List pushes equality filters down to Firestore and applies the price range,
// city match, text search, sort and pagination in memory. Firestore has no
// substring or full-text operators.
func (r *firestoreItemRepository) List(ctx context.Context, filter entity.ItemFilter) ([]*entity.Item, int64, error) {
	filter = filter.Normalize()
	query := r.client.Collection(itemsCollection).Query

	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.Condition != "" {
		query = query.Where("condition", "==", filter.Condition)
	}

	candidates, err := r.collect(query.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}

	page, total := entity.FilterAndPage(candidates, filter)
	return page, total, nil
}

func (r *firestoreItemRepository) collect(iter *firestore.DocumentIterator) ([]*entity.Item, error) {
	defer iter.Stop()

	var items []*entity.Item
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate items", err)
		}
		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return nil, errors.Internal("Failed to parse item data", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

func (r *firestoreItemRepository) UpdateFunc(ctx context.Context, id string, fn func(item *entity.Item) error) (*entity.Item, error) {
	ref := r.doc(id)
	var result *entity.Item

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Item", err)
			}
			return err
		}

		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return errors.Internal("Failed to parse item data", err)
		}
		if err := fn(&item); err != nil {
			return err
		}
		item.ID = id
		item.UpdatedAt = time.Now()
		item.Version++

		result = &item
		return tx.Set(ref, &item)
	})
	if err != nil {
		return nil, wrapTxError("Failed to update item", err)
	}
	return result, nil
}

func (r *firestoreItemRepository) Delete(ctx context.Context, id string) error {
	_, err := r.doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Item", err)
		}
		return errors.Internal("Failed to delete item", err)
	}
	return nil
}

func (r *firestoreItemRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Item", err)
		}
		return errors.Internal("Failed to increment item views", err)
	}
	return nil
}

func (r *firestoreItemRepository) ToggleFavorite(ctx context.Context, id, userID string) (bool, error) {
	ref := r.doc(id)
	var added bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Item", err)
			}
			return err
		}

		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return errors.Internal("Failed to parse item data", err)
		}

		added = !item.HasFavorite(userID)
		return tx.Update(ref, []firestore.Update{favoriteUpdate(userID, added)})
	})
	if err != nil {
		return false, wrapTxError("Failed to toggle favorite", err)
	}
	return added, nil
}

// favoriteUpdate adds or removes userID from the favorites array server side.
func favoriteUpdate(userID string, add bool) firestore.Update {
	var change interface{} = firestore.ArrayRemove(userID)
	if add {
		change = firestore.ArrayUnion(userID)
	}
	return firestore.Update{Path: "favorites", Value: change}
}

func (r *firestoreItemRepository) AddImage(ctx context.Context, id string, image entity.ItemImage) error {
	_, err := r.doc(id).Update(ctx, []firestore.Update{
		{Path: "images", Value: firestore.ArrayUnion(image)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Item", err)
		}
		return errors.Internal("Failed to add item image", err)
	}
	return nil
}

func (r *firestoreItemRepository) ListUnscored(ctx context.Context) ([]*entity.Item, error) {
	return r.collect(r.client.Collection(itemsCollection).Where("ecoScore", "==", 0).Documents(ctx))
}
