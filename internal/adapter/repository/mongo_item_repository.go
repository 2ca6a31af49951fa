package repository

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

type mongoItemRepository struct {
	coll *mongo.Collection
}

func NewMongoItemRepository(db *mongo.Database) repository.ItemRepository {
	return &mongoItemRepository{
		coll: db.Collection(itemsCollection),
	}
}

// Array fields must never be stored as null or $addToSet/$push fail on them.
func normalizeItemArrays(item *entity.Item) {
	if item.Images == nil {
		item.Images = []entity.ItemImage{}
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if item.Favorites == nil {
		item.Favorites = []string{}
	}
}

func (r *mongoItemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	normalizeItemArrays(item)

	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return errors.Internal("Failed to create item", err)
	}
	return nil
}

func (r *mongoItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	var item entity.Item
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Item", err)
		}
		return nil, errors.Internal("Failed to get item", err)
	}
	return &item, nil
}

func itemQuery(f entity.ItemFilter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.SellerID != "" {
		q["sellerId"] = f.SellerID
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Condition != "" {
		q["condition"] = f.Condition
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		q["price"] = price
	}
	if f.City != "" {
		q["location.city"] = bson.M{"$regex": regexp.QuoteMeta(f.City), "$options": "i"}
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}
	return q
}

func itemSort(s entity.SortSpec) bson.D {
	dir := 1
	if s.Desc {
		dir = -1
	}
	sort := bson.D{{Key: s.Field, Value: dir}}
	if s.Field != "createdAt" {
		sort = append(sort, bson.E{Key: "createdAt", Value: -1})
	}
	return append(sort, bson.E{Key: "_id", Value: 1})
}

func (r *mongoItemRepository) List(ctx context.Context, filter entity.ItemFilter) ([]*entity.Item, int64, error) {
	filter = filter.Normalize()
	q := itemQuery(filter)

	total, err := r.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count items", err)
	}
	if filter.Offset < 0 || int64(filter.Offset) >= total {
		return []*entity.Item{}, total, nil
	}

	opts := options.Find().SetSort(itemSort(filter.Sort)).SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Sort.Field == "title" {
		opts.SetCollation(&options.Collation{Locale: "en", Strength: 2})
	}

	items, err := r.find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *mongoItemRepository) find(ctx context.Context, q bson.M, opts ...*options.FindOptions) ([]*entity.Item, error) {
	cur, err := r.coll.Find(ctx, q, opts...)
	if err != nil {
		return nil, errors.Internal("Failed to query items", err)
	}
	defer cur.Close(ctx)

	items := []*entity.Item{}
	for cur.Next(ctx) {
		var item entity.Item
		if err := cur.Decode(&item); err != nil {
			return nil, errors.Internal("Failed to parse item data", err)
		}
		items = append(items, &item)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Internal("Failed to iterate items", err)
	}
	return items, nil
}

// UpdateFunc is optimistic: the replace only lands if the version is unchanged
// since the read, otherwise it re-reads and retries. Every atomic update in
// this file bumps the version so counters are never overwritten.
func (r *mongoItemRepository) UpdateFunc(ctx context.Context, id string, fn func(item *entity.Item) error) (*entity.Item, error) {
	for attempt := 0; attempt < optimisticRetries; attempt++ {
		item, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		version := item.Version
		if err := fn(item); err != nil {
			return nil, err
		}
		item.ID = id
		item.UpdatedAt = time.Now()
		item.Version = version + 1
		normalizeItemArrays(item)

		res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id, "version": version}, item)
		if err != nil {
			return nil, errors.Internal("Failed to update item", err)
		}
		if res.MatchedCount == 1 {
			return item, nil
		}
	}
	return nil, errors.Conflict("Item was modified concurrently, please retry")
}

func (r *mongoItemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Internal("Failed to delete item", err)
	}
	if res.DeletedCount == 0 {
		return errors.NotFound("Item", nil)
	}
	return nil
}

func (r *mongoItemRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1, "version": 1}})
	if err != nil {
		return errors.Internal("Failed to increment item views", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("Item", nil)
	}
	return nil
}

// ToggleFavorite tries the add with a filter that only matches when the user
// is absent, then the removal with one that only matches when present. Each
// is a single atomic update, so concurrent toggles never lose a flip.
func (r *mongoItemRepository) ToggleFavorite(ctx context.Context, id, userID string) (bool, error) {
	for attempt := 0; attempt < optimisticRetries; attempt++ {
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": id, "favorites": bson.M{"$ne": userID}},
			bson.M{"$addToSet": bson.M{"favorites": userID}, "$inc": bson.M{"version": 1}},
		)
		if err != nil {
			return false, errors.Internal("Failed to toggle favorite", err)
		}
		if res.MatchedCount == 1 {
			return true, nil
		}

		res, err = r.coll.UpdateOne(ctx,
			bson.M{"_id": id, "favorites": userID},
			bson.M{"$pull": bson.M{"favorites": userID}, "$inc": bson.M{"version": 1}},
		)
		if err != nil {
			return false, errors.Internal("Failed to toggle favorite", err)
		}
		if res.MatchedCount == 1 {
			return false, nil
		}

		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return false, errors.Internal("Failed to toggle favorite", err)
		}
		if n == 0 {
			return false, errors.NotFound("Item", nil)
		}
	}
	return false, errors.Conflict("Favorite was modified concurrently, please retry")
}

func (r *mongoItemRepository) AddImage(ctx context.Context, id string, image entity.ItemImage) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"images": image},
		"$set":  bson.M{"updatedAt": time.Now()},
		"$inc":  bson.M{"version": 1},
	})
	if err != nil {
		return errors.Internal("Failed to add item image", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("Item", nil)
	}
	return nil
}

func (r *mongoItemRepository) ListUnscored(ctx context.Context) ([]*entity.Item, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"ecoScore": 0},
		bson.M{"ecoScore": bson.M{"$exists": false}},
	}})
}
