package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		coll: db.Collection(usersCollection),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(user.Email)
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Badges == nil {
		user.Badges = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Conflict("Email already registered")
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *mongoUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("User", nil)
	}
	return nil
}

func (r *mongoUserRepository) UpdateFunc(ctx context.Context, id string, fn func(user *entity.User) error) (*entity.User, error) {
	for attempt := 0; attempt < optimisticRetries; attempt++ {
		user, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		version, email, createdAt := user.Version, user.Email, user.CreatedAt
		if err := fn(user); err != nil {
			return nil, err
		}
		user.ID = id
		user.Email = email
		user.CreatedAt = createdAt
		user.UpdatedAt = time.Now()
		user.Version = version + 1

		res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id, "version": version}, user)
		if err != nil {
			return nil, errors.Internal("Failed to update user", err)
		}
		if res.MatchedCount == 1 {
			return user, nil
		}
	}
	return nil, errors.Conflict("User was modified concurrently, please retry")
}
