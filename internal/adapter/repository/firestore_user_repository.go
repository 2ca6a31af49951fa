package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

const usersCollection = "users"

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(id)
}

// Create checks the email inside the same transaction that writes the user,
// so two concurrent registrations for one address can't both succeed.
func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	user.Email = strings.ToLower(user.Email)
	if user.ID == "" {
		user.ID = r.client.Collection(usersCollection).NewDoc().ID
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := r.client.Collection(usersCollection).Where("email", "==", user.Email).Limit(1)
		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return errors.Conflict("Email already registered")
		}
		return tx.Create(r.doc(user.ID), user)
	})
	if err != nil {
		return wrapTxError("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	iter := r.client.Collection(usersCollection).Where("email", "==", strings.ToLower(email)).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("User", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get user by email", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	_, err := r.doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) UpdateFunc(ctx context.Context, id string, fn func(user *entity.User) error) (*entity.User, error) {
	ref := r.doc(id)
	var result *entity.User

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("User", err)
			}
			return err
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}
		email, createdAt := user.Email, user.CreatedAt
		if err := fn(&user); err != nil {
			return err
		}
		user.ID = id
		user.Email = email
		user.CreatedAt = createdAt
		user.UpdatedAt = time.Now()
		user.Version++

		result = &user
		return tx.Set(ref, &user)
	})
	if err != nil {
		return nil, wrapTxError("Failed to update user", err)
	}
	return result, nil
}
