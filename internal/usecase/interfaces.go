package usecase

import (
	"context"
	"time"

	"ecosprout/internal/infrastructure/digilocker"
)

// EventPublisher emits domain events. Publishing is best-effort: callers log
// failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// ListingInvalidator drops cached listing pages after an item mutation.
type ListingInvalidator interface {
	Invalidate(ctx context.Context)
}

type TokenIssuer interface {
	Issue(userID, role string, admin bool) (string, time.Time, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// DocumentVerifier is the identity document provider behind DigiLocker verification.
type DocumentVerifier interface {
	AuthorizationRequest(ctx context.Context, documentType string) (digilocker.AuthRequest, error)
	FetchDocument(ctx context.Context, code, documentType, holderName string) (*digilocker.Document, error)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, interface{}) error { return nil }

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}
