package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ecosprout/internal/adapter/repository"
	"ecosprout/internal/domain/entity"
	domainrepo "ecosprout/internal/domain/repository"
	"ecosprout/internal/infrastructure/auth"
)

type recordedEvent struct {
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: payload})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return fmt.Sprintf("https://cdn.test/%s", key), nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memoryStorage) Close() error { return nil }

type fixture struct {
	items        domainrepo.ItemRepository
	users        domainrepo.UserRepository
	transactions domainrepo.TransactionRepository
	events       *recordingPublisher
	cache        *countingInvalidator
	storage      *memoryStorage
}

func newFixture() *fixture {
	return &fixture{
		items:        repository.NewMemoryItemRepository(),
		users:        repository.NewMemoryUserRepository(),
		transactions: repository.NewMemoryTransactionRepository(),
		events:       &recordingPublisher{},
		cache:        &countingInvalidator{},
		storage:      newMemoryStorage(),
	}
}

func (f *fixture) itemUseCase() *ItemUseCase {
	return NewItemUseCase(f.items, f.users, f.storage, f.events, f.cache)
}

func (f *fixture) transactionUseCase() *TransactionUseCase {
	return NewTransactionUseCase(f.transactions, f.items, f.users, f.events, f.cache)
}

func testHasher() auth.PasswordHasher {
	return auth.PasswordHasher{Cost: bcrypt.MinCost}
}

func (f *fixture) createUser(t *testing.T, name, role string) (*entity.User, Actor) {
	t.Helper()
	user := &entity.User{
		Name:       name,
		Email:      name + "@example.com",
		Role:       role,
		TrustScore: entity.DefaultTrustScore,
		EcoPoints:  entity.DefaultEcoPoints,
		Badges:     []string{entity.BadgeNewcomer},
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user, Actor{UserID: user.ID, Role: user.Role}
}

func price(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func sampleItemInput(category, condition string) CreateItemInput {
	return CreateItemInput{
		Title:       "Refurbished laptop",
		Description: "Lightly used, battery holds a full day",
		Category:    category,
		Condition:   condition,
		Price:       price(450),
		Location: LocationInput{
			Address: "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
		},
		Tags: []string{"Laptop", " laptop ", "work"},
	}
}
