package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

type memoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*entity.Transaction
	logs         []*entity.TransactionLog
}

func NewMemoryTransactionRepository() repository.TransactionRepository {
	return &memoryTransactionRepository{
		transactions: make(map[string]*entity.Transaction),
	}
}

func (r *memoryTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	now := time.Now()
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = now
	}
	transaction.UpdatedAt = now

	r.transactions[transaction.ID] = cloneTransaction(transaction)
	return nil
}

func (r *memoryTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.transactions[id]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	return cloneTransaction(tx), nil
}

func (r *memoryTransactionRepository) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, int64, error) {
	r.mu.RLock()
	var matched []*entity.Transaction
	for _, tx := range r.transactions {
		if filter.Matches(tx) {
			matched = append(matched, cloneTransaction(tx))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginateTransactions(matched, filter.Limit, filter.Offset)
}

func paginateTransactions(all []*entity.Transaction, limit, offset int) ([]*entity.Transaction, int64, error) {
	total := int64(len(all))
	if offset < 0 || offset >= len(all) {
		return []*entity.Transaction{}, total, nil
	}
	end := len(all)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *memoryTransactionRepository) UpdateFunc(ctx context.Context, id string, fn func(transaction *entity.Transaction) error) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.transactions[id]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	working := cloneTransaction(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ID = id
	working.UpdatedAt = time.Now()
	working.Version = stored.Version + 1
	r.transactions[id] = cloneTransaction(working)
	return working, nil
}

func (r *memoryTransactionRepository) CreateLog(ctx context.Context, log *entity.TransactionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	l := *log
	r.logs = append(r.logs, &l)
	return nil
}

func (r *memoryTransactionRepository) ListLogsByTransactionID(ctx context.Context, transactionID string) ([]*entity.TransactionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.TransactionLog
	for _, l := range r.logs {
		if l.TransactionID == transactionID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}
