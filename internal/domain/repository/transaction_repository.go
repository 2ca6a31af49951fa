package repository

import (
	"context"

	"ecosprout/internal/domain/entity"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, int64, error)
	UpdateFunc(ctx context.Context, id string, fn func(transaction *entity.Transaction) error) (*entity.Transaction, error)

	CreateLog(ctx context.Context, log *entity.TransactionLog) error
	ListLogsByTransactionID(ctx context.Context, transactionID string) ([]*entity.TransactionLog, error)
}
