package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

const (
	transactionsCollection    = "transactions"
	transactionLogsCollection = "transaction_logs"
)

type firestoreTransactionRepository struct {
	client *firestore.Client
}

func NewFirestoreTransactionRepository(client *firestore.Client) repository.TransactionRepository {
	return &firestoreTransactionRepository{
		client: client,
	}
}

func (r *firestoreTransactionRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(transactionsCollection).Doc(id)
}

func (r *firestoreTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}

	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	_, err := r.doc(transaction.ID).Set(ctx, transaction)
	if err != nil {
		return errors.Internal("Failed to create transaction", err)
	}
	return nil
}

func (r *firestoreTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	doc, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Transaction", err)
		}
		return nil, errors.Internal("Failed to get transaction", err)
	}

	var transaction entity.Transaction
	if err := doc.DataTo(&transaction); err != nil {
		return nil, errors.Internal("Failed to parse transaction data", err)
	}
	return &transaction, nil
}

// List runs one query per side when filtering by party, since a user can be
// either buyer or seller, then merges, sorts newest first and pages in memory.
func (r *firestoreTransactionRepository) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, int64, error) {
	base := r.client.Collection(transactionsCollection).Query
	if filter.Status != "" {
		base = base.Where("status", "==", filter.Status)
	}
	if filter.ItemID != "" {
		base = base.Where("itemId", "==", filter.ItemID)
	}

	var queries []firestore.Query
	switch {
	case filter.BuyerID != "":
		queries = append(queries, base.Where("buyerId", "==", filter.BuyerID))
	case filter.SellerID != "":
		queries = append(queries, base.Where("sellerId", "==", filter.SellerID))
	case filter.PartyID != "":
		queries = append(queries,
			base.Where("buyerId", "==", filter.PartyID),
			base.Where("sellerId", "==", filter.PartyID),
		)
	default:
		queries = append(queries, base)
	}

	seen := make(map[string]bool)
	var matched []*entity.Transaction
	for _, q := range queries {
		iter := q.Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, 0, errors.Internal("Failed to iterate transactions", err)
			}

			var transaction entity.Transaction
			if err := doc.DataTo(&transaction); err != nil {
				iter.Stop()
				return nil, 0, errors.Internal("Failed to parse transaction data", err)
			}
			if seen[transaction.ID] || !filter.Matches(&transaction) {
				continue
			}
			seen[transaction.ID] = true
			matched = append(matched, &transaction)
		}
		iter.Stop()
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginateTransactions(matched, filter.Limit, filter.Offset)
}

func (r *firestoreTransactionRepository) UpdateFunc(ctx context.Context, id string, fn func(transaction *entity.Transaction) error) (*entity.Transaction, error) {
	ref := r.doc(id)
	var result *entity.Transaction

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Transaction", err)
			}
			return err
		}

		var transaction entity.Transaction
		if err := doc.DataTo(&transaction); err != nil {
			return errors.Internal("Failed to parse transaction data", err)
		}
		if err := fn(&transaction); err != nil {
			return err
		}
		transaction.ID = id
		transaction.UpdatedAt = time.Now()
		transaction.Version++

		result = &transaction
		return tx.Set(ref, &transaction)
	})
	if err != nil {
		return nil, wrapTxError("Failed to update transaction", err)
	}
	return result, nil
}

func (r *firestoreTransactionRepository) CreateLog(ctx context.Context, log *entity.TransactionLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	log.CreatedAt = time.Now()

	_, err := r.client.Collection(transactionLogsCollection).Doc(log.ID).Set(ctx, log)
	if err != nil {
		return errors.Internal("Failed to create transaction log", err)
	}
	return nil
}

func (r *firestoreTransactionRepository) ListLogsByTransactionID(ctx context.Context, transactionID string) ([]*entity.TransactionLog, error) {
	query := r.client.Collection(transactionLogsCollection).
		Where("transactionId", "==", transactionID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var logs []*entity.TransactionLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate transaction logs", err)
		}

		var log entity.TransactionLog
		if err := doc.DataTo(&log); err != nil {
			return nil, errors.Internal("Failed to parse transaction log data", err)
		}
		logs = append(logs, &log)
	}
	return logs, nil
}
