package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
)

type mongoTransactionRepository struct {
	coll *mongo.Collection
	logs *mongo.Collection
}

func NewMongoTransactionRepository(db *mongo.Database) repository.TransactionRepository {
	return &mongoTransactionRepository{
		coll: db.Collection(transactionsCollection),
		logs: db.Collection(transactionLogsCollection),
	}
}

func (r *mongoTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, transaction); err != nil {
		return errors.Internal("Failed to create transaction", err)
	}
	return nil
}

func (r *mongoTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var transaction entity.Transaction
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&transaction); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NotFound("Transaction", err)
		}
		return nil, errors.Internal("Failed to get transaction", err)
	}
	return &transaction, nil
}

func (r *mongoTransactionRepository) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, int64, error) {
	q := bson.M{}
	if filter.ItemID != "" {
		q["itemId"] = filter.ItemID
	}
	if filter.BuyerID != "" {
		q["buyerId"] = filter.BuyerID
	}
	if filter.SellerID != "" {
		q["sellerId"] = filter.SellerID
	}
	if filter.PartyID != "" {
		q["$or"] = bson.A{bson.M{"buyerId": filter.PartyID}, bson.M{"sellerId": filter.PartyID}}
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}

	total, err := r.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, errors.Internal("Failed to count transactions", err)
	}
	if filter.Offset < 0 || int64(filter.Offset) >= total {
		return []*entity.Transaction{}, total, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, errors.Internal("Failed to query transactions", err)
	}
	defer cur.Close(ctx)

	transactions := []*entity.Transaction{}
	if err := cur.All(ctx, &transactions); err != nil {
		return nil, 0, errors.Internal("Failed to parse transaction data", err)
	}
	return transactions, total, nil
}

func (r *mongoTransactionRepository) UpdateFunc(ctx context.Context, id string, fn func(transaction *entity.Transaction) error) (*entity.Transaction, error) {
	for attempt := 0; attempt < optimisticRetries; attempt++ {
		transaction, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		version := transaction.Version
		if err := fn(transaction); err != nil {
			return nil, err
		}
		transaction.ID = id
		transaction.UpdatedAt = time.Now()
		transaction.Version = version + 1

		res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id, "version": version}, transaction)
		if err != nil {
			return nil, errors.Internal("Failed to update transaction", err)
		}
		if res.MatchedCount == 1 {
			return transaction, nil
		}
	}
	return nil, errors.Conflict("Transaction was modified concurrently, please retry")
}

func (r *mongoTransactionRepository) CreateLog(ctx context.Context, log *entity.TransactionLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.CreatedAt = time.Now()

	if _, err := r.logs.InsertOne(ctx, log); err != nil {
		return errors.Internal("Failed to create transaction log", err)
	}
	return nil
}

func (r *mongoTransactionRepository) ListLogsByTransactionID(ctx context.Context, transactionID string) ([]*entity.TransactionLog, error) {
	cur, err := r.logs.Find(ctx, bson.M{"transactionId": transactionID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, errors.Internal("Failed to query transaction logs", err)
	}
	defer cur.Close(ctx)

	logs := []*entity.TransactionLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, errors.Internal("Failed to parse transaction log data", err)
	}
	return logs, nil
}
