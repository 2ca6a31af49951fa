package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/infrastructure/mq"
	"ecosprout/pkg/errors"
)

type dealFixture struct {
	*fixture
	items  *ItemUseCase
	deals  *TransactionUseCase
	seller Actor
	buyer  Actor
	item   *ItemView
}

func newDealFixture(t *testing.T) *dealFixture {
	t.Helper()
	f := newFixture()
	d := &dealFixture{fixture: f, items: f.itemUseCase(), deals: f.transactionUseCase()}
	_, d.seller = f.createUser(t, "asha", entity.RoleSeller)
	_, d.buyer = f.createUser(t, "ben", entity.RoleBuyer)

	item, err := d.items.CreateItem(context.Background(), d.seller, sampleItemInput(entity.CategoryElectronics, entity.ConditionExcellent))
	require.NoError(t, err)
	d.item = item
	return d
}

func (d *dealFixture) open(t *testing.T) *entity.Transaction {
	t.Helper()
	tx, err := d.deals.CreateTransaction(context.Background(), d.buyer, CreateTransactionInput{
		ItemID:        d.item.ID,
		PaymentMethod: "upi",
	})
	require.NoError(t, err)
	return tx
}

func (d *dealFixture) move(t *testing.T, actor Actor, id, status string) *entity.Transaction {
	t.Helper()
	tx, err := d.deals.UpdateStatus(context.Background(), actor, id, UpdateTransactionStatusInput{Status: status})
	require.NoError(t, err)
	return tx
}

func TestTransactionUseCase_Create(t *testing.T) {
	d := newDealFixture(t)
	ctx := context.Background()

	tx := d.open(t)
	assert.Equal(t, entity.TransactionPending, tx.Status)
	assert.Equal(t, 450.0, tx.Amount)
	assert.Equal(t, d.seller.UserID, tx.SellerID)
	require.NotNil(t, tx.EcoImpact)
	assert.Equal(t, 44.2, tx.EcoImpact.CO2Saved)

	_, err := d.deals.CreateTransaction(ctx, d.buyer, CreateTransactionInput{ItemID: d.item.ID, PaymentMethod: "cash"})
	assert.True(t, errors.Is(err, "CONFLICT"))

	_, err = d.deals.CreateTransaction(ctx, Actor{UserID: d.seller.UserID, Role: entity.RoleBoth}, CreateTransactionInput{ItemID: d.item.ID, PaymentMethod: "cash"})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = d.deals.CreateTransaction(ctx, d.seller, CreateTransactionInput{ItemID: d.item.ID, PaymentMethod: "cash"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = d.deals.CreateTransaction(ctx, d.buyer, CreateTransactionInput{ItemID: "missing", PaymentMethod: "cash"})
	assert.True(t, errors.IsNotFound(err))
}

func TestTransactionUseCase_CompletionAppliesOnce(t *testing.T) {
	d := newDealFixture(t)
	ctx := context.Background()

	tx := d.open(t)
	d.move(t, d.seller, tx.ID, entity.TransactionConfirmed)
	done := d.move(t, d.buyer, tx.ID, entity.TransactionCompleted)
	assert.NotNil(t, done.CompletedAt)

	seller, err := d.users.GetByID(ctx, d.seller.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, seller.TotalSales)
	assert.Equal(t, 77, seller.TrustScore)
	assert.Equal(t, 44.2, seller.EcoImpact.CO2Saved)
	assert.Equal(t, 1, seller.EcoImpact.ItemsRescued)

	buyer, err := d.users.GetByID(ctx, d.buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, buyer.TotalPurchases)
	assert.Equal(t, 76, buyer.TrustScore)
	assert.Equal(t, 108.8, buyer.EcoImpact.WaterSaved)

	item, err := d.fixture.items.GetByID(ctx, d.item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusSold, item.Status)

	assert.Contains(t, d.events.types(), mq.EventTransactionCompleted)

	// completed is terminal, so nothing can re-apply the stats.
	_, err = d.deals.UpdateStatus(ctx, d.buyer, tx.ID, UpdateTransactionStatusInput{Status: entity.TransactionCompleted})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
	seller, err = d.users.GetByID(ctx, d.seller.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, seller.TotalSales)

	logs, err := d.deals.GetTransactionLogs(ctx, d.buyer, tx.ID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, entity.TransactionConfirmed, logs[1].Status)
	assert.Equal(t, entity.TransactionPending, logs[1].FromStatus)
}

func TestTransactionUseCase_TransitionRules(t *testing.T) {
	d := newDealFixture(t)
	ctx := context.Background()
	tx := d.open(t)

	// Only the seller confirms.
	_, err := d.deals.UpdateStatus(ctx, d.buyer, tx.ID, UpdateTransactionStatusInput{Status: entity.TransactionConfirmed})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// Pending can't jump to completed.
	_, err = d.deals.UpdateStatus(ctx, d.buyer, tx.ID, UpdateTransactionStatusInput{Status: entity.TransactionCompleted})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	stranger := Actor{UserID: "someone-else", Role: entity.RoleBuyer}
	_, err = d.deals.UpdateStatus(ctx, stranger, tx.ID, UpdateTransactionStatusInput{Status: entity.TransactionCancelled})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	d.move(t, d.seller, tx.ID, entity.TransactionConfirmed)
	d.move(t, d.buyer, tx.ID, entity.TransactionDisputed)

	_, err = d.deals.UpdateStatus(ctx, d.buyer, tx.ID, UpdateTransactionStatusInput{Status: entity.TransactionCompleted})
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	admin := Actor{UserID: "admin-1", IsAdmin: true}
	resolved := d.move(t, admin, tx.ID, entity.TransactionCancelled)
	assert.Equal(t, entity.TransactionCancelled, resolved.Status)

	seller, err := d.users.GetByID(ctx, d.seller.UserID)
	require.NoError(t, err)
	assert.Zero(t, seller.TotalSales)
}

func TestTransactionUseCase_ListAndRate(t *testing.T) {
	d := newDealFixture(t)
	ctx := context.Background()
	tx := d.open(t)

	_, err := d.deals.Rate(ctx, d.buyer, tx.ID, RateTransactionInput{Score: 5})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	d.move(t, d.seller, tx.ID, entity.TransactionConfirmed)
	d.move(t, d.buyer, tx.ID, entity.TransactionCompleted)

	rated, err := d.deals.Rate(ctx, d.buyer, tx.ID, RateTransactionInput{Score: 5, Comment: "Smooth pickup"})
	require.NoError(t, err)
	require.NotNil(t, rated.BuyerRating)
	assert.Equal(t, 5, rated.BuyerRating.Score)

	_, err = d.deals.Rate(ctx, d.buyer, tx.ID, RateTransactionInput{Score: 4})
	assert.True(t, errors.Is(err, "CONFLICT"))

	rated, err = d.deals.Rate(ctx, d.seller, tx.ID, RateTransactionInput{Score: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, rated.SellerRating.Score)

	all, total, err := d.deals.ListTransactions(ctx, d.seller, "", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, all, 1)

	_, total, err = d.deals.ListTransactions(ctx, d.seller, "buyer", "", 0, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = d.deals.ListTransactions(ctx, d.seller, "middleman", "", 0, 0)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = d.deals.GetTransactionByID(ctx, Actor{UserID: "stranger"}, tx.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
