package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainrepo "ecosprout/internal/domain/repository"
	"ecosprout/internal/domain/entity"
	"ecosprout/pkg/config"
	"ecosprout/pkg/logger"
)

func TestOpenStoreMemory(t *testing.T) {
	logger.SetOutput(io.Discard)
	ctx := context.Background()

	st, err := openStore(ctx, config.DatabaseConfig{Driver: "memory"})
	require.NoError(t, err)
	defer st.close()

	var (
		users        domainrepo.UserRepository        = st.users
		items        domainrepo.ItemRepository        = st.items
		transactions domainrepo.TransactionRepository = st.transactions
	)
	require.NotNil(t, users)
	require.NotNil(t, transactions)
	assert.NoError(t, st.ping(ctx))

	item := &entity.Item{SellerID: "seller-1", Title: "Desk lamp", Category: entity.CategoryHome, Condition: entity.ConditionGood, Price: 300}
	require.NoError(t, items.Create(ctx, item))

	got, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", got.Title)
}

func TestOpenStoreUnsupportedDriver(t *testing.T) {
	_, err := openStore(context.Background(), config.DatabaseConfig{Driver: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "postgres"`)
}
