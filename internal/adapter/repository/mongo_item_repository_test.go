package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"ecosprout/internal/domain/entity"
)

func TestItemQuery(t *testing.T) {
	lo, hi := 10.0, 50.0
	q := itemQuery(entity.ItemFilter{
		Status:   entity.ItemStatusAvailable,
		Category: entity.CategoryBooks,
		MinPrice: &lo,
		MaxPrice: &hi,
		City:     "beng.",
		Search:   "lamp",
	})

	assert.Equal(t, entity.ItemStatusAvailable, q["status"])
	assert.Equal(t, entity.CategoryBooks, q["category"])
	assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 50.0}, q["price"])
	assert.Equal(t, bson.M{"$regex": `beng\.`, "$options": "i"}, q["location.city"])
	assert.Len(t, q["$or"], 3)
	assert.NotContains(t, q, "condition")
}

func TestItemSort(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "price", Value: -1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}},
		itemSort(entity.SortSpec{Field: "price", Desc: true}))
	assert.Equal(t,
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}},
		itemSort(entity.DefaultSort))
}
