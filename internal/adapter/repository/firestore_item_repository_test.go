package repository

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
)

func TestFavoriteUpdate(t *testing.T) {
	add := favoriteUpdate("user-1", true)
	assert.Equal(t, "favorites", add.Path)
	assert.Equal(t, firestore.ArrayUnion("user-1"), add.Value)

	remove := favoriteUpdate("user-1", false)
	assert.Equal(t, "favorites", remove.Path)
	assert.Equal(t, firestore.ArrayRemove("user-1"), remove.Value)
	assert.NotEqual(t, add.Value, remove.Value)
}
