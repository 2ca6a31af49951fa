package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	raw, exp, err := m.Issue("user-1", "seller", true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "seller", claims.Role)
	assert.True(t, claims.Admin)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	raw, _, err := NewTokenManager("secret-a", time.Hour).Issue("user-1", "buyer", false)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, _, err := m.Issue("user-1", "buyer", false)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHasher(t *testing.T) {
	h := PasswordHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, h.Compare(hash, "hunter22"))
	assert.False(t, h.Compare(hash, "hunter23"))
}
