package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_BurstThenBlock(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		assert.True(t, ok, "request %d", i)
	}

	ok, wait := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	// other keys have their own bucket
	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok)

	fixed = fixed.Add(time.Second)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	fixed := time.Now()
	rl.now = func() time.Time { return fixed }

	rl.Allow("a")
	rl.Allow("b")
	assert.Equal(t, 2, rl.size())

	fixed = fixed.Add(2 * time.Hour)
	rl.Allow("b")
	rl.Cleanup()
	assert.Equal(t, 1, rl.size())
}
