package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsBurstThenThrottles(t *testing.T) {
	rl := NewRateLimiter(5) // burst of 10
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		assert.True(t, rl.allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, rl.allow("10.0.0.1"))
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(5)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		rl.allow("10.0.0.1")
	}
	assert.False(t, rl.allow("10.0.0.1"))

	now = now.Add(time.Second) // refills 5 tokens
	for i := 0; i < 5; i++ {
		assert.True(t, rl.allow("10.0.0.1"), "request %d after refill", i)
	}
	assert.False(t, rl.allow("10.0.0.1"))
}

func TestRateLimiter_PerClientBuckets(t *testing.T) {
	rl := NewRateLimiter(1) // burst of 2
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))

	assert.True(t, rl.allow("10.0.0.2"))
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(5)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")
	assert.Len(t, rl.buckets, 2)

	now = now.Add(10 * time.Minute)
	rl.allow("10.0.0.3")
	assert.Len(t, rl.buckets, 1)
}
