package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterBlocksOverMax(t *testing.T) {
	l := NewLimiter(Config{Window: time.Minute, Max: 5})
	defer l.Close()

	for i := 0; i < 5; i++ {
		result := l.Check("10.0.0.1")
		require.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 4-i, result.Remaining)
	}

	result := l.Check("10.0.0.1")
	require.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfterSeconds(), 0)
	assert.LessOrEqual(t, result.RetryAfter, time.Minute)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := NewLimiter(Config{Window: time.Minute, Max: 2})
	defer l.Close()

	l.Check("10.0.0.1")
	l.Check("10.0.0.1")
	require.False(t, l.Check("10.0.0.1").Allowed)

	assert.True(t, l.Check("10.0.0.2").Allowed)
}

func TestLimiterWindowResets(t *testing.T) {
	l := NewLimiter(Config{Window: 30 * time.Millisecond, Max: 1})
	defer l.Close()

	require.True(t, l.Check("k").Allowed)
	require.False(t, l.Check("k").Allowed)

	time.Sleep(40 * time.Millisecond)
	assert.True(t, l.Check("k").Allowed, "fresh window should admit requests again")
}

func TestRetryAfterSecondsNeverZeroWhenBlocked(t *testing.T) {
	l := NewLimiter(Config{Window: 100 * time.Millisecond, Max: 1})
	defer l.Close()

	l.Check("k")
	result := l.Check("k")
	require.False(t, result.Allowed)
	// Sub-second remainders still round up to a usable Retry-After.
	assert.Equal(t, 1, result.RetryAfterSeconds())
}

func TestSweepDropsElapsedBuckets(t *testing.T) {
	l := NewLimiter(Config{Window: 10 * time.Millisecond, Max: 5})
	defer l.Close()

	for i := 0; i < 10; i++ {
		l.Check(fmt.Sprintf("key-%d", i))
	}
	l.mu.Lock()
	require.Len(t, l.buckets, 10)
	l.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	l.sweep()

	l.mu.Lock()
	assert.Empty(t, l.buckets)
	l.mu.Unlock()
}

func TestSweepKeepsLiveBuckets(t *testing.T) {
	l := NewLimiter(Config{Window: time.Minute, Max: 5})
	defer l.Close()

	l.Check("live")
	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Contains(t, l.buckets, "live")
}
