package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterAllow_BurstWithinWindow(t *testing.T) {
	limiter := NewLimiter(time.Minute, 3)

	require.True(t, limiter.Allow("key"))
	require.True(t, limiter.Allow("key"))
	require.True(t, limiter.Allow("key"))
	require.False(t, limiter.Allow("key"))

	// independent keys get their own budget
	require.True(t, limiter.Allow("other"))
}

func TestLimiterAllow_WindowRollover(t *testing.T) {
	limiter := NewLimiter(50*time.Millisecond, 1)

	require.True(t, limiter.Allow("key"))
	require.False(t, limiter.Allow("key"))

	time.Sleep(60 * time.Millisecond)
	require.True(t, limiter.Allow("key"))
}

func TestLimiterReset(t *testing.T) {
	limiter := NewLimiter(time.Minute, 1)

	require.True(t, limiter.Allow("key"))
	require.False(t, limiter.Allow("key"))

	limiter.Reset("key")
	require.True(t, limiter.Allow("key"))
}

func TestLimiterAllow_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, limiter.Allow("key"))
	}
}

func TestLimiterAllow_ConcurrentExactBudget(t *testing.T) {
	const workers = 50
	limiter := NewLimiter(time.Minute, 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("key") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 10, allowed)
}
