package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMaxKeys = 65536

type window struct {
	start time.Time
	count int
}

// Limiter is a fixed-window counter keyed by an arbitrary string
// (email pair, client IP). Idle keys are evicted by the underlying
// expirable LRU so memory stays bounded under key churn.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	burst   int
	entries *expirable.LRU[string, *window]
}

func NewLimiter(windowSize time.Duration, burst int) *Limiter {
	return &Limiter{
		window:  windowSize,
		burst:   burst,
		entries: expirable.NewLRU[string, *window](defaultMaxKeys, nil, windowSize),
	}
}

// Allow records one request for key and reports whether it fits the
// current window.
func (l *Limiter) Allow(key string) bool {
	if l.window <= 0 || l.burst <= 0 {
		return true
	}
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries.Get(key)
	if !ok || now.Sub(entry.start) >= l.window {
		l.entries.Add(key, &window{start: now, count: 1})
		return true
	}
	if entry.count >= l.burst {
		return false
	}
	entry.count++
	return true
}

// Reset clears the window for key; the next Allow starts a fresh one.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries.Remove(key)
}
