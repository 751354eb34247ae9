package ratelimit

import (
	"math"
	"sync"
	"time"
)

type Config struct {
	Window time.Duration // fixed window length
	Max    int           // requests allowed per window per key
	// Sweep is how often expired buckets are purged. Zero disables the
	// background sweeper (tests).
	Sweep time.Duration
}

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // zero when allowed
}

// RetryAfterSeconds reports the whole seconds until the window resets,
// never less than 1 for a blocked result.
func (r Result) RetryAfterSeconds() int {
	if r.Allowed {
		return 0
	}
	secs := int(math.Ceil(r.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

type bucket struct {
	count     int
	resetTime time.Time
}

// Limiter is a fixed-window request counter keyed by client identifier.
// Each Limiter is a fully independent counter space; login, API and contact
// traffic get their own instances.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  Config
	ticker  *time.Ticker
	done    chan struct{}
}

// Check counts one request for key and reports whether it is allowed. The
// first request in a window opens it; once the window elapses the bucket is
// replaced with a fresh one.
func (l *Limiter) Check(key string) Result {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || !now.Before(b.resetTime) {
		b = &bucket{count: 0, resetTime: now.Add(l.config.Window)}
		l.buckets[key] = b
	}
	b.count++
	if b.count > l.config.Max {
		return Result{
			Allowed:    false,
			RetryAfter: b.resetTime.Sub(now),
		}
	}
	return Result{
		Allowed:   true,
		Remaining: l.config.Max - b.count,
	}
}

// sweep drops buckets whose window has already elapsed, bounding memory.
func (l *Limiter) sweep() {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if !now.Before(b.resetTime) {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) run() {
	for {
		select {
		case <-l.ticker.C:
			l.sweep()
		case <-l.done:
			return
		}
	}
}

// Close stops the background sweeper.
func (l *Limiter) Close() {
	if l.ticker != nil {
		l.ticker.Stop()
		close(l.done)
	}
}

func NewLimiter(config Config) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		done:    make(chan struct{}),
	}
	if config.Sweep > 0 {
		l.ticker = time.NewTicker(config.Sweep)
		go l.run()
	}
	return l
}
