// Package ratelimit provides per-client rate limiting using the token bucket algorithm.
package ratelimit

import (
	"sync"
	"time"
)

// bucketIdleTTL is how long an unused bucket survives cleanup.
const bucketIdleTTL = time.Hour

// TokenBucket allows capacity requests at once, refilling at a steady rate.
type TokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastAccess: now,
	}
}

// refill adds the tokens earned since the last refill. Callers hold mu.
func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed*tb.refillRate)
		tb.lastRefill = now
	}
}

// take consumes a token if one is available and reports the bucket state afterwards.
func (tb *TokenBucket) take(now time.Time) (allowed bool, remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	tb.lastAccess = now
	if tb.tokens >= 1.0 {
		tb.tokens--
		allowed = true
	}

	remaining = int(tb.tokens)
	resetTime = now
	if tb.tokens < float64(tb.capacity) && tb.refillRate > 0 {
		secondsUntilFull := (float64(tb.capacity) - tb.tokens) / tb.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return allowed, remaining, resetTime
}

func (tb *TokenBucket) idleSince(cutoff time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastAccess.Before(cutoff)
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages rate limiting for multiple clients using token buckets.
type Limiter struct {
	config  *Config
	buckets map[string]*TokenBucket
	mu      sync.Mutex
	now     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	limiter := &Limiter{
		config:  config,
		buckets: make(map[string]*TokenBucket),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go limiter.cleanupLoop(config.CleanupInterval)
	}

	return limiter
}

// Allow checks whether a request from clientID to the endpoint is allowed and consumes a token if so.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	rule := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	key := clientID + ":" + method + ":" + endpoint
	if rule == nil {
		rule = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	} else {
		// Prefix rules share one bucket across all the paths they cover.
		key = clientID + ":" + rule.Method + ":" + rule.Path
	}

	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	allowed, remaining, resetTime := l.bucket(key, rule, now).take(now)

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(resetTime.Sub(now), 0)
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      rule.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) bucket(key string, rule *EndpointConfig, now time.Time) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if bucket, ok := l.buckets[key]; ok {
		return bucket
	}

	window := rule.Window
	if window <= 0 {
		window = time.Minute
	}
	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}

	bucket := newTokenBucket(capacity, float64(rule.Limit)/window.Seconds(), now)
	l.buckets[key] = bucket
	return bucket
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.stop:
			return
		}
	}
}

// cleanupBuckets removes buckets that have not been used for bucketIdleTTL.
func (l *Limiter) cleanupBuckets() {
	cutoff := l.now().Add(-bucketIdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, bucket := range l.buckets {
		if bucket.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
