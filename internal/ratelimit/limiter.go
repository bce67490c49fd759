package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/urlutil"
)

// Limiter throttles outbound requests on a per-host basis.
type Limiter interface {
	// Wait blocks until a request for the given URL can proceed.
	// If the context is cancelled before the rate limit allows, an error is returned.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a request for the given URL can proceed
	// immediately without blocking.
	Allow(urlStr string) bool
}

// HostLimiter provides per-host rate limiting so that pagination loops
// hammering a single site do not get the crawler's IP banned. It uses the
// token bucket algorithm for smooth rate limiting.
type HostLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter creates a new rate limiter with the specified per-host rate.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5.0
	}
	if burst <= 0 {
		burst = 10
	}

	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the request for the given URL can proceed according to
// the host's rate limit.
func (hl *HostLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	host := urlutil.Host(urlStr)
	if host == "" {
		// Invalid URL, let it proceed (will fail elsewhere)
		return nil
	}

	return hl.getLimiter(host).Wait(ctx)
}

// Allow checks if a request can proceed immediately without blocking.
func (hl *HostLimiter) Allow(urlStr string) bool {
	host := urlutil.Host(urlStr)
	if host == "" {
		return true
	}

	return hl.getLimiter(host).Allow()
}

// getLimiter returns or creates a rate limiter for the given host.
func (hl *HostLimiter) getLimiter(host string) *rate.Limiter {
	hl.mu.RLock()
	limiter, exists := hl.limiters[host]
	hl.mu.RUnlock()

	if exists {
		return limiter
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := hl.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(hl.perHost, hl.burst)
	hl.limiters[host] = limiter

	return limiter
}
