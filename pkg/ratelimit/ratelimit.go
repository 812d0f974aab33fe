// Package ratelimit provides a registry of named rate limiters shared across
// the whole process. Concurrent workflow runs draw from the same limiter for
// a given operation, so vendor-facing call rates hold regardless of how many
// runs are in flight.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Registry maps operation names to limiters. The zero value is not usable;
// use NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewRegistry creates an empty limiter registry.
func NewRegistry() *Registry {
	return &Registry{
		limiters: make(map[string]*rate.Limiter),
	}
}

// SetInterval registers a limiter for op allowing one event per interval
// with the given burst. A non-positive interval removes the limiter.
func (r *Registry) SetInterval(op string, interval time.Duration, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if interval <= 0 {
		delete(r.limiters, op)
		return
	}
	if burst < 1 {
		burst = 1
	}
	r.limiters[op] = rate.NewLimiter(rate.Every(interval), burst)
}

// Wait blocks until the limiter for op permits an event or ctx is done.
// Operations with no registered limiter pass through immediately.
func (r *Registry) Wait(ctx context.Context, op string) error {
	r.mu.RLock()
	limiter := r.limiters[op]
	r.mu.RUnlock()
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// Allow reports whether an event for op may happen now without blocking.
func (r *Registry) Allow(op string) bool {
	r.mu.RLock()
	limiter := r.limiters[op]
	r.mu.RUnlock()
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}
