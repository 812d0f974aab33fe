// Package poller provides a bounded fixed-interval polling loop for
// asynchronous vendor jobs. Status queries run strictly sequentially; the
// loop ends on a terminal state, on attempt exhaustion, or on context
// cancellation.
package poller

import (
	"context"
	"time"
)

// State is the normalized lifecycle state of an asynchronous job.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Terminal reports whether the state ends the polling loop.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Status is a single snapshot of an asynchronous job.
type Status struct {
	State State
	// Artifact is the job output reference (e.g. a download URL). Only
	// meaningful when State is StateCompleted.
	Artifact string
	// Reason carries the vendor failure detail when State is StateFailed.
	Reason string
}

// StatusFunc queries the current status of a job. Implementations map
// vendor-specific states onto the normalized State set.
type StatusFunc func(ctx context.Context, jobID string) (Status, error)

// Observer is invoked after every status query with the 1-based attempt
// number and the status it returned.
type Observer func(attempt int, status Status)

// Config defines polling behavior.
type Config struct {
	interval           time.Duration
	maxAttempts        int
	maxElapsedTime     time.Duration
	allowEmptyArtifact bool
	observer           Observer
}

func defaultConfig() *Config {
	return &Config{
		interval:    20 * time.Second,
		maxAttempts: 60,
	}
}

// Option configures polling behavior.
type Option func(*Config)

// WithInterval sets the fixed wait between status queries.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithMaxAttempts sets the maximum number of status queries.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithMaxElapsedTime limits the total polling duration independently of the
// attempt count.
func WithMaxElapsedTime(d time.Duration) Option {
	return func(c *Config) {
		c.maxElapsedTime = d
	}
}

// WithAllowEmptyArtifact accepts a completed status whose artifact is empty.
// By default such a status is treated as transient and polling continues,
// since some vendors briefly report completion before the artifact is ready.
func WithAllowEmptyArtifact(allow bool) Option {
	return func(c *Config) {
		c.allowEmptyArtifact = allow
	}
}

// WithObserver registers a callback invoked after every status query.
func WithObserver(fn Observer) Option {
	return func(c *Config) {
		c.observer = fn
	}
}

// Wait polls jobID via fn until the job completes, fails, or the attempt or
// time budget runs out. The first query is issued immediately; subsequent
// queries wait one interval each, so at most maxAttempts queries are made.
//
// On success the completed Status is returned. A failed job yields
// *FailedError, an exhausted budget yields *TimeoutError, and context
// cancellation yields the context error. Errors returned by fn abort the
// loop immediately; fn is the place to absorb transient transport errors.
func Wait(ctx context.Context, jobID string, fn StatusFunc, opts ...Option) (Status, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	start := time.Now()
	var last Status

	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		if cfg.maxElapsedTime > 0 && time.Since(start) >= cfg.maxElapsedTime {
			return last, &TimeoutError{JobID: jobID, Attempts: attempt - 1, Elapsed: time.Since(start)}
		}

		status, err := fn(ctx, jobID)
		if err != nil {
			return last, err
		}
		last = status
		if cfg.observer != nil {
			cfg.observer(attempt, status)
		}

		switch status.State {
		case StateCompleted:
			if status.Artifact == "" && !cfg.allowEmptyArtifact {
				// Completed without an artifact: keep polling.
				break
			}
			return status, nil
		case StateFailed:
			return status, &FailedError{JobID: jobID, Reason: status.Reason}
		}

		if attempt == cfg.maxAttempts {
			break
		}

		timer := time.NewTimer(cfg.interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return last, ctx.Err()
		}
	}

	return last, &TimeoutError{JobID: jobID, Attempts: cfg.maxAttempts, Elapsed: time.Since(start)}
}
