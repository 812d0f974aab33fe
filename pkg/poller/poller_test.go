package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_CompletesAfterProcessing(t *testing.T) {
	var calls int32
	fn := func(ctx context.Context, jobID string) (Status, error) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			return Status{State: StateProcessing}, nil
		}
		return Status{State: StateCompleted, Artifact: "https://cdn.example.com/v.mp4"}, nil
	}

	status, err := Wait(context.Background(), "job-1", fn,
		WithInterval(time.Millisecond),
		WithMaxAttempts(10))
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, status.State)
	assert.Equal(t, "https://cdn.example.com/v.mp4", status.Artifact)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWait_ExhaustsAttemptBudgetExactly(t *testing.T) {
	var calls int32
	fn := func(ctx context.Context, jobID string) (Status, error) {
		atomic.AddInt32(&calls, 1)
		return Status{State: StateProcessing}, nil
	}

	_, err := Wait(context.Background(), "job-2", fn,
		WithInterval(time.Millisecond),
		WithMaxAttempts(5))

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "job-2", timeoutErr.JobID)
	assert.Equal(t, 5, timeoutErr.Attempts)
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls), "one status query per attempt, no more")
}

func TestWait_FailedJobStopsImmediately(t *testing.T) {
	var calls int32
	fn := func(ctx context.Context, jobID string) (Status, error) {
		atomic.AddInt32(&calls, 1)
		return Status{State: StateFailed, Reason: "render error"}, nil
	}

	_, err := Wait(context.Background(), "job-3", fn,
		WithInterval(time.Millisecond),
		WithMaxAttempts(10))

	var failedErr *FailedError
	require.ErrorAs(t, err, &failedErr)
	assert.Equal(t, "job-3", failedErr.JobID)
	assert.Equal(t, "render error", failedErr.Reason)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWait_EmptyArtifactIsTransient(t *testing.T) {
	var calls int32
	fn := func(ctx context.Context, jobID string) (Status, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return Status{State: StateCompleted}, nil
		}
		return Status{State: StateCompleted, Artifact: "https://cdn.example.com/v.mp4"}, nil
	}

	status, err := Wait(context.Background(), "job-4", fn,
		WithInterval(time.Millisecond),
		WithMaxAttempts(10))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/v.mp4", status.Artifact)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestWait_EmptyArtifactAcceptedWhenAllowed(t *testing.T) {
	fn := func(ctx context.Context, jobID string) (Status, error) {
		return Status{State: StateCompleted}, nil
	}

	status, err := Wait(context.Background(), "job-5", fn,
		WithInterval(time.Millisecond),
		WithMaxAttempts(3),
		WithAllowEmptyArtifact(true))
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, status.State)
	assert.Empty(t, status.Artifact)
}

func TestWait_EmptyArtifactTimesOutWhenNeverReady(t *testing.T) {
	var calls int32
	fn := func(ctx context.Context, jobID string) (Status, error) {
		atomic.AddInt32(&calls, 1)
		return Status{State: StateCompleted}, nil
	}

	_, err := Wait(context.Background(), "job-6", fn,
		WithInterval(time.Millisecond),
		WithMaxAttempts(4))

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestWait_StatusFuncErrorAborts(t *testing.T) {
	sentinel := errors.New("connection reset")
	fn := func(ctx context.Context, jobID string) (Status, error) {
		return Status{}, sentinel
	}

	_, err := Wait(context.Background(), "job-7", fn,
		WithInterval(time.Millisecond),
		WithMaxAttempts(10))
	require.ErrorIs(t, err, sentinel)
}

func TestWait_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fn := func(ctx context.Context, jobID string) (Status, error) {
		cancel()
		return Status{State: StateProcessing}, nil
	}

	status, err := Wait(ctx, "job-8", fn,
		WithInterval(time.Minute),
		WithMaxAttempts(10))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateProcessing, status.State, "last observed status is preserved")
}

func TestWait_MaxElapsedTime(t *testing.T) {
	fn := func(ctx context.Context, jobID string) (Status, error) {
		return Status{State: StateProcessing}, nil
	}

	start := time.Now()
	_, err := Wait(context.Background(), "job-9", fn,
		WithInterval(5*time.Millisecond),
		WithMaxAttempts(1000),
		WithMaxElapsedTime(30*time.Millisecond))

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestWait_ObserverSeesEveryQuery(t *testing.T) {
	var observed []State
	fn := func(ctx context.Context, jobID string) (Status, error) {
		if len(observed) < 2 {
			return Status{State: StateProcessing}, nil
		}
		return Status{State: StateCompleted, Artifact: "url"}, nil
	}

	_, err := Wait(context.Background(), "job-10", fn,
		WithInterval(time.Millisecond),
		WithMaxAttempts(10),
		WithObserver(func(attempt int, status Status) {
			observed = append(observed, status.State)
		}))
	require.NoError(t, err)
	require.Len(t, observed, 3)
	assert.Equal(t, StateCompleted, observed[2])
}
