package poller

import (
	"fmt"
	"time"
)

// TimeoutError reports that a job did not reach a terminal state within the
// attempt or time budget. It preserves the job id so callers can surface it
// for manual recovery.
type TimeoutError struct {
	JobID    string
	Attempts int
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("job %s not finished after %d attempts (%s elapsed)", e.JobID, e.Attempts, e.Elapsed.Round(time.Second))
}

// FailedError reports that the vendor marked a job as failed.
type FailedError struct {
	JobID  string
	Reason string
}

func (e *FailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("job %s failed", e.JobID)
	}
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Reason)
}
