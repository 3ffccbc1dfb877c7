package taskmgr

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/taskmgr/model/task"
)

const (
	retryBaseDelay = time.Second
	retryMaxDelay  = 30 * time.Second
)

// backoffDelay returns the wait before the next re-invocation: the base
// delay doubled per retry already performed, capped at retryMaxDelay.
func backoffDelay(retryCount int) time.Duration {
	delay := float64(retryBaseDelay) * math.Pow(2, float64(retryCount))
	if delay > float64(retryMaxDelay) {
		return retryMaxDelay
	}
	return time.Duration(delay)
}

// runWithRetry invokes the task's work variant, re-invoking it after an
// exponential backoff while retries remain, cancellation has not been
// requested and the engine is not closed. The backoff wait itself is
// cancellable. Re-invocation is a direct call on the shape captured at
// submission time.
func (s *Service) runWithRetry(ctx context.Context, t *task.Task) task.Outcome {
	for {
		out := t.Work().Invoke(ctx)
		if out.Canceled || out.Err == nil {
			return out
		}
		if t.RetryCount() >= t.MaxRetries || s.closed.Load() {
			return out
		}
		delay := backoffDelay(t.RetryCount())
		s.logger.WithFields(logrus.Fields{
			"task":  t.ID,
			"retry": t.RetryCount() + 1,
			"delay": delay,
		}).WithError(out.Err).Warn("task attempt failed, retrying")
		select {
		case <-ctx.Done():
			return task.Outcome{Canceled: true}
		case <-time.After(delay):
		}
		t.IncRetry()
	}
}

// aggregate wraps the final failure. When retries were performed the error
// names the retry count; the last cause stays reachable via errors.Is/As.
func (s *Service) aggregate(t *task.Task, cause error) error {
	if t.RetryCount() == 0 {
		return fmt.Errorf("task %s failed: %w", t.ID, cause)
	}
	return fmt.Errorf("task %s failed after %d retries: %w", t.ID, t.RetryCount(), cause)
}
