package taskmgr

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/taskmgr/model/task"
)

// WaitFor suspends the caller until the task reaches a terminal state or
// the wait timeout elapses, whichever comes first; a timeout of zero or
// less waits indefinitely. It reports completed-in-time; with failOnTimeout
// the timeout is surfaced as ErrTimeout instead of a false result. An
// unknown id counts as already complete. The wait never busy-polls: it
// parks on the task's done channel.
func (s *Service) WaitFor(ctx context.Context, id string, timeout time.Duration, failOnTimeout bool) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	t := s.registry.Lookup(id)
	if t == nil {
		return true, nil
	}
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	select {
	case <-t.Done():
		return true, nil
	case <-deadline:
		if failOnTimeout {
			return false, fmt.Errorf("task %s: %w", id, ErrTimeout)
		}
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// WaitForByTag waits for every task with the given tag (snapshot taken at
// call time) under the batch policy described on waitBatch.
func (s *Service) WaitForByTag(ctx context.Context, tag string, timeout time.Duration, failOnTimeout bool) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	return s.waitBatch(ctx, s.registry.ByTag(tag), timeout, failOnTimeout)
}

// WaitForAll waits for every registered task (snapshot taken at call time)
// under the batch policy described on waitBatch.
func (s *Service) WaitForAll(ctx context.Context, timeout time.Duration, failOnTimeout bool) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	return s.waitBatch(ctx, s.registry.All(), timeout, failOnTimeout)
}

// waitBatch waits for every task in the snapshot. The effective ceiling is
// the minimum of the wait timeout and the smallest positive per-task
// timeout. When the ceiling elapses first, every task still outstanding in
// the batch is force-cancelled.
func (s *Service) waitBatch(ctx context.Context, batch []*task.Task, timeout time.Duration, failOnTimeout bool) (bool, error) {
	effective := timeout
	for _, t := range batch {
		if t.Timeout > 0 && (effective <= 0 || t.Timeout < effective) {
			effective = t.Timeout
		}
	}
	var deadline <-chan time.Time
	if effective > 0 {
		timer := time.NewTimer(effective)
		defer timer.Stop()
		deadline = timer.C
	}
	for _, t := range batch {
		select {
		case <-t.Done():
		case <-deadline:
			for _, outstanding := range batch {
				if !outstanding.IsTerminal() {
					outstanding.Cancel()
				}
			}
			if failOnTimeout {
				return false, fmt.Errorf("%d tasks outstanding: %w", countOutstanding(batch), ErrTimeout)
			}
			return false, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return true, nil
}

func countOutstanding(batch []*task.Task) int {
	count := 0
	for _, t := range batch {
		if !t.IsTerminal() {
			count++
		}
	}
	return count
}
