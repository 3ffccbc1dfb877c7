package taskmgr

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/taskmgr/model/task"
)

// Result returns the value of a successfully completed, result-bearing
// task. Any other condition either returns the caller-supplied default (by
// default) or, with failOnError, an error distinguishing unknown id,
// result-less shape, not-yet-complete, canceled and faulted.
func (s *Service) Result(id string, defaultValue interface{}, failOnError bool) (interface{}, error) {
	if s.closed.Load() {
		return defaultValue, ErrClosed
	}
	fail := func(err error) (interface{}, error) {
		if failOnError {
			return defaultValue, err
		}
		return defaultValue, nil
	}
	t := s.registry.Lookup(id)
	if t == nil {
		return fail(fmt.Errorf("task %s: %w", id, ErrNotFound))
	}
	if !t.HasResult() {
		return fail(fmt.Errorf("task %s: %w", id, ErrNoResult))
	}
	switch state := t.State(); state {
	case task.StateCompleted:
		value, _ := t.Result()
		return value, nil
	case task.StateCanceled:
		return fail(fmt.Errorf("task %s: %w", id, ErrCanceled))
	case task.StateFaulted:
		_, cause := t.Result()
		return fail(fmt.Errorf("task %s: %w: %w", id, ErrFaulted, cause))
	default:
		return fail(fmt.Errorf("task %s in state %s: %w", id, state, ErrNotCompleted))
	}
}

// AwaitResult suspends until the task completes (bounded by timeout, zero
// waits indefinitely) and then returns its result; timeout, cancellation
// and fault each surface as their typed error.
func (s *Service) AwaitResult(ctx context.Context, id string, timeout time.Duration) (interface{}, error) {
	if _, err := s.WaitFor(ctx, id, timeout, true); err != nil {
		return nil, err
	}
	return s.Result(id, nil, true)
}
