package taskmgr

import (
	"fmt"
	"strings"

	"github.com/viant/taskmgr/model/task"
)

// Task returns the managed record for the given id, or nil when unknown or
// already reclaimed.
func (s *Service) Task(id string) *task.Task {
	return s.registry.Lookup(id)
}

// Tasks returns a snapshot of every registered task.
func (s *Service) Tasks() []*task.Task {
	return s.registry.All()
}

// TasksByTag returns tasks whose tag matches case-insensitively.
func (s *Service) TasksByTag(tag string) []*task.Task {
	return s.registry.ByTag(tag)
}

// TasksByState returns tasks currently in the given state.
func (s *Service) TasksByState(state task.State) []*task.Task {
	return s.registry.ByState(state)
}

// Running returns tasks currently executing.
func (s *Service) Running() []*task.Task { return s.registry.ByState(task.StateRunning) }

// Completed returns tasks that finished successfully.
func (s *Service) Completed() []*task.Task { return s.registry.ByState(task.StateCompleted) }

// Faulted returns tasks that ended faulted.
func (s *Service) Faulted() []*task.Task { return s.registry.ByState(task.StateFaulted) }

// Canceled returns tasks that ended canceled.
func (s *Service) Canceled() []*task.Task { return s.registry.ByState(task.StateCanceled) }

// Cancel requests cooperative cancellation of the given task. Cancelling a
// task already in a terminal state is a no-op that reports success.
func (s *Service) Cancel(id string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	t := s.registry.Lookup(id)
	if t == nil {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if t.IsTerminal() {
		return nil
	}
	t.Cancel()
	return nil
}

// CancelByTag requests cancellation of every non-terminal task with the
// given tag and returns how many were signalled.
func (s *Service) CancelByTag(tag string) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	return cancelBatch(s.registry.ByTag(tag)), nil
}

// CancelAll requests cancellation of every non-terminal task and returns how
// many were signalled.
func (s *Service) CancelAll() (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	return cancelBatch(s.registry.All()), nil
}

func cancelBatch(batch []*task.Task) int {
	count := 0
	for _, t := range batch {
		if t.IsTerminal() {
			continue
		}
		t.Cancel()
		count++
	}
	return count
}

// ClearCompleted removes every terminal task from the registry right away,
// cancelling their pending retention removals, and returns the count.
func (s *Service) ClearCompleted() (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	count := 0
	for _, t := range s.registry.All() {
		if !t.IsTerminal() {
			continue
		}
		s.cancelRetention(t.ID)
		s.registry.Remove(t.ID)
		count++
	}
	return count, nil
}

// StatusSummary returns human-readable per-state counts.
func (s *Service) StatusSummary() string {
	counts := map[task.State]int{}
	all := s.registry.All()
	for _, t := range all {
		counts[t.State()]++
	}
	order := []task.State{task.StateCreated, task.StatePending, task.StateRunning,
		task.StateCompleted, task.StateFaulted, task.StateCanceled}
	parts := make([]string, 0, len(order))
	for _, state := range order {
		if counts[state] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[state], state))
		}
	}
	if len(parts) == 0 {
		return "no tasks"
	}
	return fmt.Sprintf("%d tasks: %s", len(all), strings.Join(parts, ", "))
}

// Close disposes the engine: it cancels every outstanding cancellation
// handle, stops every pending timeout and retention timer, waits for the
// in-flight execution goroutines to observe the signal and exit, drains the
// registry and makes all further operations fail fast with ErrClosed.
// Close is idempotent.
func (s *Service) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.baseCancel()
	s.stopTimers()
	s.wg.Wait()
	s.registry.Drain()
	if s.ownEvents {
		s.events.Stop()
	}
	s.logger.Debug("engine closed")
	return nil
}
