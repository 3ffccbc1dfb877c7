package taskmgr

import (
	"time"

	"github.com/viant/taskmgr/model/task"
)

// armTimeout schedules the one-shot timeout check for tasks submitted with a
// positive timeout. Firing is a cancellation request, not preemption: the
// work unit still has to observe the signal. One timer per task is fine at
// the volumes this engine targets.
func (s *Service) armTimeout(t *task.Task) {
	if t.Timeout <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	id := t.ID
	s.timeouts[id] = time.AfterFunc(t.Timeout, func() {
		s.mu.Lock()
		delete(s.timeouts, id)
		s.mu.Unlock()
		if !t.MarkTimedOut() {
			// lost the race against natural completion; the terminal
			// outcome must not change
			return
		}
		t.Cancel()
		s.logger.WithField("task", id).Debug("timeout elapsed, cancellation requested")
	})
}

// disarmTimeout stops a pending timeout check once the task is terminal.
func (s *Service) disarmTimeout(id string) {
	s.mu.Lock()
	if timer, ok := s.timeouts[id]; ok {
		timer.Stop()
		delete(s.timeouts, id)
	}
	s.mu.Unlock()
}

// scheduleRetention removes the terminal task from the registry, either
// synchronously when the retention window is not positive, or after the
// window elapses. The task stays fully queryable until removal.
func (s *Service) scheduleRetention(t *task.Task) {
	retention := s.config.Retention()
	if retention <= 0 || s.closed.Load() {
		s.registry.Remove(t.ID)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := t.ID
	s.retentions[id] = time.AfterFunc(retention, func() {
		s.mu.Lock()
		delete(s.retentions, id)
		s.mu.Unlock()
		s.registry.Remove(id)
	})
}

// cancelRetention stops the pending removal for the given id, if any.
func (s *Service) cancelRetention(id string) {
	s.mu.Lock()
	if timer, ok := s.retentions[id]; ok {
		timer.Stop()
		delete(s.retentions, id)
	}
	s.mu.Unlock()
}

// stopTimers cancels every pending timeout check and retention removal.
func (s *Service) stopTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timeouts {
		timer.Stop()
		delete(s.timeouts, id)
	}
	for id, timer := range s.retentions {
		timer.Stop()
		delete(s.retentions, id)
	}
}
