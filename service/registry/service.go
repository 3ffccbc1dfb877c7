// Package registry provides the concurrent task registry: a map from task
// identifier to its managed record, safe for arbitrary concurrent
// insert/read/remove from submission call sites, worker goroutines and
// timer callbacks.
package registry

import (
	"strings"

	"github.com/viant/taskmgr/model/task"
	"github.com/viant/taskmgr/service/dao/store"
)

// Service is the task registry.
type Service struct {
	store *store.MemoryStore[string, task.Task]
}

// New creates an empty registry.
func New() *Service {
	return &Service{
		store: store.NewMemoryStore[string, task.Task](func(t *task.Task) string { return t.ID }),
	}
}

// Register adds a task. Task ids are unique for the registry lifetime, so a
// second registration with the same id overwrites, which never happens with
// generated ids.
func (s *Service) Register(t *task.Task) {
	s.store.Put(t)
}

// Lookup returns the task with the given id, or nil when absent.
func (s *Service) Lookup(id string) *task.Task {
	return s.store.Lookup(id)
}

// Remove deletes the task with the given id. Removing an absent id is a
// no-op.
func (s *Service) Remove(id string) {
	s.store.Delete(id)
}

// All returns a snapshot of every registered task.
func (s *Service) All() []*task.Task {
	return s.store.List()
}

// ByTag returns tasks whose tag matches case-insensitively.
func (s *Service) ByTag(tag string) []*task.Task {
	var out []*task.Task
	for _, t := range s.store.List() {
		if strings.EqualFold(t.Tag, tag) {
			out = append(out, t)
		}
	}
	return out
}

// ByState returns tasks currently in the given state.
func (s *Service) ByState(state task.State) []*task.Task {
	var out []*task.Task
	for _, t := range s.store.List() {
		if t.State() == state {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of registered tasks.
func (s *Service) Len() int {
	return s.store.Len()
}

// Drain removes and returns every registered task.
func (s *Service) Drain() []*task.Task {
	return s.store.Drain()
}
