package store

import "sync"

// MemoryStore is a generic in-memory map of entities of type *T keyed by a
// comparable key K obtained from the supplied keySelector function.
//
// It lets concrete services embed the store and avoid rewriting identical
// put/lookup/delete/list logic for every entity type. Reads take the shared
// lock only long enough to snapshot, so queries never block writers for the
// duration of caller-side iteration.
//
// It purposefully contains no business logic such as state-based filtering -
// higher-level services filter the returned snapshot.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
}

// NewMemoryStore creates a new MemoryStore.
// keySelector extracts the entity key (usually the ID field) from a value.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
}

// Put stores or overwrites a record.
func (s *MemoryStore[K, T]) Put(v *T) {
	if v == nil {
		return
	}
	key := s.keySelector(v)
	s.mu.Lock()
	s.records[key] = v
	s.mu.Unlock()
}

// Lookup returns a record by key, or nil when absent.
func (s *MemoryStore[K, T]) Lookup(key K) *T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[key]
}

// Delete removes a record. Deleting an absent key is a no-op.
func (s *MemoryStore[K, T]) Delete(key K) {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
}

// List returns a snapshot of all stored records.
func (s *MemoryStore[K, T]) List() []*T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, v)
	}
	return out
}

// Len returns the number of stored records.
func (s *MemoryStore[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Drain removes and returns all stored records.
func (s *MemoryStore[K, T]) Drain() []*T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, v)
	}
	s.records = make(map[K]*T)
	return out
}
