package store

import (
	"fmt"
	"sync"
)

// Loader reads the durable value for a key. ok reports whether the key
// has any durable data; a missing table is not an error.
type Loader[K comparable, V any] func(key K) (value V, ok bool, err error)

// Persister writes the full current value for a key to durable storage.
type Persister[K comparable, V any] func(key K, value V) error

// MergePolicy folds an incoming value into the existing one. exists is
// false when the key has no entry yet. changed gates persistence: an
// unchanged merge never touches durable storage.
type MergePolicy[V any] func(existing V, exists bool, incoming V) (merged V, changed bool)

// Option configures a Store.
type Option[K comparable, V any] func(*Store[K, V])

// WithObserver installs cache hit/miss callbacks, used to feed metrics.
func WithObserver[K comparable, V any](hit, miss func()) Option[K, V] {
	return func(s *Store[K, V]) {
		s.onHit = hit
		s.onMiss = miss
	}
}

// Store is a cache-aside map in front of a per-key durable table. The
// map is the single source of truth for hot data; durable storage
// serves cold starts and crash recovery.
//
// Two independent locks guard the store. mu protects the map for all
// keys; storageMu serializes every durable read and write across all
// keys, so slow storage never blocks in-memory reads of other keys, at
// the cost of globally serialized persistence. A writer's in-memory
// update always precedes its own durable write, but a second writer's
// map update can land before the first writer's file write completes:
// the persisted table reflects the last durable write, not the first
// caller ("last durable write wins").
type Store[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V

	storageMu sync.Mutex
	load      Loader[K, V]
	save      Persister[K, V]

	onHit  func()
	onMiss func()
}

// New creates a store over the given durable loader and persister.
func New[K comparable, V any](load Loader[K, V], save Persister[K, V], opts ...Option[K, V]) *Store[K, V] {
	s := &Store[K, V]{
		items: make(map[K]V),
		load:  load,
		save:  save,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value for key, loading it from durable storage on a
// cache miss and populating the map on success. A key absent from both
// layers returns ErrNotFound.
func (s *Store[K, V]) Get(key K) (V, error) {
	s.mu.RLock()
	v, ok := s.items[key]
	s.mu.RUnlock()
	if ok {
		if s.onHit != nil {
			s.onHit()
		}
		return v, nil
	}
	if s.onMiss != nil {
		s.onMiss()
	}

	s.storageMu.Lock()
	loaded, found, err := s.load(key)
	s.storageMu.Unlock()

	var zero V
	if err != nil {
		return zero, &IOError{Op: "load", Key: fmt.Sprint(key), Err: err}
	}
	if !found {
		return zero, ErrNotFound
	}

	// A write that landed while the durable load ran is newer than the
	// loaded value and must not be clobbered.
	s.mu.Lock()
	if v, ok := s.items[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.items[key] = loaded
	s.mu.Unlock()
	return loaded, nil
}

// Put inserts or replaces the entry for key, then persists the entire
// current in-memory value for that key.
func (s *Store[K, V]) Put(key K, value V) error {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
	return s.persist(key)
}

// Merge applies policy against the existing entry (absent entries are
// reported to the policy as such), persists only if the merge changed
// state, and returns the resulting value.
func (s *Store[K, V]) Merge(key K, incoming V, policy MergePolicy[V]) (V, error) {
	s.mu.Lock()
	existing, ok := s.items[key]
	merged, changed := policy(existing, ok, incoming)
	if changed {
		s.items[key] = merged
	}
	s.mu.Unlock()

	if !changed {
		return merged, nil
	}
	return merged, s.persist(key)
}

// persist writes the key's current in-memory value under the global
// storage lock. The value is re-read at write time so the durable
// table always reflects the newest map state for that key.
func (s *Store[K, V]) persist(key K) error {
	s.storageMu.Lock()
	defer s.storageMu.Unlock()

	s.mu.RLock()
	value, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := s.save(key, value); err != nil {
		return &IOError{Op: "persist", Key: fmt.Sprint(key), Err: err}
	}
	return nil
}

// Each calls fn with every cached entry under the read lock. fn must
// not call back into the store.
func (s *Store[K, V]) Each(fn func(key K, value V)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.items {
		fn(k, v)
	}
}

// Evict drops the in-memory entry for key without touching durable
// storage. The next Get reloads it.
func (s *Store[K, V]) Evict(key K) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}
