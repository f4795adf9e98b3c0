package storage

import (
	"errors"
	"sort"
	"sync"

	"cvdd/internal/structures"
)

// ErrQuotaExceeded is returned by Set when a write would push the
// namespace beyond its configured size cap.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KeyValueStore is the flat on-device namespace. Every persisted key of
// the application goes through this interface; no other component
// touches the backing storage directly. Single-key operations are
// atomic, nothing is guaranteed across keys.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
	Keys() []string
	Clear()
}

// NewKeyValueStore builds the store the daemon runs on, sized from the
// configuration.
func NewKeyValueStore(conf *structures.Config) KeyValueStore {
	return NewMemoryStore(conf.Store.MaxBytes)
}

// MemoryStore is the in-process implementation backing the daemon. It
// holds the namespace in a mutex-guarded map; durability comes from the
// snapshot FileManager, not from the store itself.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]string
	maxBytes int
	size     int
}

// NewMemoryStore creates a store with an optional size cap. maxBytes of
// zero disables the cap.
func NewMemoryStore(maxBytes int) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]string),
		maxBytes: maxBytes,
	}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.size - len(s.data[key]) + len(value)
	if s.maxBytes > 0 && next > s.maxBytes {
		return ErrQuotaExceeded
	}
	s.data[key] = value
	s.size = next
	return nil
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.data[key]; ok {
		s.size -= len(old)
		delete(s.data, key)
	}
}

func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	s.size = 0
}

// Size returns the summed byte length of all values.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}
