// Package memory implements the session-scoped storage area.
// Values live only as long as the process.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/iudanet/gophboard/internal/client/storage"
)

// Storage is an in-memory KVStore
type Storage struct {
	items map[string][]byte
	mu    sync.RWMutex
}

// Compile-time check that Storage implements KVStore
var _ storage.KVStore = (*Storage)(nil)

// New creates an empty session storage
func New() *Storage {
	return &Storage{
		items: make(map[string][]byte),
	}
}

// Get returns a copy of the stored value
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	if !ok {
		return nil, storage.ErrKeyNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a copy of value
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.items[key] = stored
	s.mu.Unlock()

	return nil
}

// Delete removes key
func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()

	return nil
}

// Keys returns sorted keys with the prefix
func (s *Storage) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return keys, nil
}
