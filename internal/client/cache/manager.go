// Package cache implements the local result cache with per-key TTLs.
//
// Entries are written through to a storage area as JSON and mirrored in
// memory, so a read within TTL returns the very value that was stored.
// An entry is valid iff now - StoredAt < ttl; expired entries are reported
// as absent and left in place until the next Set overwrites them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/gophboard/internal/client/metrics"
	"github.com/iudanet/gophboard/internal/client/storage"
)

const keyPrefix = "cache:"

// Entry is the persisted form of a cached value
type Entry struct {
	StoredAt   time.Time       `json:"stored_at"`
	Key        Key             `json:"key"`
	Value      json.RawMessage `json:"value"`
	TTLSeconds int64           `json:"ttl_seconds"`
}

// Valid reports whether the entry is still fresh for ttl
func (e *Entry) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) < ttl
}

type mirrored struct {
	storedAt time.Time
	value    any
}

// Manager provides get/set/invalidate over a storage area
type Manager struct {
	store   storage.KVStore
	policy  Policy
	logger  *slog.Logger
	metrics *metrics.Collector
	now     func() time.Time
	mirror  map[Key]mirrored
	mu      sync.RWMutex
}

// Option configures Manager
type Option func(*Manager)

// WithClock overrides time source (tests)
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithMetrics attaches metrics collector
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) {
		m.metrics = c
	}
}

// NewManager creates cache manager over store with the given TTL policy
func NewManager(store storage.KVStore, policy Policy, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		policy: policy,
		logger: logger,
		now:    time.Now,
		mirror: make(map[Key]mirrored),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns configured ttl for key
func (m *Manager) TTL(key Key) (time.Duration, bool) {
	return m.policy.TTL(key)
}

// Load returns the cached value for key using the central TTL policy
func Load[T any](ctx context.Context, m *Manager, key Key) (T, bool) {
	ttl, ok := m.policy.TTL(key)
	if !ok {
		var zero T
		m.logger.Warn("cache lookup for unknown key", "key", key)
		return zero, false
	}
	return LoadTTL[T](ctx, m, key, ttl)
}

// LoadTTL returns the cached value if present and now - storedAt < ttl
func LoadTTL[T any](ctx context.Context, m *Manager, key Key, ttl time.Duration) (T, bool) {
	var zero T
	now := m.now()

	// Сначала смотрим зеркало в памяти - вернет тот же объект
	m.mu.RLock()
	mv, inMirror := m.mirror[key]
	m.mu.RUnlock()

	if inMirror {
		if now.Sub(mv.storedAt) >= ttl {
			m.metrics.CacheMiss(string(key))
			return zero, false
		}
		if v, ok := mv.value.(T); ok {
			m.metrics.CacheHit(string(key))
			return v, true
		}
	}

	var value T
	entry, ok := m.decode(ctx, key, ttl, &value)
	if !ok {
		return zero, false
	}

	// Запоминаем декодированное значение, чтобы следующие чтения отдавали его же
	m.mu.Lock()
	if cur, exists := m.mirror[key]; !exists || !cur.storedAt.After(entry.StoredAt) {
		m.mirror[key] = mirrored{storedAt: entry.StoredAt, value: value}
	}
	m.mu.Unlock()

	return value, true
}

// Get decodes the entry for key into dst when it is valid for ttl.
// Returns false on miss, expiry or storage/decoding failure.
func (m *Manager) Get(ctx context.Context, key Key, ttl time.Duration, dst any) bool {
	_, ok := m.decode(ctx, key, ttl, dst)
	return ok
}

func (m *Manager) decode(ctx context.Context, key Key, ttl time.Duration, dst any) (*Entry, bool) {
	entry, err := m.readEntry(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			m.logger.Warn("failed to read cache entry", "key", key, "error", err)
		}
		m.metrics.CacheMiss(string(key))
		return nil, false
	}

	if !entry.Valid(m.now(), ttl) {
		m.logger.Debug("cache entry expired", "key", key, "stored_at", entry.StoredAt)
		m.metrics.CacheMiss(string(key))
		return nil, false
	}

	if err := json.Unmarshal(entry.Value, dst); err != nil {
		m.logger.Warn("failed to decode cache value", "key", key, "error", err)
		m.metrics.CacheMiss(string(key))
		return nil, false
	}

	m.metrics.CacheHit(string(key))
	return entry, true
}

// Set stores value under key, overwriting any previous entry
func (m *Manager) Set(ctx context.Context, key Key, value any) error {
	ttl, ok := m.policy.TTL(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value for %s: %w", key, err)
	}

	entry := Entry{
		Key:        key,
		Value:      raw,
		StoredAt:   m.now(),
		TTLSeconds: int64(ttl / time.Second),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry for %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(ctx, keyPrefix+string(key), data); err != nil {
		return fmt.Errorf("failed to store cache entry %s: %w", key, err)
	}
	m.mirror[key] = mirrored{storedAt: entry.StoredAt, value: value}

	return nil
}

// Invalidate deletes the entry for key
func (m *Manager) Invalidate(ctx context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.mirror, key)
	if err := m.store.Delete(ctx, keyPrefix+string(key)); err != nil {
		return fmt.Errorf("failed to invalidate cache entry %s: %w", key, err)
	}

	m.logger.Debug("cache entry invalidated", "key", key)
	return nil
}

// Clear removes every cache entry (sign-out)
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys, err := m.store.Keys(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list cache entries: %w", err)
	}

	for _, k := range keys {
		if err := m.store.Delete(ctx, k); err != nil {
			return fmt.Errorf("failed to delete cache entry %s: %w", k, err)
		}
	}
	m.mirror = make(map[Key]mirrored)

	return nil
}

func (m *Manager) readEntry(ctx context.Context, key Key) (*Entry, error) {
	data, err := m.store.Get(ctx, keyPrefix+string(key))
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("malformed cache entry: %w", err)
	}

	return &entry, nil
}
