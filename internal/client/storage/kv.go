package storage

import (
	"context"
	"fmt"
)

//go:generate moq -out kv_mock.go . KVStore

// KVStore defines the lowest storage layer on client: a flat key-value area.
// Values are opaque bytes (usually JSON); the store does not interpret them.
type KVStore interface {
	// Get returns the value stored under key
	// Returns ErrKeyNotFound if nothing is stored
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores or overwrites the value under key
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Keys returns all keys starting with prefix
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Area определяет область хранения
type Area int

const (
	// AreaDurable переживает перезапуск процесса (файл на диске)
	AreaDurable Area = iota
	// AreaSession живет только пока жив процесс
	AreaSession
)

// String returns area name for logs and config
func (a Area) String() string {
	switch a {
	case AreaDurable:
		return "durable"
	case AreaSession:
		return "session"
	default:
		return fmt.Sprintf("area(%d)", int(a))
	}
}

// ParseArea converts config value to Area
func ParseArea(s string) (Area, error) {
	switch s {
	case "durable", "":
		return AreaDurable, nil
	case "session":
		return AreaSession, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownArea, s)
	}
}

// Adapter объединяет две области хранения: durable и session-scoped.
// Через него работают token accessor и cache manager.
type Adapter struct {
	durable KVStore
	session KVStore
}

// NewAdapter creates adapter over durable and session stores
func NewAdapter(durable, session KVStore) *Adapter {
	return &Adapter{
		durable: durable,
		session: session,
	}
}

// Area returns the store backing the given area
func (a *Adapter) Area(area Area) (KVStore, error) {
	var store KVStore
	switch area {
	case AreaDurable:
		store = a.durable
	case AreaSession:
		store = a.session
	}
	if store == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}
	return store, nil
}

// Get reads key from area
func (a *Adapter) Get(ctx context.Context, area Area, key string) ([]byte, error) {
	store, err := a.Area(area)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, key)
}

// Set writes key into area
func (a *Adapter) Set(ctx context.Context, area Area, key string, value []byte) error {
	store, err := a.Area(area)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, value)
}

// Delete removes key from area
func (a *Adapter) Delete(ctx context.Context, area Area, key string) error {
	store, err := a.Area(area)
	if err != nil {
		return err
	}
	return store.Delete(ctx, key)
}
