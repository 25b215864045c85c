// Package sealed wraps a durable KVStore and encrypts every value at rest.
// The access token bundle lands on disk, so the durable area can be sealed
// with a key derived from a user passphrase.
package sealed

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/gophboard/internal/client/storage"
	"github.com/iudanet/gophboard/internal/crypto"
)

// saltKey хранится в открытом виде рядом с зашифрованными значениями
const saltKey = "__gophboard.salt"

// Storage encrypts values before passing them to the inner store
type Storage struct {
	inner storage.KVStore
	key   []byte
}

// Compile-time check that Storage implements KVStore
var _ storage.KVStore = (*Storage)(nil)

// New derives the storage key from passphrase and the salt persisted in inner.
// The salt is generated on first use.
func New(ctx context.Context, inner storage.KVStore, passphrase string) (*Storage, error) {
	salt, err := inner.Get(ctx, saltKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("failed to read salt: %w", err)
		}

		salt, err = crypto.GenerateSalt()
		if err != nil {
			return nil, err
		}
		if err := inner.Set(ctx, saltKey, salt); err != nil {
			return nil, fmt.Errorf("failed to save salt: %w", err)
		}
	}

	key, err := crypto.DeriveStorageKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive storage key: %w", err)
	}

	return &Storage{
		inner: inner,
		key:   key,
	}, nil
}

// Get reads and decrypts value
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	value, err := crypto.Open(sealed, s.key, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", key, err)
	}

	return value, nil
}

// Set encrypts and writes value
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if key == saltKey {
		return fmt.Errorf("key %q is reserved", key)
	}

	sealed, err := crypto.Seal(value, s.key, []byte(key))
	if err != nil {
		return fmt.Errorf("failed to seal %q: %w", key, err)
	}

	return s.inner.Set(ctx, key, sealed)
}

// Delete removes key from inner store
func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Keys lists keys of inner store without the salt record
func (s *Storage) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.inner.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	out := keys[:0]
	for _, k := range keys {
		if k != saltKey {
			out = append(out, k)
		}
	}

	return out, nil
}
