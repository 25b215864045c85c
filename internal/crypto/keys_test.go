package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	a, err := GenerateSalt()
	require.NoError(t, err)
	b, err := GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, a, SaltSize)
	assert.NotEqual(t, a, b)
}

func TestDeriveStorageKey(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	key1, err := DeriveStorageKey("correct horse", salt)
	require.NoError(t, err)
	assert.Len(t, key1, KeySize)

	// Детерминированность
	key2, err := DeriveStorageKey("correct horse", salt)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	// Другая passphrase - другой ключ
	key3, err := DeriveStorageKey("battery staple", salt)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key3)
}

func TestDeriveStorageKey_Validation(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	_, err = DeriveStorageKey("", salt)
	assert.ErrorContains(t, err, "passphrase cannot be empty")

	_, err = DeriveStorageKey("pass", []byte("short"))
	assert.ErrorContains(t, err, "salt must be 16 bytes")
}
