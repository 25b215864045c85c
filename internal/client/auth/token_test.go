package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophboard/internal/client/storage"
	"github.com/iudanet/gophboard/internal/client/storage/memory"
)

func newTestAdapter() (*storage.Adapter, *memory.Storage, *memory.Storage) {
	durable := memory.New()
	session := memory.New()
	return storage.NewAdapter(durable, session), durable, session
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenBundle_NeedsRefresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name      string
		bundle    TokenBundle
		remaining int64
		want      bool
	}{
		{
			name:      "expires in 100s",
			bundle:    TokenBundle{AccessToken: "a", ExpiresAt: now.Unix() + 100},
			remaining: 100,
			want:      true,
		},
		{
			name:      "exactly at buffer",
			bundle:    TokenBundle{AccessToken: "a", ExpiresAt: now.Unix() + 300},
			remaining: 300,
			want:      false,
		},
		{
			name:      "one second inside buffer",
			bundle:    TokenBundle{AccessToken: "a", ExpiresAt: now.Unix() + 299},
			remaining: 299,
			want:      true,
		},
		{
			name:      "already expired",
			bundle:    TokenBundle{AccessToken: "a", ExpiresAt: now.Unix() - 10},
			remaining: -10,
			want:      true,
		},
		{
			name:      "fresh token",
			bundle:    TokenBundle{AccessToken: "a", ExpiresAt: now.Unix() + 3600},
			remaining: 3600,
			want:      false,
		},
		{
			name:   "unknown expiry",
			bundle: TokenBundle{AccessToken: "a"},
			want:   false,
		},
		{
			name:      "no token",
			bundle:    TokenBundle{ExpiresAt: now.Unix() + 10},
			remaining: 10,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.bundle.ExpiresAt != 0 {
				assert.Equal(t, tt.remaining, tt.bundle.SecondsRemaining(now))
			}
			assert.Equal(t, tt.want, tt.bundle.NeedsRefresh(now))
		})
	}
}

func TestTokenAccessor_GetToken(t *testing.T) {
	ctx := context.Background()

	t.Run("absent in both areas", func(t *testing.T) {
		adapter, _, _ := newTestAdapter()
		accessor := NewTokenAccessor(adapter, discardLogger())

		b := accessor.GetToken(ctx)
		assert.Equal(t, SourceNone, b.Source)
		assert.False(t, b.HasToken())
	})

	t.Run("durable wins over session", func(t *testing.T) {
		adapter, durable, session := newTestAdapter()
		require.NoError(t, durable.Set(ctx, TokenKey,
			[]byte(`{"currentSession":{"access_token":"durable-token","refresh_token":"r1","expires_at":1700000500}}`)))
		require.NoError(t, session.Set(ctx, TokenKey,
			[]byte(`{"currentSession":{"access_token":"session-token"},"expiresAt":1700000900}`)))

		b := NewTokenAccessor(adapter, discardLogger()).GetToken(ctx)
		assert.Equal(t, SourceDurable, b.Source)
		assert.Equal(t, "durable-token", b.AccessToken)
		assert.Equal(t, "r1", b.RefreshToken)
		assert.Equal(t, int64(1700000500), b.ExpiresAt)
	})

	t.Run("session only with top level expiry", func(t *testing.T) {
		adapter, _, session := newTestAdapter()
		require.NoError(t, session.Set(ctx, TokenKey,
			[]byte(`{"currentSession":{"access_token":"session-token"},"expiresAt":1700000900}`)))

		b := NewTokenAccessor(adapter, discardLogger()).GetToken(ctx)
		assert.Equal(t, SourceSession, b.Source)
		assert.Equal(t, "session-token", b.AccessToken)
		assert.Equal(t, int64(1700000900), b.ExpiresAt)
	})

	t.Run("malformed durable falls through to session", func(t *testing.T) {
		adapter, durable, session := newTestAdapter()
		require.NoError(t, durable.Set(ctx, TokenKey, []byte(`{not json`)))
		require.NoError(t, session.Set(ctx, TokenKey,
			[]byte(`{"currentSession":{"access_token":"session-token"}}`)))

		b := NewTokenAccessor(adapter, discardLogger()).GetToken(ctx)
		assert.Equal(t, SourceSession, b.Source)
		assert.Equal(t, "session-token", b.AccessToken)
	})

	t.Run("malformed everywhere is absent", func(t *testing.T) {
		adapter, durable, session := newTestAdapter()
		require.NoError(t, durable.Set(ctx, TokenKey, []byte(`[]`)))
		require.NoError(t, session.Set(ctx, TokenKey, []byte(`"x"`)))

		b := NewTokenAccessor(adapter, discardLogger()).GetToken(ctx)
		assert.Equal(t, SourceNone, b.Source)
	})

	t.Run("record without access token is absent", func(t *testing.T) {
		adapter, durable, _ := newTestAdapter()
		require.NoError(t, durable.Set(ctx, TokenKey, []byte(`{"currentSession":null}`)))

		b := NewTokenAccessor(adapter, discardLogger()).GetToken(ctx)
		assert.Equal(t, SourceNone, b.Source)
	})

	t.Run("expiry from jwt exp claim", func(t *testing.T) {
		adapter, durable, _ := newTestAdapter()
		exp := time.Unix(1_700_003_600, 0)
		token := signedToken(t, exp)
		require.NoError(t, durable.Set(ctx, TokenKey,
			[]byte(`{"currentSession":{"access_token":"`+token+`"}}`)))

		b := NewTokenAccessor(adapter, discardLogger()).GetToken(ctx)
		assert.Equal(t, exp.Unix(), b.ExpiresAt)
	})

	t.Run("storage error is treated as absent", func(t *testing.T) {
		failing := &storage.KVStoreMock{
			GetFunc: func(ctx context.Context, key string) ([]byte, error) {
				return nil, errors.New("disk on fire")
			},
		}
		adapter := storage.NewAdapter(failing, failing)

		b := NewTokenAccessor(adapter, discardLogger()).GetToken(ctx)
		assert.Equal(t, SourceNone, b.Source)
		assert.Len(t, failing.GetCalls(), 2)
	})
}

func TestSessionStore_SaveAndClear(t *testing.T) {
	ctx := context.Background()
	adapter, _, _ := newTestAdapter()
	sessions := NewSessionStore(adapter)
	accessor := NewTokenAccessor(adapter, discardLogger())

	bundle := TokenBundle{AccessToken: "a1", RefreshToken: "r1", ExpiresAt: 1700000000}
	require.NoError(t, sessions.Save(ctx, storage.AreaSession, bundle))

	got := accessor.GetToken(ctx)
	assert.Equal(t, SourceSession, got.Source)
	assert.Equal(t, "a1", got.AccessToken)
	assert.Equal(t, "r1", got.RefreshToken)
	assert.Equal(t, int64(1700000000), got.ExpiresAt)

	require.NoError(t, sessions.Save(ctx, storage.AreaDurable, bundle))
	require.NoError(t, sessions.Clear(ctx))

	assert.Equal(t, SourceNone, accessor.GetToken(ctx).Source)

	// повторная очистка не ошибка
	require.NoError(t, sessions.Clear(ctx))
}

func TestSource_Area(t *testing.T) {
	area, ok := SourceDurable.Area()
	assert.True(t, ok)
	assert.Equal(t, storage.AreaDurable, area)

	area, ok = SourceSession.Area()
	assert.True(t, ok)
	assert.Equal(t, storage.AreaSession, area)

	_, ok = SourceNone.Area()
	assert.False(t, ok)

	assert.Equal(t, "none", SourceNone.String())
	assert.Equal(t, "durable", SourceDurable.String())
}
