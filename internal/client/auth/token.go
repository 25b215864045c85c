// Package auth owns the bearer-token lifecycle on the client: reading the
// persisted session, deciding when it needs a refresh, refreshing it through
// the identity provider and signing in/out.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/gophboard/internal/client/storage"
)

// TokenKey - ключ, под которым сессия хранится в каждой области
const TokenKey = "gophboard.auth.token"

// RefreshBuffer - за сколько до истечения токен считается требующим обновления
const RefreshBuffer = 300 * time.Second

// Source указывает, из какой области прочитан токен
type Source int

const (
	// SourceNone - токена нет ни в одной области
	SourceNone Source = iota
	// SourceDurable - токен прочитан из durable области
	SourceDurable
	// SourceSession - токен прочитан из session области
	SourceSession
)

// String returns source name
func (s Source) String() string {
	switch s {
	case SourceDurable:
		return "durable"
	case SourceSession:
		return "session"
	default:
		return "none"
	}
}

// Area returns the storage area of the source. ok is false for SourceNone.
func (s Source) Area() (storage.Area, bool) {
	switch s {
	case SourceDurable:
		return storage.AreaDurable, true
	case SourceSession:
		return storage.AreaSession, true
	default:
		return storage.AreaDurable, false
	}
}

// TokenBundle - снимок текущей сессии. Заменяется целиком, не мутируется.
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // unix seconds, 0 если неизвестно
	Source       Source
}

// HasToken reports whether an access token is present
func (b TokenBundle) HasToken() bool {
	return b.AccessToken != ""
}

// SecondsRemaining returns seconds until expiry; negative once expired.
// Zero ExpiresAt means the expiry is unknown and 0 is returned.
func (b TokenBundle) SecondsRemaining(now time.Time) int64 {
	if b.ExpiresAt == 0 {
		return 0
	}
	return b.ExpiresAt - now.Unix()
}

// NeedsRefresh reports whether the token expires within RefreshBuffer.
// A bundle without token or with unknown expiry never needs refresh.
func (b TokenBundle) NeedsRefresh(now time.Time) bool {
	if !b.HasToken() || b.ExpiresAt == 0 {
		return false
	}
	return b.SecondsRemaining(now) < int64(RefreshBuffer/time.Second)
}

// storedSession - формат записи в хранилище
type storedSession struct {
	CurrentSession *storedTokens `json:"currentSession"`
	ExpiresAt      int64         `json:"expiresAt,omitempty"`
}

type storedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

var errNoSession = errors.New("no session in record")

func decodeBundle(data []byte, source Source) (TokenBundle, error) {
	var rec storedSession
	if err := json.Unmarshal(data, &rec); err != nil {
		return TokenBundle{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if rec.CurrentSession == nil || rec.CurrentSession.AccessToken == "" {
		return TokenBundle{}, errNoSession
	}

	expiresAt := rec.CurrentSession.ExpiresAt
	if expiresAt == 0 {
		expiresAt = rec.ExpiresAt
	}
	if expiresAt == 0 {
		expiresAt = jwtExpiry(rec.CurrentSession.AccessToken)
	}

	return TokenBundle{
		AccessToken:  rec.CurrentSession.AccessToken,
		RefreshToken: rec.CurrentSession.RefreshToken,
		ExpiresAt:    expiresAt,
		Source:       source,
	}, nil
}

func encodeBundle(b TokenBundle) ([]byte, error) {
	rec := storedSession{
		CurrentSession: &storedTokens{
			AccessToken:  b.AccessToken,
			RefreshToken: b.RefreshToken,
			ExpiresAt:    b.ExpiresAt,
		},
		ExpiresAt: b.ExpiresAt,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return data, nil
}

// jwtExpiry читает exp из JWT без проверки подписи. 0 если не удалось.
func jwtExpiry(token string) int64 {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.Unix()
}

// TokenAccessor читает текущую сессию: сначала durable, потом session область
type TokenAccessor struct {
	store  *storage.Adapter
	logger *slog.Logger
}

// NewTokenAccessor creates accessor over the storage adapter
func NewTokenAccessor(store *storage.Adapter, logger *slog.Logger) *TokenAccessor {
	return &TokenAccessor{
		store:  store,
		logger: logger,
	}
}

// GetToken returns the current bundle. It never fails: unreadable or
// malformed records are logged and treated as absent.
func (a *TokenAccessor) GetToken(ctx context.Context) TokenBundle {
	for _, src := range []Source{SourceDurable, SourceSession} {
		area, _ := src.Area()

		data, err := a.store.Get(ctx, area, TokenKey)
		if err != nil {
			if !errors.Is(err, storage.ErrKeyNotFound) {
				a.logger.Warn("failed to read session", "area", area, "error", err)
			}
			continue
		}

		bundle, err := decodeBundle(data, src)
		if err != nil {
			if !errors.Is(err, errNoSession) {
				a.logger.Warn("malformed session record", "area", area, "error", err)
			}
			continue
		}
		return bundle
	}

	return TokenBundle{Source: SourceNone}
}

// SessionStore записывает и удаляет сессию. Используется только refresher'ом и login/logout.
type SessionStore struct {
	store *storage.Adapter
}

// NewSessionStore creates session writer over the storage adapter
func NewSessionStore(store *storage.Adapter) *SessionStore {
	return &SessionStore{store: store}
}

// Save writes bundle into area, replacing the previous one
func (s *SessionStore) Save(ctx context.Context, area storage.Area, b TokenBundle) error {
	data, err := encodeBundle(b)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, area, TokenKey, data); err != nil {
		return fmt.Errorf("failed to save session to %s: %w", area, err)
	}
	return nil
}

// Clear removes the session from both areas
func (s *SessionStore) Clear(ctx context.Context) error {
	var errs []error
	for _, area := range []storage.Area{storage.AreaDurable, storage.AreaSession} {
		if err := s.store.Delete(ctx, area, TokenKey); err != nil {
			errs = append(errs, fmt.Errorf("failed to clear session in %s: %w", area, err))
		}
	}
	return errors.Join(errs...)
}
