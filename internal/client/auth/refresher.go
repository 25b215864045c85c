package auth

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iudanet/gophboard/internal/client/metrics"
	"github.com/iudanet/gophboard/internal/client/storage"
	"github.com/iudanet/gophboard/pkg/api"
)

//go:generate moq -out refresher_mock.go . SessionRefresher RefreshGranter

// SessionRefresher обновляет сессию через identity провайдера.
// Возвращает true, если новый токен сохранен.
type SessionRefresher interface {
	Refresh(ctx context.Context) bool
}

// RefreshGranter - часть identity клиента, нужная для refresh
type RefreshGranter interface {
	RefreshGrant(ctx context.Context, refreshToken string) (*api.SessionResponse, error)
}

// IdentityRefresher обменивает refresh token на новую сессию и записывает ее
// в ту же область, из которой была прочитана текущая.
type IdentityRefresher struct {
	tokens   *TokenAccessor
	sessions *SessionStore
	granter  RefreshGranter
	logger   *slog.Logger
	metrics  *metrics.Collector
	now      func() time.Time
}

// NewIdentityRefresher creates refresher
func NewIdentityRefresher(
	tokens *TokenAccessor,
	sessions *SessionStore,
	granter RefreshGranter,
	logger *slog.Logger,
	collector *metrics.Collector,
) *IdentityRefresher {
	return &IdentityRefresher{
		tokens:   tokens,
		sessions: sessions,
		granter:  granter,
		logger:   logger,
		metrics:  collector,
		now:      time.Now,
	}
}

// Refresh implements SessionRefresher
func (r *IdentityRefresher) Refresh(ctx context.Context) bool {
	ok := r.refresh(ctx)
	r.metrics.Refresh(ok)
	return ok
}

func (r *IdentityRefresher) refresh(ctx context.Context) bool {
	current := r.tokens.GetToken(ctx)
	if current.RefreshToken == "" {
		r.logger.Debug("session refresh skipped: no refresh token", "source", current.Source)
		return false
	}

	resp, err := r.granter.RefreshGrant(ctx, current.RefreshToken)
	if err != nil {
		r.logger.Warn("session refresh failed", "error", err)
		return false
	}
	if resp.AccessToken == "" {
		r.logger.Warn("session refresh returned empty access token")
		return false
	}

	next := BundleFromSession(resp, r.now())
	if next.RefreshToken == "" {
		next.RefreshToken = current.RefreshToken
	}

	area, known := current.Source.Area()
	if !known {
		area = storage.AreaDurable
	}

	if err := r.sessions.Save(ctx, area, next); err != nil {
		r.logger.Error("failed to persist refreshed session", "area", area, "error", err)
		return false
	}

	r.logger.Info("session refreshed", "area", area, "expires_at", next.ExpiresAt)
	return true
}

// BundleFromSession converts identity response to a bundle.
// Expiry: expires_at, then now+expires_in, then the JWT exp claim.
func BundleFromSession(resp *api.SessionResponse, now time.Time) TokenBundle {
	expiresAt := resp.ExpiresAt
	if expiresAt == 0 && resp.ExpiresIn > 0 {
		expiresAt = now.Unix() + resp.ExpiresIn
	}
	if expiresAt == 0 {
		expiresAt = jwtExpiry(resp.AccessToken)
	}
	return TokenBundle{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

// CoordinatedRefresher объединяет одновременные refresh в один вызов identity
type CoordinatedRefresher struct {
	inner SessionRefresher
	group singleflight.Group
}

// NewCoordinatedRefresher wraps inner refresher
func NewCoordinatedRefresher(inner SessionRefresher) *CoordinatedRefresher {
	return &CoordinatedRefresher{inner: inner}
}

// Refresh implements SessionRefresher. Callers arriving while a refresh is in
// flight share its result.
func (c *CoordinatedRefresher) Refresh(ctx context.Context) bool {
	v, _, _ := c.group.Do("refresh", func() (any, error) {
		// один из ожидающих не должен отменить общий refresh
		return c.inner.Refresh(context.WithoutCancel(ctx)), nil
	})
	ok, _ := v.(bool)
	return ok
}
