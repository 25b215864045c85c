package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/gophboard/internal/client/cache"
	"github.com/iudanet/gophboard/internal/client/identity"
	"github.com/iudanet/gophboard/internal/client/storage"
	"github.com/iudanet/gophboard/internal/client/throttle"
	"github.com/iudanet/gophboard/pkg/api"
)

//go:generate moq -out service_mock.go . IdentityClient

var (
	// ErrNotAuthenticated - локальной сессии нет
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired - identity провайдер отклонил токен
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionCheckSuppressed - проверка сессии подавлена после серии 401
	ErrSessionCheckSuppressed = errors.New("session check suppressed: too many failed attempts")
)

// IdentityClient определяет операции identity провайдера, нужные сервису
type IdentityClient interface {
	RefreshGranter

	PasswordGrant(ctx context.Context, email, password string) (*api.SessionResponse, error)
	GetUser(ctx context.Context, accessToken string) (*api.User, error)
	Logout(ctx context.Context, accessToken string) error
}

// Service предоставляет вход, выход и проверку сессии
type Service struct {
	identity IdentityClient
	tokens   *TokenAccessor
	sessions *SessionStore
	throttle *throttle.Throttle
	gate     *throttle.Gate
	cache    *cache.Manager
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceDeps - зависимости сервиса
type ServiceDeps struct {
	Identity IdentityClient
	Tokens   *TokenAccessor
	Sessions *SessionStore
	Throttle *throttle.Throttle
	Gate     *throttle.Gate
	Cache    *cache.Manager
	Logger   *slog.Logger
}

// NewService создает новый сервис авторизации
func NewService(deps ServiceDeps) *Service {
	return &Service{
		identity: deps.Identity,
		tokens:   deps.Tokens,
		sessions: deps.Sessions,
		throttle: deps.Throttle,
		gate:     deps.Gate,
		cache:    deps.Cache,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// LoginResult содержит результат входа
type LoginResult struct {
	User      *api.User
	Area      storage.Area
	ExpiresAt int64
}

// Login выполняет вход по email/паролю.
// remember=true сохраняет сессию в durable области, иначе в session.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (*LoginResult, error) {
	resp, err := s.identity.PasswordGrant(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, errors.New("login failed: empty access token")
	}

	area := storage.AreaSession
	if remember {
		area = storage.AreaDurable
	}

	// старая сессия в другой области не должна перекрывать новую
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear previous session", "error", err)
	}

	bundle := BundleFromSession(resp, s.now())
	if err := s.sessions.Save(ctx, area, bundle); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.throttle.Reset()
	s.gate.Reset()

	s.logger.Info("logged in", "area", area, "expires_at", bundle.ExpiresAt)

	return &LoginResult{
		User:      resp.User,
		Area:      area,
		ExpiresAt: bundle.ExpiresAt,
	}, nil
}

// Logout выполняет выход: уведомляет провайдера (best effort), удаляет
// сессию из обеих областей, сбрасывает throttle и очищает кеш.
func (s *Service) Logout(ctx context.Context) error {
	current := s.tokens.GetToken(ctx)
	if current.HasToken() {
		if err := s.identity.Logout(ctx, current.AccessToken); err != nil {
			s.logger.Warn("server logout failed", "error", err)
		}
	}

	var errs []error
	if err := s.sessions.Clear(ctx); err != nil {
		errs = append(errs, err)
	}

	s.throttle.Reset()
	s.gate.Reset()

	if err := s.cache.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear cache: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	s.logger.Info("logged out")
	return nil
}

// CheckSession проверяет токен у identity провайдера.
// Проверки подавляются общим Gate после серии 401.
func (s *Service) CheckSession(ctx context.Context) (*api.User, error) {
	if s.gate.ShouldSuppress() {
		return nil, ErrSessionCheckSuppressed
	}

	current := s.tokens.GetToken(ctx)
	if !current.HasToken() {
		return nil, ErrNotAuthenticated
	}

	user, err := s.identity.GetUser(ctx, current.AccessToken)
	if err != nil {
		if errors.Is(err, identity.ErrUnauthorized) {
			s.gate.RecordFailure()
			return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		return nil, fmt.Errorf("session check failed: %w", err)
	}

	s.gate.RecordSuccess()
	return user, nil
}

// Status returns the current local session without contacting the provider
func (s *Service) Status(ctx context.Context) TokenBundle {
	return s.tokens.GetToken(ctx)
}
