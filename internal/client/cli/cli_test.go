package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophboard/internal/client/api"
	"github.com/iudanet/gophboard/internal/client/auth"
	"github.com/iudanet/gophboard/internal/client/cache"
	"github.com/iudanet/gophboard/internal/client/hooks"
	"github.com/iudanet/gophboard/internal/client/iocli"
	"github.com/iudanet/gophboard/internal/client/storage"
	"github.com/iudanet/gophboard/internal/client/storage/memory"
	"github.com/iudanet/gophboard/internal/client/throttle"
	pkgapi "github.com/iudanet/gophboard/pkg/api"
)

// bufferIO собирает весь вывод в буфер
func bufferIO(out *bytes.Buffer, inputs ...string) *iocli.IOMock {
	var mu sync.Mutex
	next := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(inputs) == 0 {
			return "", io.EOF
		}
		v := inputs[0]
		inputs = inputs[1:]
		return v, nil
	}

	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) { fmt.Fprintln(out, a...) },
		PrintfFunc:  func(format string, a ...any) { fmt.Fprintf(out, format, a...) },
		WriteFunc:   func(p []byte) (int, error) { return out.Write(p) },
		ReadInputFunc: func(prompt string) (string, error) {
			return next()
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return next()
		},
	}
}

type cliFixture struct {
	cli       *Cli
	out       *bytes.Buffer
	io        *iocli.IOMock
	identity  *auth.IdentityClientMock
	requester *hooks.RequesterMock
	sessions  *auth.SessionStore
	tokens    *auth.TokenAccessor
	cache     *cache.Manager
}

func newCliFixture(t *testing.T, inputs ...string) *cliFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	durable := memory.New()
	adapter := storage.NewAdapter(durable, memory.New())

	th := throttle.New(throttle.DefaultPolicy(), logger)
	gate := throttle.NewGate(throttle.DefaultPolicy(), logger)
	t.Cleanup(func() {
		th.Stop()
		gate.Stop()
	})

	out := &bytes.Buffer{}
	f := &cliFixture{
		out:       out,
		io:        bufferIO(out, inputs...),
		identity:  &auth.IdentityClientMock{},
		requester: &hooks.RequesterMock{},
		sessions:  auth.NewSessionStore(adapter),
		tokens:    auth.NewTokenAccessor(adapter, logger),
		cache:     cache.NewManager(durable, cache.DefaultPolicy(), logger),
	}

	authService := auth.NewService(auth.ServiceDeps{
		Identity: f.identity,
		Tokens:   f.tokens,
		Sessions: f.sessions,
		Throttle: th,
		Gate:     gate,
		Cache:    f.cache,
		Logger:   logger,
	})

	f.cli = New(Deps{
		IO:          f.io,
		AuthService: authService,
		Requester:   f.requester,
		Cache:       f.cache,
		Logger:      logger,
	})
	return f
}

func TestCli_UnknownCommand(t *testing.T) {
	f := newCliFixture(t)

	err := f.cli.Run(context.Background(), "sync", nil)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, f.out.String(), "Usage:")
	assert.Contains(t, f.out.String(), "community-feed")
}

func TestCli_Login(t *testing.T) {
	f := newCliFixture(t, "ann@example.com", "secret")
	f.identity.PasswordGrantFunc = func(ctx context.Context, email, password string) (*pkgapi.SessionResponse, error) {
		assert.Equal(t, "ann@example.com", email)
		assert.Equal(t, "secret", password)
		return &pkgapi.SessionResponse{
			AccessToken:  "a1",
			RefreshToken: "r1",
			ExpiresAt:    1_700_003_600,
			User:         &pkgapi.User{Email: email},
		}, nil
	}

	require.NoError(t, f.cli.Run(context.Background(), "login", nil))

	assert.Contains(t, f.out.String(), "Login successful")
	assert.Contains(t, f.out.String(), "User: ann@example.com")

	b := f.tokens.GetToken(context.Background())
	assert.Equal(t, auth.SourceDurable, b.Source)
	assert.Equal(t, "a1", b.AccessToken)
}

func TestCli_Login_SessionOnlyWithFlags(t *testing.T) {
	f := newCliFixture(t)
	f.identity.PasswordGrantFunc = func(ctx context.Context, email, password string) (*pkgapi.SessionResponse, error) {
		assert.Equal(t, "from-file", password)
		return &pkgapi.SessionResponse{AccessToken: "a1", ExpiresIn: 3600}, nil
	}

	passwordFile := filepath.Join(t.TempDir(), "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte("from-file\n"), 0o600))

	err := f.cli.Run(context.Background(), "login", []string{
		"--email", "ann@example.com", "--password-file", passwordFile, "--session",
	})
	require.NoError(t, err)

	assert.Equal(t, auth.SourceSession, f.tokens.GetToken(context.Background()).Source)
	assert.Empty(t, f.io.ReadInputCalls())
	assert.Empty(t, f.io.ReadPasswordCalls())
}

func TestCli_Login_Failure(t *testing.T) {
	f := newCliFixture(t, "ann@example.com", "wrong")
	f.identity.PasswordGrantFunc = func(ctx context.Context, email, password string) (*pkgapi.SessionResponse, error) {
		return nil, errors.New("Invalid login credentials")
	}

	err := f.cli.Run(context.Background(), "login", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestCli_GetPassword_Priority(t *testing.T) {
	f := newCliFixture(t, "prompted")

	passwordFile := filepath.Join(t.TempDir(), "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte("from-file\n"), 0o600))

	got, err := f.cli.getPassword(Passwords{FromArgs: "from-args"})
	require.NoError(t, err)
	assert.Equal(t, "from-args", got)

	got, err = f.cli.getPassword(Passwords{FromFile: passwordFile, FromArgs: "from-args"})
	require.NoError(t, err)
	assert.Equal(t, "from-file", got)

	t.Setenv(PasswordEnv, "from-env")
	got, err = f.cli.getPassword(Passwords{FromFile: passwordFile})
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	t.Setenv(PasswordEnv, "")
	got, err = f.cli.getPassword(Passwords{})
	require.NoError(t, err)
	assert.Equal(t, "prompted", got)
}

func TestCli_GetPassword_EmptyFile(t *testing.T) {
	f := newCliFixture(t)
	passwordFile := filepath.Join(t.TempDir(), "password")
	require.NoError(t, os.WriteFile(passwordFile, []byte("  \n"), 0o600))

	_, err := f.cli.getPassword(Passwords{FromFile: passwordFile})
	assert.Error(t, err)
}

func TestCli_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("not authenticated", func(t *testing.T) {
		f := newCliFixture(t)
		require.NoError(t, f.cli.Run(ctx, "status", nil))
		assert.Contains(t, f.out.String(), "Not authenticated")
	})

	t.Run("authenticated with check", func(t *testing.T) {
		f := newCliFixture(t)
		require.NoError(t, f.sessions.Save(ctx, storage.AreaDurable, auth.TokenBundle{AccessToken: "a1"}))
		f.identity.GetUserFunc = func(ctx context.Context, accessToken string) (*pkgapi.User, error) {
			return &pkgapi.User{Email: "ann@example.com"}, nil
		}

		require.NoError(t, f.cli.Run(ctx, "status", []string{"--check"}))
		assert.Contains(t, f.out.String(), "Status: Authenticated")
		assert.Contains(t, f.out.String(), "Stored in: durable")
		assert.Contains(t, f.out.String(), "Token expires: unknown")
		assert.Contains(t, f.out.String(), "user ann@example.com")
	})
}

func TestCli_Logout(t *testing.T) {
	ctx := context.Background()
	f := newCliFixture(t)
	require.NoError(t, f.sessions.Save(ctx, storage.AreaSession, auth.TokenBundle{AccessToken: "a1"}))
	f.identity.LogoutFunc = func(ctx context.Context, accessToken string) error { return nil }

	require.NoError(t, f.cli.Run(ctx, "logout", nil))
	assert.Contains(t, f.out.String(), "Logged out")
	assert.False(t, f.tokens.GetToken(ctx).HasToken())
}

func TestCli_Fetch(t *testing.T) {
	f := newCliFixture(t)
	f.requester.RequestFunc = func(ctx context.Context, target string, opts *api.Options) *api.Response {
		assert.Equal(t, "/api/goals", target)
		return &api.Response{Body: json.RawMessage(`{"goals":["save"]}`), Status: http.StatusOK}
	}

	require.NoError(t, f.cli.Run(context.Background(), "fetch", []string{"goals"}))
	assert.JSONEq(t, `{"goals":["save"]}`, f.out.String())

	// второй запуск обслуживается из кеша
	f.out.Reset()
	require.NoError(t, f.cli.Run(context.Background(), "fetch", []string{"goals"}))
	assert.JSONEq(t, `{"goals":["save"]}`, f.out.String())
	assert.Len(t, f.requester.RequestCalls(), 1)
}

func TestCli_Fetch_Unauthorized(t *testing.T) {
	f := newCliFixture(t)
	f.requester.RequestFunc = func(ctx context.Context, target string, opts *api.Options) *api.Response {
		return &api.Response{Err: &api.Error{Message: api.MsgUnauthorized, Status: 401}, Status: 401}
	}

	err := f.cli.Run(context.Background(), "fetch", []string{"watchlist"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(401)")
	assert.Contains(t, f.out.String(), "gophboard login")
}

func TestCli_Fetch_Usage(t *testing.T) {
	f := newCliFixture(t)

	assert.ErrorIs(t, f.cli.Run(context.Background(), "fetch", nil), ErrUsage)
	assert.Error(t, f.cli.Run(context.Background(), "fetch", []string{"portfolio"}))
}

func TestCli_AddAndRemove(t *testing.T) {
	f := newCliFixture(t)
	f.requester.RequestFunc = func(ctx context.Context, target string, opts *api.Options) *api.Response {
		switch {
		case opts != nil && opts.Method == http.MethodPost:
			assert.Equal(t, "/api/watchlist", target)
			return &api.Response{Status: http.StatusCreated}
		case opts != nil && opts.Method == http.MethodDelete:
			assert.Equal(t, "/api/watchlist/w-1", target)
			return &api.Response{Status: http.StatusNoContent}
		default:
			return &api.Response{Body: json.RawMessage(`[]`), Status: http.StatusOK}
		}
	}
	ctx := context.Background()

	require.NoError(t, f.cli.Run(ctx, "add", []string{"watchlist", `{"company_id":"c-1"}`}))
	assert.Contains(t, f.out.String(), "Added")

	require.NoError(t, f.cli.Run(ctx, "remove", []string{"watchlist", "w-1"}))
	assert.Contains(t, f.out.String(), "Removed w-1")

	assert.ErrorIs(t, f.cli.Run(ctx, "add", []string{"watchlist", "{not json"}), ErrUsage)
	assert.ErrorIs(t, f.cli.Run(ctx, "remove", []string{"watchlist"}), ErrUsage)
}

func TestCli_CacheClear(t *testing.T) {
	ctx := context.Background()
	f := newCliFixture(t)
	require.NoError(t, f.cache.Set(ctx, cache.CompaniesList, []string{"c-1"}))

	require.NoError(t, f.cli.Run(ctx, "cache", []string{"clear"}))
	_, ok := cache.Load[[]string](ctx, f.cache, cache.CompaniesList)
	assert.False(t, ok)

	assert.ErrorIs(t, f.cli.Run(ctx, "cache", []string{"show"}), ErrUsage)
}
