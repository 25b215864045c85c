package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/iudanet/gophboard/internal/client/auth"
	"github.com/iudanet/gophboard/internal/client/cache"
	"github.com/iudanet/gophboard/internal/client/hooks"
	"github.com/iudanet/gophboard/internal/client/iocli"
	"github.com/iudanet/gophboard/internal/client/metrics"
)

// PasswordEnv - переменная окружения с паролем для неинтерактивного входа
const PasswordEnv = "GOPHBOARD_PASSWORD"

// ErrUsage возвращается при неверных аргументах команды
var ErrUsage = errors.New("invalid usage")

// Passwords - источники пароля
type Passwords struct {
	FromFile string
	FromArgs string
}

// Cli выполняет команды клиента
type Cli struct {
	io          iocli.IO
	authService *auth.Service
	requester   hooks.Requester
	cache       *cache.Manager
	logger      *slog.Logger
	metrics     *metrics.Collector
}

// Deps - зависимости CLI
type Deps struct {
	IO          iocli.IO
	AuthService *auth.Service
	Requester   hooks.Requester
	Cache       *cache.Manager
	Logger      *slog.Logger
	Metrics     *metrics.Collector
}

// New creates CLI
func New(deps Deps) *Cli {
	return &Cli{
		io:          deps.IO,
		authService: deps.AuthService,
		requester:   deps.Requester,
		cache:       deps.Cache,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
	}
}

// Run executes command with its arguments
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx, args)
	case "fetch":
		return c.runFetch(ctx, args)
	case "add":
		return c.runAdd(ctx, args)
	case "remove":
		return c.runRemove(ctx, args)
	case "cache":
		return c.runCache(ctx, args)
	default:
		PrintUsage(c.io)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}
}

// getPassword returns password with priority:
// 1. GOPHBOARD_PASSWORD environment variable
// 2. password file
// 3. command-line parameter
// 4. interactive prompt
func (c *Cli) getPassword(passwords Passwords) (string, error) {
	if envPassword := os.Getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if passwords.FromArgs != "" {
		return passwords.FromArgs, nil
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// PrintUsage prints command help
func PrintUsage(out iocli.IO) {
	out.Println("GophBoard Client")
	out.Println()
	out.Println("Usage:")
	out.Println("  gophboard [OPTIONS] COMMAND [ARGS]")
	out.Println()
	out.Println("Options:")
	out.Println("  --version              Show version information")
	out.Println("  --config PATH          YAML config file (default: gophboard.yaml)")
	out.Println("  --env-file PATH        .env file (default: .env)")
	out.Println("  --api URL              Backend base URL")
	out.Println("  --db PATH              Path to local database")
	out.Println("  --driver NAME          Local database driver: bolt or sqlite")
	out.Println("  --log-level LEVEL      debug, info, warn or error")
	out.Println("  --metrics-addr ADDR    Serve Prometheus metrics on ADDR")
	out.Println()
	out.Println("Commands:")
	out.Println("  login [--email E] [--password-file F] [--session]")
	out.Println("                         Sign in; --session keeps the session for this process only")
	out.Println("  logout                 Sign out and clear local session, cache and throttle state")
	out.Println("  status [--check]       Show local session; --check verifies it with the server")
	out.Println("  fetch FEATURE          Load a feature (cache first)")
	out.Println("  add FEATURE JSON       Create an item and refresh the feature")
	out.Println("  remove FEATURE ID      Delete an item and refresh the feature")
	out.Println("  cache clear            Drop every cached feature")
	out.Println()
	out.Printf("Features: %s\n", strings.Join(hooks.Features(), ", "))
	out.Println()
	out.Printf("Password priority: %s, --password-file, --password, prompt\n", PasswordEnv)
}
