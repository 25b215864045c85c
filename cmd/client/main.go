package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iudanet/gophboard/internal/client/api"
	"github.com/iudanet/gophboard/internal/client/auth"
	"github.com/iudanet/gophboard/internal/client/cache"
	"github.com/iudanet/gophboard/internal/client/cli"
	"github.com/iudanet/gophboard/internal/client/identity"
	"github.com/iudanet/gophboard/internal/client/iocli"
	"github.com/iudanet/gophboard/internal/client/metrics"
	"github.com/iudanet/gophboard/internal/client/storage"
	"github.com/iudanet/gophboard/internal/client/storage/boltdb"
	"github.com/iudanet/gophboard/internal/client/storage/memory"
	"github.com/iudanet/gophboard/internal/client/storage/sealed"
	"github.com/iudanet/gophboard/internal/client/storage/sqlite"
	"github.com/iudanet/gophboard/internal/client/throttle"
	"github.com/iudanet/gophboard/internal/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

type closer interface {
	Close() error
}

func main() {
	os.Exit(run())
}

func run() int {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "gophboard.yaml", "Path to YAML config")
	envFile := flag.String("env-file", ".env", "Path to .env file")
	apiURL := flag.String("api", "", "Backend base URL")
	dbPath := flag.String("db", "", "Path to local database")
	driver := flag.String("driver", "", "Local database driver: bolt or sqlite")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	flag.Parse()

	if *showVersion {
		printVersion()
		return 0
	}

	stdio := iocli.NewStdio()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		return 1
	}

	cfg, err := config.Load(config.LoadOptions{ConfigPath: *configPath, EnvFile: *envFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Флаги имеют наивысший приоритет
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api":
			cfg.API.BaseURL = *apiURL
		case "db":
			cfg.Storage.Path = *dbPath
		case "driver":
			cfg.Storage.Driver = *driver
		case "log-level":
			cfg.Log.Level = *logLevel
		case "metrics-addr":
			cfg.Metrics.Addr = *metricsAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector("gophboard")
	if cfg.Metrics.Addr != "" {
		srv := startMetricsServer(cfg.Metrics.Addr, collector, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	durable, closeDurable, err := openDurable(ctx, cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := closeDurable.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	adapter := storage.NewAdapter(durable, memory.New())

	cacheArea, err := storage.ParseArea(cfg.Storage.CacheArea)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cacheStore, err := adapter.Area(cacheArea)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	policy, err := cache.DefaultPolicy().WithOverrides(cfg.Cache.TTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cacheManager := cache.NewManager(cacheStore, policy, logger, cache.WithMetrics(collector))

	throttlePolicy := throttle.Policy{
		CoolDown:        cfg.Throttle.CoolDown,
		ThrottledWindow: cfg.Throttle.ThrottledWindow,
		FailureSpan:     cfg.Throttle.FailureSpan,
		Threshold:       cfg.Throttle.Threshold,
	}
	failures := throttle.New(throttlePolicy, logger)
	defer failures.Stop()
	gate := throttle.NewGate(throttlePolicy, logger)
	defer gate.Stop()

	httpClient, err := api.NewHTTPClient(cfg.API.Timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	identityClient := identity.NewClient(cfg.API.BaseURL, cfg.API.AnonKey,
		identity.WithHTTPClient(httpClient),
		identity.WithPathPrefix(cfg.Identity.PathPrefix),
	)

	tokens := auth.NewTokenAccessor(adapter, logger)
	sessions := auth.NewSessionStore(adapter)
	refresher := auth.NewCoordinatedRefresher(
		auth.NewIdentityRefresher(tokens, sessions, identityClient, logger, collector),
	)

	apiClient, err := api.NewClient(api.Config{
		BaseURL:        cfg.API.BaseURL,
		AnonKey:        cfg.API.AnonKey,
		IdentityPrefix: cfg.Identity.PathPrefix,
		Timeout:        cfg.API.Timeout,
	}, tokens, refresher, failures, logger,
		api.WithHTTPClient(httpClient),
		api.WithMetrics(collector),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	authService := auth.NewService(auth.ServiceDeps{
		Identity: identityClient,
		Tokens:   tokens,
		Sessions: sessions,
		Throttle: failures,
		Gate:     gate,
		Cache:    cacheManager,
		Logger:   logger,
	})

	c := cli.New(cli.Deps{
		IO:          stdio,
		AuthService: authService,
		Requester:   apiClient,
		Cache:       cacheManager,
		Logger:      logger,
		Metrics:     collector,
	})

	if err := c.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openDurable открывает durable область; при заданной passphrase значения шифруются
func openDurable(ctx context.Context, cfg config.Storage) (storage.KVStore, closer, error) {
	var (
		store storage.KVStore
		c     closer
	)

	switch cfg.Driver {
	case "sqlite":
		s, err := sqlite.New(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		store, c = s, s
	default:
		s, err := boltdb.New(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		store, c = s, s
	}

	if cfg.Passphrase == "" {
		return store, c, nil
	}

	sealedStore, err := sealed.New(ctx, store, cfg.Passphrase)
	if err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("failed to unlock database: %w", err)
	}
	return sealedStore, c, nil
}

func startMetricsServer(addr string, collector *metrics.Collector, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return srv
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printVersion() {
	fmt.Printf("GophBoard Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
