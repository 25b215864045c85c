// Package hooks provides per-feature guarded fetches: single flight per
// subscription, cache-first reads, a bounded wait that never cancels the
// request, and silent discard of results arriving after unmount.
package hooks

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophboard/internal/client/api"
	"github.com/iudanet/gophboard/internal/client/cache"
	"github.com/iudanet/gophboard/internal/client/metrics"
)

//go:generate moq -out hook_mock.go . Requester Notifier

// MsgTimeout показывается, когда ожидание ответа истекло
const MsgTimeout = "request is taking longer than expected"

// Requester выполняет аутентифицированный запрос (api.Client)
type Requester interface {
	Request(ctx context.Context, target string, opts *api.Options) *api.Response
}

// Notifier - побочные эффекты уровня UI
type Notifier interface {
	// RedirectToLogin вызывается на 401
	RedirectToLogin()
	// Notice показывает временное сообщение
	Notice(msg string)
}

// Spec описывает фичу
type Spec struct {
	Feature     string
	Path        string
	CacheKey    cache.Key
	WaitTimeout time.Duration
}

// Deps - общие зависимости хуков
type Deps struct {
	Requester Requester
	Cache     *cache.Manager
	Notifier  Notifier
	Logger    *slog.Logger
	Metrics   *metrics.Collector
}

// Snapshot - наблюдаемое состояние хука
type Snapshot[T any] struct {
	Data    T
	Err     *api.Error
	Phase   Phase
	HasData bool
	Loading bool
}

// Option настраивает Hook
type Option[T any] func(*Hook[T])

// WithObserver registers fn called after every state change while mounted.
// fn runs under the guard lock and must not call back into the hook.
func WithObserver[T any](fn func(Snapshot[T])) Option[T] {
	return func(h *Hook[T]) {
		h.observer = fn
	}
}

// Hook - guarded fetch одной фичи в пределах одной подписки
type Hook[T any] struct {
	requester Requester
	cache     *cache.Manager
	notifier  Notifier
	logger    *slog.Logger
	metrics   *metrics.Collector
	guard     *MountGuard
	observer  func(Snapshot[T])
	spec      Spec
	id        string

	mu      sync.RWMutex
	data    T
	err     *api.Error
	hasData bool
	loading bool

	// writeMu упорядочивает запись в кеш и инвалидацию после мутации
	writeMu    sync.Mutex
	generation uint64
}

// New creates a mounted hook
func New[T any](deps Deps, spec Spec, opts ...Option[T]) *Hook[T] {
	if spec.WaitTimeout <= 0 {
		spec.WaitTimeout = 10 * time.Second
	}

	h := &Hook[T]{
		requester: deps.Requester,
		cache:     deps.Cache,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		guard:     NewMountGuard(),
		spec:      spec,
		id:        uuid.NewString(),
	}
	h.logger = deps.Logger.With("feature", spec.Feature, "hook_id", h.id)

	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Spec returns feature description
func (h *Hook[T]) Spec() Spec {
	return h.spec
}

// Data returns the current value and whether any value was loaded
func (h *Hook[T]) Data() (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data, h.hasData
}

// Loading reports whether the hook is waiting for a response
func (h *Hook[T]) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// Err returns the error of the last completed fetch
func (h *Hook[T]) Err() *api.Error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// Phase returns the subscription phase
func (h *Hook[T]) Phase() Phase {
	return h.guard.Phase()
}

// Mount performs the initial fetch once per subscription
func (h *Hook[T]) Mount(ctx context.Context) bool {
	if h.guard.Attempted() {
		return false
	}
	return h.FetchNow(ctx)
}

// Unmount cancels the subscription. Pending results are discarded.
func (h *Hook[T]) Unmount() {
	h.guard.Unmount()
	h.logger.Debug("hook unmounted")
}

// FetchNow loads the feature: from cache when valid, otherwise from network.
// Returns false without doing anything when unmounted or a fetch is in flight.
// It waits at most WaitTimeout; the request keeps running after that and its
// result still reaches the cache.
func (h *Hook[T]) FetchNow(ctx context.Context) bool {
	if !h.guard.Begin() {
		h.logger.Debug("fetch skipped", "in_progress", h.guard.InProgress())
		return false
	}
	h.fetch(ctx)
	return true
}

// fetch runs after a successful Begin or Requeue
func (h *Hook[T]) fetch(ctx context.Context) {
	if v, ok := cache.Load[T](ctx, h.cache, h.spec.CacheKey); ok {
		h.guard.IfMounted(func() {
			h.setState(func() {
				h.data = v
				h.hasData = true
				h.err = nil
			})
		})
		if !h.guard.End() {
			return
		}
		// кеш сбросила мутация: идем в сеть
	}

	h.guard.IfMounted(func() {
		h.setState(func() { h.loading = true })
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.loadUntilSettled(context.WithoutCancel(ctx))
	}()

	timer := time.NewTimer(h.spec.WaitTimeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		h.timedOut()
	case <-ctx.Done():
		h.logger.Debug("caller stopped waiting", "error", ctx.Err())
	}
}

// loadUntilSettled повторяет загрузку, пока мутации ставят ее в очередь
func (h *Hook[T]) loadUntilSettled(ctx context.Context) {
	for {
		h.load(ctx)
		if !h.guard.End() {
			return
		}
		h.logger.Debug("refetching after mutation")
	}
}

// load выполняет запрос; кеш и throttle видят результат даже после unmount.
// Результат, начатый до мутации, отбрасывается целиком.
func (h *Hook[T]) load(ctx context.Context) {
	gen := h.currentGeneration()
	res := api.Decode[T](h.requester.Request(ctx, h.spec.Path, nil))

	if !h.commit(ctx, gen, res) {
		h.logger.Debug("result dropped, feature mutated while loading", "status", res.Status)
		return
	}

	applied := h.guard.IfMounted(func() {
		h.setState(func() {
			h.loading = false
			if res.Err != nil {
				h.err = res.Err
				return
			}
			h.data = *res.Data
			h.hasData = true
			h.err = nil
		})
	})
	if !applied {
		h.logger.Debug("result discarded after unmount", "status", res.Status)
		return
	}

	if res.Err != nil {
		h.report(res.Err)
	}
}

// commit caches a successful result unless a mutation happened after gen
func (h *Hook[T]) commit(ctx context.Context, gen uint64, res api.FetchResult[T]) bool {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	if h.generation != gen {
		return false
	}
	if res.Err == nil {
		if err := h.cache.Set(ctx, h.spec.CacheKey, *res.Data); err != nil {
			h.logger.Warn("failed to cache result", "error", err)
		}
	}
	return true
}

func (h *Hook[T]) currentGeneration() uint64 {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return h.generation
}

func (h *Hook[T]) timedOut() {
	h.metrics.HookTimeout(h.spec.Feature)
	h.logger.Warn("fetch wait timed out", "timeout", h.spec.WaitTimeout)

	applied := h.guard.IfMounted(func() {
		h.setState(func() { h.loading = false })
	})
	if applied && h.notifier != nil {
		h.notifier.Notice(MsgTimeout)
	}
}

// report переводит ошибку в побочный эффект UI
func (h *Hook[T]) report(err *api.Error) {
	if h.notifier == nil {
		return
	}
	if err.Status == http.StatusUnauthorized {
		h.notifier.RedirectToLogin()
		return
	}
	h.notifier.Notice(err.Message)
}

// setState must be called under the guard lock
func (h *Hook[T]) setState(fn func()) {
	h.mu.Lock()
	fn()
	snap := Snapshot[T]{
		Data:    h.data,
		Err:     h.err,
		HasData: h.hasData,
		Loading: h.loading,
		Phase:   h.guard.phase,
	}
	h.mu.Unlock()

	if h.observer != nil {
		h.observer(snap)
	}
}

// Mutate sends a mutation, invalidates the feature cache and refetches
func (h *Hook[T]) Mutate(ctx context.Context, method, target string, body any) *api.Error {
	resp := h.requester.Request(ctx, target, &api.Options{Method: method, Body: body})
	if resp.Err != nil {
		if h.guard.Mounted() {
			h.report(resp.Err)
		}
		return resp.Err
	}

	h.writeMu.Lock()
	err := h.cache.Invalidate(ctx, h.spec.CacheKey)
	h.generation++
	h.writeMu.Unlock()
	if err != nil {
		h.logger.Warn("failed to invalidate cache", "error", err)
	}

	// Загрузка в полете вернет данные до мутации; она будет повторена
	if h.guard.Requeue() {
		h.fetch(ctx)
	} else if h.guard.Mounted() {
		h.logger.Debug("refetch queued behind in-flight fetch")
	}
	return nil
}

// Remove deletes item id of the feature collection
func (h *Hook[T]) Remove(ctx context.Context, id string) *api.Error {
	return h.Mutate(ctx, http.MethodDelete, h.itemPath(id), nil)
}

// Add creates an item in the feature collection
func (h *Hook[T]) Add(ctx context.Context, body any) *api.Error {
	return h.Mutate(ctx, http.MethodPost, h.spec.Path, body)
}

func (h *Hook[T]) itemPath(id string) string {
	return strings.TrimRight(h.spec.Path, "/") + "/" + url.PathEscape(id)
}
