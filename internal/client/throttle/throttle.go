// Package throttle tracks recent authentication failures per request target
// and suppresses repeat attempts inside cool-down and backoff windows.
//
// Per target the state moves Healthy -> Cooling(n) -> Throttled. A 401 moves a
// target to Cooling with a short window; once failures reach Threshold within
// FailureSpan the target is Throttled for the longer window. Any success
// drops the record, returning the target to Healthy immediately.
package throttle

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State of a target
type State int

const (
	// StateHealthy - записи нет, запросы не подавляются
	StateHealthy State = iota
	// StateCooling - недавний 401, подавление на CoolDown
	StateCooling
	// StateThrottled - порог достигнут, подавление на ThrottledWindow
	StateThrottled
)

// String returns human readable state name
func (s State) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateCooling:
		return "cooling"
	case StateThrottled:
		return "throttled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Policy задает окна и порог
type Policy struct {
	CoolDown        time.Duration // окно подавления после одиночного 401
	ThrottledWindow time.Duration // окно подавления после достижения порога
	FailureSpan     time.Duration // ошибки дальше друг от друга не накапливаются
	Threshold       int           // число 401 подряд до перехода в Throttled
}

// DefaultPolicy returns 5s cool-down, 3 failures, 30s throttled window
func DefaultPolicy() Policy {
	return Policy{
		CoolDown:        5 * time.Second,
		ThrottledWindow: 30 * time.Second,
		FailureSpan:     30 * time.Second,
		Threshold:       3,
	}
}

func (p Policy) normalize() Policy {
	def := DefaultPolicy()
	if p.CoolDown <= 0 {
		p.CoolDown = def.CoolDown
	}
	if p.ThrottledWindow <= 0 {
		p.ThrottledWindow = def.ThrottledWindow
	}
	if p.FailureSpan <= 0 {
		p.FailureSpan = p.ThrottledWindow
	}
	if p.Threshold <= 0 {
		p.Threshold = def.Threshold
	}
	return p
}

// Record is the failure bookkeeping of one target
type Record struct {
	LastFailureAt       time.Time
	Target              string
	ConsecutiveFailures int
}

// Throttle holds failure records keyed by target
type Throttle struct {
	records  map[string]*Record
	logger   *slog.Logger
	now      func() time.Time
	cleanupC chan struct{}
	policy   Policy
	mu       sync.Mutex
	stopOnce sync.Once
}

// Option configures Throttle
type Option func(*Throttle)

// WithClock overrides time source (tests)
func WithClock(now func() time.Time) Option {
	return func(t *Throttle) {
		t.now = now
	}
}

// New creates throttle and starts the goroutine that sweeps stale records.
// Call Stop to release it.
func New(policy Policy, logger *slog.Logger, opts ...Option) *Throttle {
	t := &Throttle{
		records:  make(map[string]*Record),
		policy:   policy.normalize(),
		logger:   logger,
		now:      time.Now,
		cleanupC: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	go t.cleanup()

	return t
}

// Policy returns effective policy
func (t *Throttle) Policy() Policy {
	return t.policy
}

// cleanup периодически удаляет записи, чьи окна давно истекли
func (t *Throttle) cleanup() {
	ticker := time.NewTicker(t.staleAfter())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.sweep()
		case <-t.cleanupC:
			return
		}
	}
}

func (t *Throttle) staleAfter() time.Duration {
	longest := t.policy.ThrottledWindow
	if t.policy.FailureSpan > longest {
		longest = t.policy.FailureSpan
	}
	return longest * 2
}

// sweep удаляет записи старше staleAfter
func (t *Throttle) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for target, r := range t.records {
		if now.Sub(r.LastFailureAt) > t.staleAfter() {
			delete(t.records, target)
		}
	}
}

// Stop останавливает cleanup goroutine
func (t *Throttle) Stop() {
	t.stopOnce.Do(func() {
		close(t.cleanupC)
	})
}

// ShouldSuppress reports whether a request to target must be answered locally
func (t *Throttle) ShouldSuppress(target string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.records[target]
	if !ok {
		return false
	}

	return t.now().Sub(r.LastFailureAt) < t.windowFor(r)
}

// RecordFailure registers a 401 for target
func (t *Throttle) RecordFailure(target string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	r, ok := t.records[target]
	if !ok {
		r = &Record{Target: target}
		t.records[target] = r
	}

	// Старые ошибки за пределами FailureSpan не копятся
	if ok && now.Sub(r.LastFailureAt) >= t.policy.FailureSpan {
		r.ConsecutiveFailures = 0
	}

	r.ConsecutiveFailures++
	r.LastFailureAt = now

	if r.ConsecutiveFailures >= t.policy.Threshold {
		t.logger.Warn("target throttled after repeated auth failures",
			"target", target,
			"failures", r.ConsecutiveFailures,
			"window", t.policy.ThrottledWindow)
	} else {
		t.logger.Debug("target cooling down after auth failure",
			"target", target,
			"failures", r.ConsecutiveFailures,
			"window", t.policy.CoolDown)
	}
}

// RecordSuccess resets target to Healthy
func (t *Throttle) RecordSuccess(target string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.records[target]; ok {
		delete(t.records, target)
		t.logger.Debug("target healthy again", "target", target)
	}
}

// State returns current state of target
func (t *Throttle) State(target string) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.records[target]
	if !ok {
		return StateHealthy
	}
	if t.now().Sub(r.LastFailureAt) >= t.windowFor(r) {
		// окно истекло; счетчик сохраняется до успеха или FailureSpan
		return StateHealthy
	}
	if r.ConsecutiveFailures >= t.policy.Threshold {
		return StateThrottled
	}
	return StateCooling
}

// Snapshot returns a copy of the record for target
func (t *Throttle) Snapshot(target string) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.records[target]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Reset drops all records (sign-out)
func (t *Throttle) Reset() {
	t.mu.Lock()
	t.records = make(map[string]*Record)
	t.mu.Unlock()
}

// windowFor вызывается под мьютексом
func (t *Throttle) windowFor(r *Record) time.Duration {
	if r.ConsecutiveFailures >= t.policy.Threshold {
		return t.policy.ThrottledWindow
	}
	return t.policy.CoolDown
}
