package hooks

import (
	"fmt"
	"sync"
)

// Phase - состояние подписки
type Phase int

const (
	// PhaseIdle - загрузка еще не начиналась
	PhaseIdle Phase = iota
	// PhaseFetching - запрос в полете
	PhaseFetching
	// PhaseCompleted - последняя загрузка завершена
	PhaseCompleted
	// PhaseCancelled - подписка снята, терминальная фаза
	PhaseCancelled
)

// String returns phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetching:
		return "fetching"
	case PhaseCompleted:
		return "completed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MountGuard хранит флаги подписки и фазу.
// Все переходы выполняются под одним мьютексом.
type MountGuard struct {
	mu              sync.Mutex
	phase           Phase
	isMounted       bool
	fetchInProgress bool
	fetchAttempted  bool
	refetchPending  bool
}

// NewMountGuard returns a mounted guard in PhaseIdle
func NewMountGuard() *MountGuard {
	return &MountGuard{isMounted: true}
}

// Begin marks a fetch as started. It returns false when unmounted or a fetch
// is already in flight; the caller must not fetch then.
func (g *MountGuard) Begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isMounted || g.fetchInProgress {
		return false
	}
	g.fetchInProgress = true
	g.fetchAttempted = true
	g.phase = PhaseFetching
	return true
}

// Requeue starts a fetch like Begin. When a fetch is already in flight it
// queues one more run for the in-flight owner and returns false.
func (g *MountGuard) Requeue() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isMounted {
		return false
	}
	if g.fetchInProgress {
		g.refetchPending = true
		return false
	}
	g.fetchInProgress = true
	g.fetchAttempted = true
	g.phase = PhaseFetching
	return true
}

// End finishes the in-flight fetch. If a run was queued by Requeue and the
// guard is still mounted, the fetch stays in flight and End returns true:
// the caller must fetch again and call End once more.
// Otherwise phase moves to Completed unless cancelled.
func (g *MountGuard) End() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.refetchPending && g.isMounted {
		g.refetchPending = false
		return true
	}

	g.refetchPending = false
	g.fetchInProgress = false
	if g.phase != PhaseCancelled {
		g.phase = PhaseCompleted
	}
	return false
}

// IfMounted runs fn under the guard lock when still mounted.
// fn must not call back into the guard.
func (g *MountGuard) IfMounted(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isMounted {
		return false
	}
	fn()
	return true
}

// Unmount cancels the subscription. After it returns no IfMounted callback runs.
func (g *MountGuard) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.isMounted = false
	g.phase = PhaseCancelled
}

// Mounted reports whether the subscriber is still active
func (g *MountGuard) Mounted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isMounted
}

// InProgress reports whether a fetch is in flight
func (g *MountGuard) InProgress() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetchInProgress
}

// Attempted reports whether a fetch was ever started
func (g *MountGuard) Attempted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetchAttempted
}

// Phase returns current phase
func (g *MountGuard) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}
