package throttle

import (
	"log/slog"
)

// AuthSubsystem is the coarse key used for identity/session probes
const AuthSubsystem = "auth:session"

// Gate is the process-wide variant of Throttle for the session check path.
// Repeated session probes are the usual source of failure storms, so they
// share one counter regardless of the URL being probed.
type Gate struct {
	t *Throttle
}

// NewGate creates a gate with the same two-tier policy
func NewGate(policy Policy, logger *slog.Logger, opts ...Option) *Gate {
	return &Gate{t: New(policy, logger.With("scope", AuthSubsystem), opts...)}
}

// ShouldSuppress reports whether session probes are suppressed
func (g *Gate) ShouldSuppress() bool {
	return g.t.ShouldSuppress(AuthSubsystem)
}

// RecordFailure registers failed session probe
func (g *Gate) RecordFailure() {
	g.t.RecordFailure(AuthSubsystem)
}

// RecordSuccess resets the gate
func (g *Gate) RecordSuccess() {
	g.t.RecordSuccess(AuthSubsystem)
}

// State returns current gate state
func (g *Gate) State() State {
	return g.t.State(AuthSubsystem)
}

// Reset clears the gate (sign-out)
func (g *Gate) Reset() {
	g.t.Reset()
}

// Stop releases the cleanup goroutine
func (g *Gate) Stop() {
	g.t.Stop()
}
