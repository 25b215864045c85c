package throttle

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGate_TwoTierPolicy(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := NewGate(DefaultPolicy(), logger, WithClock(clock.Now))
	defer g.Stop()

	assert.False(t, g.ShouldSuppress())

	g.RecordFailure()
	assert.True(t, g.ShouldSuppress())
	assert.Equal(t, StateCooling, g.State())

	g.RecordFailure()
	g.RecordFailure()
	assert.Equal(t, StateThrottled, g.State())

	clock.Advance(29 * time.Second)
	assert.True(t, g.ShouldSuppress())
	clock.Advance(time.Second)
	assert.False(t, g.ShouldSuppress())

	g.RecordFailure()
	g.RecordSuccess()
	assert.False(t, g.ShouldSuppress())

	g.RecordFailure()
	g.Reset()
	assert.Equal(t, StateHealthy, g.State())
}
