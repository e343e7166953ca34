package txstate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock collects scheduled funcs and fires them on demand.
type fakeClock struct {
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	ft := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, ft)
	return ft
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

// fire runs every armed timer that has not been stopped.
func (c *fakeClock) fire() {
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}

// record captures every state the listener observes.
func record(states *[]RequestState) func(RequestState) {
	return func(s RequestState) { *states = append(*states, s) }
}

// ---------------------------------------------------------------------------
// forward progression
// ---------------------------------------------------------------------------

func TestHappyPathSequence(t *testing.T) {
	var seen []RequestState
	tr := NewTracker(time.Second, WithClock(&fakeClock{}), WithListener(record(&seen)))

	require.NoError(t, tr.Begin("transfer"))
	require.NoError(t, tr.Confirm("0xabc"))
	require.NoError(t, tr.Succeed())

	require.Len(t, seen, 3)
	assert.Equal(t, Pending{Op: "transfer"}, seen[0])
	assert.Equal(t, Confirming{Op: "transfer", Hash: "0xabc"}, seen[1])
	assert.Equal(t, Succeeded{Op: "transfer", Hash: "0xabc"}, seen[2])
}

func TestSuccessNeverSkipsPending(t *testing.T) {
	tr := NewTracker(time.Second, WithClock(&fakeClock{}))

	// Straight to confirming or success from idle must be rejected.
	var ierr *InvalidTransitionError
	require.ErrorAs(t, tr.Confirm("0xabc"), &ierr)
	require.ErrorAs(t, tr.Succeed(), &ierr)
	assert.Equal(t, Idle{}, tr.State())
}

func TestSuccessRequiresConfirming(t *testing.T) {
	tr := NewTracker(time.Second, WithClock(&fakeClock{}))
	require.NoError(t, tr.Begin("mint"))

	// Pending → Succeeded directly would lose the hash; rejected.
	var ierr *InvalidTransitionError
	require.ErrorAs(t, tr.Succeed(), &ierr)
	assert.Equal(t, Pending{Op: "mint"}, tr.State())
}

func TestFailFromPendingAndConfirming(t *testing.T) {
	tr := NewTracker(time.Second, WithClock(&fakeClock{}))
	boom := errors.New("signer rejected")

	require.NoError(t, tr.Begin("burn"))
	require.NoError(t, tr.Fail(boom))
	failed, ok := tr.State().(Failed)
	require.True(t, ok)
	assert.Equal(t, boom, failed.Err)
	assert.Equal(t, "burn", failed.Op)

	tr.Reset()
	require.NoError(t, tr.Begin("burn"))
	require.NoError(t, tr.Confirm("0xdef"))
	require.NoError(t, tr.Fail(boom))
	_, ok = tr.State().(Failed)
	assert.True(t, ok)
}

func TestBeginWhileInFlightRejected(t *testing.T) {
	tr := NewTracker(time.Second, WithClock(&fakeClock{}))
	require.NoError(t, tr.Begin("transfer"))

	var ierr *InvalidTransitionError
	require.ErrorAs(t, tr.Begin("mint"), &ierr)
}

func TestBeginOverwritesTerminalState(t *testing.T) {
	tr := NewTracker(time.Second, WithClock(&fakeClock{}))
	require.NoError(t, tr.Begin("transfer"))
	require.NoError(t, tr.Fail(errors.New("nope")))

	require.NoError(t, tr.Begin("transfer"))
	assert.Equal(t, Pending{Op: "transfer"}, tr.State())
}

// ---------------------------------------------------------------------------
// auto-reset
// ---------------------------------------------------------------------------

func TestTerminalStateAutoResets(t *testing.T) {
	clock := &fakeClock{}
	tr := NewTracker(5*time.Second, WithClock(clock))

	require.NoError(t, tr.Begin("transfer"))
	require.NoError(t, tr.Confirm("0xabc"))
	require.NoError(t, tr.Succeed())
	require.Len(t, clock.timers, 1)
	assert.Equal(t, 5*time.Second, clock.timers[0].d)

	clock.fire()
	assert.Equal(t, Idle{}, tr.State())
}

func TestStaleTimerCannotClobberNewOperation(t *testing.T) {
	clock := &fakeClock{}
	tr := NewTracker(5*time.Second, WithClock(clock))

	require.NoError(t, tr.Begin("transfer"))
	require.NoError(t, tr.Fail(errors.New("nope")))

	// A new operation starts before the display timeout elapses.
	require.NoError(t, tr.Begin("mint"))
	require.NoError(t, tr.Confirm("0x123"))

	// The old timer firing now must not reset the in-flight operation.
	clock.fire()
	assert.Equal(t, Confirming{Op: "mint", Hash: "0x123"}, tr.State())
}

func TestExplicitResetCancelsTimer(t *testing.T) {
	clock := &fakeClock{}
	tr := NewTracker(5*time.Second, WithClock(clock))

	require.NoError(t, tr.Begin("transfer"))
	require.NoError(t, tr.Fail(errors.New("nope")))
	tr.Reset()
	assert.Equal(t, Idle{}, tr.State())
	assert.True(t, clock.timers[0].stopped)
}

func TestResetIgnoredWhileInFlight(t *testing.T) {
	tr := NewTracker(time.Second, WithClock(&fakeClock{}))
	require.NoError(t, tr.Begin("transfer"))

	tr.Reset() // submitted transactions cannot be withdrawn
	assert.Equal(t, Pending{Op: "transfer"}, tr.State())
}

func TestZeroDelayDisablesAutoReset(t *testing.T) {
	clock := &fakeClock{}
	tr := NewTracker(0, WithClock(clock))

	require.NoError(t, tr.Begin("transfer"))
	require.NoError(t, tr.Fail(errors.New("nope")))
	assert.Empty(t, clock.timers)
}
