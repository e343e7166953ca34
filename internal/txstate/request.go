// Package txstate models the lifecycle of write operations and deployments
// as closed sum types with strictly forward transitions. Each variant carries
// only the data valid for that state: a hash exists only once the network has
// accepted the transaction, an error only once something failed.
package txstate

import (
	"fmt"
	"sync"
	"time"
)

// RequestState is the lifecycle of one write operation:
//
//	Idle → Pending → Confirming → Succeeded
//	       Pending | Confirming → Failed
//	Succeeded | Failed → Idle   (explicit reset or display timeout)
//
// No other transitions exist.
type RequestState interface {
	requestState()
	// Terminal reports whether the state ends an operation.
	Terminal() bool
}

// Idle means no operation is in flight.
type Idle struct{}

// Pending means the operation was submitted and awaits network acceptance.
type Pending struct {
	Op string
}

// Confirming means the network accepted the transaction and inclusion is
// awaited. The hash is known from this point on.
type Confirming struct {
	Op   string
	Hash string
}

// Succeeded means inclusion was confirmed.
type Succeeded struct {
	Op   string
	Hash string
}

// Failed means the operation failed at any point before success.
type Failed struct {
	Op  string
	Err error
}

func (Idle) requestState()       {}
func (Pending) requestState()    {}
func (Confirming) requestState() {}
func (Succeeded) requestState()  {}
func (Failed) requestState()     {}

func (Idle) Terminal() bool       { return false }
func (Pending) Terminal() bool    { return false }
func (Confirming) Terminal() bool { return false }
func (Succeeded) Terminal() bool  { return true }
func (Failed) Terminal() bool     { return true }

// InvalidTransitionError reports an attempt to move a machine somewhere its
// current state does not allow.
type InvalidTransitionError struct {
	From interface{} // RequestState or DeployState
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition to %s from %T", e.To, e.From)
}

// Tracker owns exactly one live RequestState. Entering a terminal state
// schedules an automatic return to Idle after the display interval; starting
// a new operation cancels that timer so a stale reset can never clobber a
// newer operation's state.
type Tracker struct {
	mu         sync.Mutex
	state      RequestState
	clock      Clock
	resetDelay time.Duration
	resetTimer Timer
	seq        uint64 // bumped per operation; guards stale timers
	listener   func(RequestState)
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithClock substitutes the clock used for auto-reset scheduling.
func WithClock(c Clock) TrackerOption {
	return func(t *Tracker) { t.clock = c }
}

// WithListener registers a callback invoked after every transition,
// including timer-driven resets. Called with the tracker lock released.
func WithListener(fn func(RequestState)) TrackerOption {
	return func(t *Tracker) { t.listener = fn }
}

// NewTracker creates a Tracker in Idle. resetDelay is how long a terminal
// state stays visible before the machine returns to Idle on its own.
func NewTracker(resetDelay time.Duration, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		state:      Idle{},
		clock:      SystemClock,
		resetDelay: resetDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current state.
func (t *Tracker) State() RequestState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Begin starts a new operation, moving to Pending. Allowed from Idle and from
// terminal states (a new operation overwrites the previous outcome). A Begin
// while a prior operation is still Pending/Confirming is a caller error.
func (t *Tracker) Begin(op string) error {
	t.mu.Lock()
	switch t.state.(type) {
	case Idle, Succeeded, Failed:
	default:
		defer t.mu.Unlock()
		return &InvalidTransitionError{From: t.state, To: "pending"}
	}
	t.cancelResetLocked()
	t.seq++
	t.state = Pending{Op: op}
	t.notifyLocked()
	return nil
}

// Confirm records network acceptance, moving Pending → Confirming.
func (t *Tracker) Confirm(hash string) error {
	t.mu.Lock()
	p, ok := t.state.(Pending)
	if !ok {
		defer t.mu.Unlock()
		return &InvalidTransitionError{From: t.state, To: "confirming"}
	}
	t.state = Confirming{Op: p.Op, Hash: hash}
	t.notifyLocked()
	return nil
}

// Succeed records confirmed inclusion, moving Confirming → Succeeded.
// Success cannot skip Confirming: the hash must have been observed first.
func (t *Tracker) Succeed() error {
	t.mu.Lock()
	c, ok := t.state.(Confirming)
	if !ok {
		defer t.mu.Unlock()
		return &InvalidTransitionError{From: t.state, To: "succeeded"}
	}
	t.state = Succeeded{Op: c.Op, Hash: c.Hash}
	t.scheduleResetLocked()
	t.notifyLocked()
	return nil
}

// Fail records a failure from Pending or Confirming.
func (t *Tracker) Fail(err error) error {
	t.mu.Lock()
	var op string
	switch s := t.state.(type) {
	case Pending:
		op = s.Op
	case Confirming:
		op = s.Op
	default:
		defer t.mu.Unlock()
		return &InvalidTransitionError{From: t.state, To: "failed"}
	}
	t.state = Failed{Op: op, Err: err}
	t.scheduleResetLocked()
	t.notifyLocked()
	return nil
}

// Reset forces the machine back to Idle from a terminal state. Resetting an
// already-idle machine is a no-op.
func (t *Tracker) Reset() {
	t.mu.Lock()
	if _, isIdle := t.state.(Idle); isIdle {
		t.mu.Unlock()
		return
	}
	if !t.state.Terminal() {
		// In-flight operations cannot be withdrawn; only terminal display
		// state is resettable.
		t.mu.Unlock()
		return
	}
	t.cancelResetLocked()
	t.state = Idle{}
	t.notifyLocked()
}

// scheduleResetLocked arms the display timeout for the current operation.
func (t *Tracker) scheduleResetLocked() {
	t.cancelResetLocked()
	if t.resetDelay <= 0 {
		return
	}
	seq := t.seq
	t.resetTimer = t.clock.AfterFunc(t.resetDelay, func() {
		t.mu.Lock()
		// A newer operation may have started since this timer was armed.
		if t.seq != seq || !t.state.Terminal() {
			t.mu.Unlock()
			return
		}
		t.state = Idle{}
		t.notifyLocked()
	})
}

func (t *Tracker) cancelResetLocked() {
	if t.resetTimer != nil {
		t.resetTimer.Stop()
		t.resetTimer = nil
	}
}

// notifyLocked releases the lock and fires the listener.
func (t *Tracker) notifyLocked() {
	state := t.state
	fn := t.listener
	t.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}
