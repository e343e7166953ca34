package txstate

import (
	"fmt"
	"sync"
	"time"
)

// DeployState is the lifecycle of one deployment. The chain is longer than a
// plain write because the service walks deploy → activate → initialize →
// register sequentially; each later phase consumes the prior phase's output.
//
//	Idle → Deploying → Activating → Initializing → Registering → Succeeded
//	any transient phase → Failed
//	Succeeded | Failed → Idle
type DeployState interface {
	deployState()
	Terminal() bool
}

// DeployIdle means no deployment is in flight.
type DeployIdle struct{}

// Deploying means the contract build/deploy step is running.
type Deploying struct{}

// Activating means the deployed program is being activated on-chain.
type Activating struct{}

// Initializing means the contract's initializer is being invoked.
type Initializing struct{}

// Registering means the instance is being recorded in the factory.
type Registering struct{}

// DeploySucceeded carries the final deployment result.
type DeploySucceeded struct {
	ContractAddress string
	TxHash          string
}

// DeployFailed carries the failure that ended the deployment.
type DeployFailed struct {
	Err error
}

func (DeployIdle) deployState()      {}
func (Deploying) deployState()       {}
func (Activating) deployState()      {}
func (Initializing) deployState()    {}
func (Registering) deployState()     {}
func (DeploySucceeded) deployState() {}
func (DeployFailed) deployState()    {}

func (DeployIdle) Terminal() bool      { return false }
func (Deploying) Terminal() bool       { return false }
func (Activating) Terminal() bool      { return false }
func (Initializing) Terminal() bool    { return false }
func (Registering) Terminal() bool     { return false }
func (DeploySucceeded) Terminal() bool { return true }
func (DeployFailed) Terminal() bool    { return true }

// deployOrder fixes the phase sequence; Advance walks it one step at a time.
var deployOrder = []DeployState{Deploying{}, Activating{}, Initializing{}, Registering{}}

// DeployTracker owns exactly one live DeployState, with the same timer-driven
// terminal reset behavior as Tracker.
type DeployTracker struct {
	mu         sync.Mutex
	state      DeployState
	clock      Clock
	resetDelay time.Duration
	resetTimer Timer
	seq        uint64
	listener   func(DeployState)
}

// DeployTrackerOption customizes a DeployTracker.
type DeployTrackerOption func(*DeployTracker)

// WithDeployClock substitutes the auto-reset clock.
func WithDeployClock(c Clock) DeployTrackerOption {
	return func(t *DeployTracker) { t.clock = c }
}

// WithDeployListener registers a per-transition callback.
func WithDeployListener(fn func(DeployState)) DeployTrackerOption {
	return func(t *DeployTracker) { t.listener = fn }
}

// NewDeployTracker creates a DeployTracker in DeployIdle.
func NewDeployTracker(resetDelay time.Duration, opts ...DeployTrackerOption) *DeployTracker {
	t := &DeployTracker{
		state:      DeployIdle{},
		clock:      SystemClock,
		resetDelay: resetDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns the current state.
func (t *DeployTracker) State() DeployState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Begin starts a deployment, moving to Deploying.
func (t *DeployTracker) Begin() error {
	t.mu.Lock()
	switch t.state.(type) {
	case DeployIdle, DeploySucceeded, DeployFailed:
	default:
		defer t.mu.Unlock()
		return &InvalidTransitionError{From: t.state, To: "deploying"}
	}
	t.cancelResetLocked()
	t.seq++
	t.state = Deploying{}
	t.notifyLocked()
	return nil
}

// Advance moves to the next transient phase. Phases are strictly sequential;
// advancing from anywhere but a transient phase (or past Registering) fails.
func (t *DeployTracker) Advance() error {
	t.mu.Lock()
	for i, phase := range deployOrder {
		if t.state == phase {
			if i+1 >= len(deployOrder) {
				defer t.mu.Unlock()
				return fmt.Errorf("no phase after %T; use Succeed", t.state)
			}
			t.state = deployOrder[i+1]
			t.notifyLocked()
			return nil
		}
	}
	defer t.mu.Unlock()
	return &InvalidTransitionError{From: t.state, To: "next phase"}
}

// Succeed completes the deployment from Registering, carrying the result
// exactly as the service returned it.
func (t *DeployTracker) Succeed(contractAddr, txHash string) error {
	t.mu.Lock()
	if _, ok := t.state.(Registering); !ok {
		defer t.mu.Unlock()
		return &InvalidTransitionError{From: t.state, To: "succeeded"}
	}
	t.state = DeploySucceeded{ContractAddress: contractAddr, TxHash: txHash}
	t.scheduleResetLocked()
	t.notifyLocked()
	return nil
}

// Fail ends the deployment from any transient phase.
func (t *DeployTracker) Fail(err error) error {
	t.mu.Lock()
	switch t.state.(type) {
	case Deploying, Activating, Initializing, Registering:
	default:
		defer t.mu.Unlock()
		return &InvalidTransitionError{From: t.state, To: "failed"}
	}
	t.state = DeployFailed{Err: err}
	t.scheduleResetLocked()
	t.notifyLocked()
	return nil
}

// Reset returns a terminal machine to DeployIdle.
func (t *DeployTracker) Reset() {
	t.mu.Lock()
	if !t.state.Terminal() {
		t.mu.Unlock()
		return
	}
	t.cancelResetLocked()
	t.state = DeployIdle{}
	t.notifyLocked()
}

func (t *DeployTracker) scheduleResetLocked() {
	t.cancelResetLocked()
	if t.resetDelay <= 0 {
		return
	}
	seq := t.seq
	t.resetTimer = t.clock.AfterFunc(t.resetDelay, func() {
		t.mu.Lock()
		if t.seq != seq || !t.state.Terminal() {
			t.mu.Unlock()
			return
		}
		t.state = DeployIdle{}
		t.notifyLocked()
	})
}

func (t *DeployTracker) cancelResetLocked() {
	if t.resetTimer != nil {
		t.resetTimer.Stop()
		t.resetTimer = nil
	}
}

func (t *DeployTracker) notifyLocked() {
	state := t.state
	fn := t.listener
	t.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}
