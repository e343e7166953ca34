package txstate

import "time"

// Clock schedules deferred funcs. The production implementation delegates to
// time.AfterFunc; tests substitute a fake to make auto-reset deterministic.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable scheduled call.
type Timer interface {
	// Stop cancels the timer. Reports whether it was still pending.
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is the wall-clock implementation used outside tests.
var SystemClock Clock = realClock{}
