package txstate

// AsyncStatus enumerates the lifecycle of an asynchronously fetched value.
type AsyncStatus int

const (
	AsyncIdle AsyncStatus = iota
	AsyncLoading
	AsyncSuccess
	AsyncError
)

func (s AsyncStatus) String() string {
	switch s {
	case AsyncIdle:
		return "idle"
	case AsyncLoading:
		return "loading"
	case AsyncSuccess:
		return "success"
	case AsyncError:
		return "error"
	}
	return "unknown"
}

// Async wraps a fetched read value. Instances are replaced wholesale on each
// fetch, never partially mutated; Value is meaningful only on AsyncSuccess
// and Err only on AsyncError.
type Async[T any] struct {
	Status AsyncStatus
	Value  T
	Err    error
}

// AsyncOf returns an idle Async.
func AsyncOf[T any]() Async[T] { return Async[T]{Status: AsyncIdle} }

// Loading returns a loading Async.
func Loading[T any]() Async[T] { return Async[T]{Status: AsyncLoading} }

// Ready returns a successful Async carrying v.
func Ready[T any](v T) Async[T] { return Async[T]{Status: AsyncSuccess, Value: v} }

// Errored returns a failed Async carrying err.
func Errored[T any](err error) Async[T] { return Async[T]{Status: AsyncError, Err: err} }
