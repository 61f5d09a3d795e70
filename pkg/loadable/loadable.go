// Package loadable provides the observable value type surfaced to view models:
// a small state machine over not-requested, loading, loaded and failed, plus a
// binding that enforces at-most-one-in-flight-per-binding semantics.
package loadable

// State is the lifecycle position of a Loadable value.
type State int

const (
	StateNotRequested State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotRequested:
		return "notRequested"
	case StateLoading:
		return "isLoading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Loadable is a tagged union over the four states. The zero value is
// StateNotRequested.
type Loadable[T any] struct {
	state State
	value T
	err   error
}

// NotRequested returns a Loadable in its initial state.
func NotRequested[T any]() Loadable[T] { return Loadable[T]{state: StateNotRequested} }

// Loading returns a Loadable in the in-flight state.
func Loading[T any]() Loadable[T] { return Loadable[T]{state: StateLoading} }

// Loaded returns a successfully loaded value.
func Loaded[T any](value T) Loadable[T] { return Loadable[T]{state: StateLoaded, value: value} }

// Failed returns a failed Loadable carrying the error.
func Failed[T any](err error) Loadable[T] { return Loadable[T]{state: StateFailed, err: err} }

// State returns the lifecycle position.
func (l Loadable[T]) State() State { return l.state }

// Value returns the loaded value and whether one is present.
func (l Loadable[T]) Value() (T, bool) {
	return l.value, l.state == StateLoaded
}

// Err returns the failure error, nil unless StateFailed.
func (l Loadable[T]) Err() error { return l.err }
