package loadable

import (
	"context"
	"sync"
)

// FetchFunc produces the value for a binding's load.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Binding is an observable Loadable with single-flight semantics: starting a
// new Load while a prior one is pending cancels the prior one's observation
// path. The in-flight call is cancelled via context, but even a completion
// that slips through is dropped unless its generation is still current, so
// only the latest result is ever delivered.
type Binding[T any] struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	current    Loadable[T]
	observers  []func(Loadable[T])
}

// NewBinding creates a binding in the not-requested state.
func NewBinding[T any]() *Binding[T] {
	return &Binding[T]{current: NotRequested[T]()}
}

// Current returns the binding's present value.
func (b *Binding[T]) Current() Loadable[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Observe registers fn to be called on every state transition. Observers run
// outside the binding's lock, in transition order.
func (b *Binding[T]) Observe(fn func(Loadable[T])) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, fn)
}

// Load starts a fetch for this binding, transitioning to StateLoading and then
// to StateLoaded or StateFailed. A Load issued while another is in flight
// supersedes it: the earlier fetch's context is cancelled and its result, if
// it arrives anyway, is discarded.
func (b *Binding[T]) Load(ctx context.Context, fetch FetchFunc[T]) {
	b.mu.Lock()
	b.generation++
	generation := b.generation
	if b.cancel != nil {
		b.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.current = Loading[T]()
	observers := append([]func(Loadable[T]){}, b.observers...)
	loading := b.current
	b.mu.Unlock()

	for _, fn := range observers {
		fn(loading)
	}

	go func() {
		value, err := fetch(loadCtx)

		b.mu.Lock()
		if generation != b.generation {
			// Superseded by a newer Load; drop this result.
			b.mu.Unlock()
			return
		}
		if err != nil {
			b.current = Failed[T](err)
		} else {
			b.current = Loaded(value)
		}
		result := b.current
		observers := append([]func(Loadable[T]){}, b.observers...)
		b.mu.Unlock()

		for _, fn := range observers {
			fn(result)
		}
	}()
}

// Reset cancels any in-flight load and returns the binding to not-requested.
func (b *Binding[T]) Reset() {
	b.mu.Lock()
	b.generation++
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.current = NotRequested[T]()
	result := b.current
	observers := append([]func(Loadable[T]){}, b.observers...)
	b.mu.Unlock()

	for _, fn := range observers {
		fn(result)
	}
}
