// Package fetch provides Resource, a reusable loader that calls a producer,
// keeps the last data/error/loading state and re-runs the producer when its
// dependencies change.
package fetch

import (
	"context"
	"reflect"
	"sync"

	"github.com/onestopshop/storefront/internal/core/envelope"
)

// Producer loads the resource payload.
type Producer[T any] func(ctx context.Context) envelope.Envelope[T]

// State is a snapshot of a Resource.
type State[T any] struct {
	Data       T      `json:"data"`
	Loading    bool   `json:"loading"`
	Error      string `json:"error,omitempty"`
	Generation uint64 `json:"generation"`
}

// Failed reports whether the last completed invocation failed.
func (s State[T]) Failed() bool { return s.Error != "" }

// Option configures a Resource.
type Option func(*options)

type options struct {
	notify func(context string, message string)
}

// WithNotifier surfaces failure messages, e.g. to a log or a toast channel.
func WithNotifier(fn func(context string, message string)) Option {
	return func(o *options) { o.notify = fn }
}

// Resource is safe for concurrent use. Every invocation takes a generation
// number; a completion whose generation is no longer the latest is dropped so
// a slow, stale response can never overwrite a newer one.
type Resource[T any] struct {
	produce Producer[T]
	opts    options

	mu      sync.Mutex
	deps    []any
	started bool
	gen     uint64
	state   State[T]
}

func New[T any](produce Producer[T], opts ...Option) *Resource[T] {
	r := &Resource[T]{produce: produce}
	for _, o := range opts {
		o(&r.opts)
	}
	return r
}

// Use runs the producer on first use and whenever deps differ from the
// previous call, then returns the resulting state. Otherwise it returns the
// current state untouched.
func (r *Resource[T]) Use(ctx context.Context, deps ...any) State[T] {
	r.mu.Lock()
	changed := !r.started || !reflect.DeepEqual(r.deps, deps)
	if changed {
		r.started = true
		r.deps = append([]any(nil), deps...)
	}
	r.mu.Unlock()

	if !changed {
		return r.State()
	}
	return r.Refetch(ctx)
}

// Refetch invokes the producer unconditionally.
func (r *Resource[T]) Refetch(ctx context.Context) State[T] {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.state.Loading = true
	r.state.Error = ""
	r.mu.Unlock()

	env := r.produce(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return r.state
	}
	r.state.Generation = gen
	r.state.Loading = false
	if env.Success {
		r.state.Data = env.Data
		return r.state
	}
	r.state.Error = env.Message
	if r.opts.notify != nil {
		r.opts.notify(env.Context, env.Message)
	}
	return r.state
}

// State returns the current snapshot without invoking the producer.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
