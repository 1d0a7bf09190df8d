package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// SessionApplier consumes session-change events, e.g. the auth session store.
type SessionApplier interface {
	Apply(ctx context.Context, ev ports.SessionEvent)
}

// Dispatcher routes session events to a fixed set of workers using consistent
// hashing on the UID, so events of one user are applied in arrival order.
type Dispatcher struct {
	workers []chan ports.SessionEvent
	applier SessionApplier
	observe func(ports.SessionEvent)
	log     zerolog.Logger
}

type Option func(*Dispatcher)

// WithObserver is called for every event before it is applied.
func WithObserver(fn func(ports.SessionEvent)) Option {
	return func(d *Dispatcher) { d.observe = fn }
}

// WithQueueSize sets the per-worker buffer.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n <= 0 {
			return
		}
		for i := range d.workers {
			d.workers[i] = make(chan ports.SessionEvent, n)
		}
	}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, applier SessionApplier, log zerolog.Logger, opts ...Option) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SessionEvent, numWorkers),
		applier: applier,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SessionEvent, channelBuffer)
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands ev to the worker owning its UID. It blocks once that worker's
// buffer is full, or returns false when ctx ends first.
func (d *Dispatcher) Enqueue(ctx context.Context, ev ports.SessionEvent) bool {
	select {
	case d.workers[d.shardIndex(ev.UID)] <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Consume subscribes to src and enqueues every event until ctx is cancelled
// or the subscription closes.
func (d *Dispatcher) Consume(ctx context.Context, src ports.SessionEventSource) error {
	events, err := src.Subscribe(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			if !d.Enqueue(ctx, ev) {
				return
			}
		}
		d.log.Info().Msg("session event subscription closed")
	}()
	return nil
}

// shardIndex maps a UID deterministically to a worker index.
func (d *Dispatcher) shardIndex(uid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(uid))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SessionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if d.observe != nil {
				d.observe(ev)
			}
			d.log.Debug().
				Str("uid", ev.UID).
				Str("kind", string(ev.Kind)).
				Int("worker_id", id).
				Msg("applying session event")
			d.applier.Apply(ctx, ev)
		}
	}
}
