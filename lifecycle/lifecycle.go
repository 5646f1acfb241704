// Package lifecycle counts the goroutines serving feed sources so callers
// can tell when every one of them has started and when all have stopped.
//
// A Tracker is shared by every source of one session, including sources
// started later by reload commands. Tracker.Go returns only once the new
// goroutine has registered itself, so Active never under-reports a source
// that was already handed out.
package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kbukum/itemfeed/logger"
	"github.com/kbukum/itemfeed/observability"
)

// Tracker counts running goroutines.
type Tracker struct {
	active  atomic.Int64
	mu      sync.Mutex
	idle    chan struct{}
	metrics *observability.Metrics
	log     *logger.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMetrics mirrors the counter to feed.components.active.
func WithMetrics(m *observability.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithLogger sets the logger used for start and stop events.
func WithLogger(l *logger.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// NewTracker returns an idle tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{idle: make(chan struct{})}
	close(t.idle)
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Get(logger.ComponentLifecycle)
	}
	return t
}

// Handle joins one goroutine started by Tracker.Go.
type Handle struct {
	name string
	done chan struct{}
}

// Name returns the name given to Go.
func (h *Handle) Name() string { return h.name }

// Done is closed after the goroutine deregistered.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the goroutine deregistered.
func (h *Handle) Wait() { <-h.done }

// Go runs fn on a new goroutine. The goroutine increments the counter
// before fn runs and decrements it after fn returns, including when fn
// panics. Go returns once the increment happened.
func (t *Tracker) Go(name string, fn func()) *Handle {
	h := &Handle{name: name, done: make(chan struct{})}
	started := make(chan struct{})
	go func() {
		t.enter(name)
		close(started)
		defer close(h.done)
		defer t.leave(name)
		fn()
	}()
	<-started
	return h
}

func (t *Tracker) enter(name string) {
	t.mu.Lock()
	if t.active.Add(1) == 1 {
		t.idle = make(chan struct{})
	}
	t.mu.Unlock()
	t.metrics.ComponentStarted(context.Background(), name)
	t.log.Debug("component started", logger.Fields(logger.FieldComponent, name))
}

func (t *Tracker) leave(name string) {
	t.metrics.ComponentStopped(context.Background(), name)
	t.log.Debug("component stopped", logger.Fields(logger.FieldComponent, name))
	t.mu.Lock()
	if t.active.Add(-1) == 0 {
		close(t.idle)
	}
	t.mu.Unlock()
}

// Active returns the number of registered goroutines.
func (t *Tracker) Active() int64 { return t.active.Load() }

// Idle reports whether no goroutine is registered.
func (t *Tracker) Idle() bool { return t.active.Load() == 0 }

// Wait blocks until the counter is zero or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	for {
		t.mu.Lock()
		idle := t.idle
		t.mu.Unlock()
		select {
		case <-idle:
			if t.Idle() {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
