// Package task runs asynchronous work whose results feed a reactive signal.
// Each Channel keeps at most one task alive: invoking it again cancels the
// previous task and only the latest result is ever applied.
package task

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/delaneyj/lazysignals/reactive"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Func is the work of one task. It should return promptly once ctx is done.
type Func[T any] func(ctx context.Context) (T, error)

const (
	stateRunning int32 = iota
	stateCancelled
	stateSettled
)

type Task[T any] struct {
	id     string
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
	state  atomic.Int32
	done   chan struct{}

	value T
	err   error
}

func (t *Task[T]) ID() string {
	return t.id
}

// Done is closed once the task function has returned.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Cancel cancels the task context. A cancelled task never writes its result.
// Cancelling a task whose result was already applied does nothing.
func (t *Task[T]) Cancel() {
	if t.state.CompareAndSwap(stateRunning, stateCancelled) {
		t.cancel()
	}
}

func (t *Task[T]) Cancelled() bool {
	return t.state.Load() == stateCancelled
}

// Wait blocks until the task function returns. A cancelled task reports the
// zero value and no error.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-t.done:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if t.Cancelled() {
		return zero, nil
	}
	return t.value, t.err
}

type Channel[T comparable] struct {
	rs     *reactive.ReactiveSystem
	pool   *Pool
	target *reactive.WriteableSignal[T]
	cfg    config

	mu       sync.Mutex
	current  *Task[T]
	seq      uint64
	disposed bool
}

// NewChannel binds a channel to target. Tasks are tracked in pool, or in a
// pool of their own when pool is nil. A channel created inside an effect or
// scope is disposed with it.
func NewChannel[T comparable](rs *reactive.ReactiveSystem, pool *Pool, target *reactive.WriteableSignal[T], opts ...Option) *Channel[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.resolveTracer()
	if pool == nil {
		pool = NewPool()
	}

	ch := &Channel[T]{
		rs:     rs,
		pool:   pool,
		target: target,
		cfg:    cfg,
	}
	reactive.OnCleanup(rs, ch.Dispose)
	return ch
}

// Invoke cancels the task in flight, if any, and starts fn on a new goroutine.
// Its result is handed to the reactive system with Dispatch and applied there
// if no newer task was invoked in the meantime.
func (ch *Channel[T]) Invoke(fn Func[T]) *Task[T] {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	ch.seq++
	ctx, cancel := context.WithCancel(ch.cfg.ctx)
	t := &Task[T]{
		id:     uuid.NewString(),
		seq:    ch.seq,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if prev := ch.current; prev != nil {
		prev.Cancel()
		ch.current = nil
	}
	if ch.disposed {
		t.Cancel()
		close(t.done)
		return t
	}

	ch.current = t
	ch.pool.track(t)
	go ch.run(t, fn)
	return t
}

// Current is the latest task whose result has not been applied yet.
func (ch *Channel[T]) Current() *Task[T] {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.current
}

// Dispose cancels the task in flight and makes later Invoke calls return
// cancelled tasks.
func (ch *Channel[T]) Dispose() {
	ch.mu.Lock()
	ch.disposed = true
	current := ch.current
	ch.current = nil
	ch.mu.Unlock()

	if current != nil {
		current.Cancel()
	}
}

func (ch *Channel[T]) run(t *Task[T], fn Func[T]) {
	ctx, span := ch.cfg.tracer.Start(t.ctx, ch.cfg.name+".invoke",
		trace.WithAttributes(
			attribute.String("task.id", t.id),
			attribute.Int64("task.seq", int64(t.seq)),
		),
	)
	defer func() {
		span.End()
		ch.pool.untrack(t)
		t.cancel()
		close(t.done)
	}()

	t.value, t.err = call(ctx, fn)

	if t.Cancelled() {
		span.SetAttributes(attribute.Bool("task.cancelled", true))
		ch.cfg.logger.Debug("task: result discarded", "channel", ch.cfg.name, "task", t.id, "reason", "cancelled")
		return
	}
	if t.err != nil {
		span.RecordError(t.err)
		span.SetStatus(codes.Error, t.err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	ch.rs.Dispatch(func() {
		ch.apply(t)
	})
}

func call[T any](ctx context.Context, fn Func[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()
	return fn(ctx)
}

// apply runs on the reactive goroutine.
func (ch *Channel[T]) apply(t *Task[T]) {
	ch.mu.Lock()
	latest := ch.current == t
	if latest {
		ch.current = nil
	}
	ch.mu.Unlock()

	if !latest || !t.state.CompareAndSwap(stateRunning, stateSettled) {
		ch.cfg.logger.Debug("task: result discarded", "channel", ch.cfg.name, "task", t.id, "reason", "superseded")
		return
	}

	if t.err != nil {
		handled := false
		if ch.cfg.errSignal != nil {
			ch.cfg.errSignal.SetValue(t.err)
			handled = true
		}
		if ch.cfg.onError != nil {
			ch.cfg.onError(t.err)
			handled = true
		}
		if !handled {
			ch.cfg.logger.Warn("task: failed", "channel", ch.cfg.name, "task", t.id, "error", t.err)
		}
		return
	}

	if ch.cfg.errSignal != nil {
		ch.cfg.errSignal.SetValue(nil)
	}
	ch.target.SetValue(t.value)
}
