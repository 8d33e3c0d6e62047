// Package reactive is a push-pull signal graph: writable signals, lazy
// memoized computeds, effects, ownership scopes and mount notifications.
package reactive

import (
	"fmt"
	"log/slog"
)

type OnErrorFunc func(from SignalAware, err error)

// ReactiveSystem owns one dependency graph. It is not safe for concurrent use:
// everything except Dispatch must be called from the goroutine that owns it.
type ReactiveSystem struct {
	batchDepth int
	activeSub  *node
	pauseStack []*node

	activeOwner *owner

	queue     []*EffectRunner
	queueHead int

	mountQueue []*node
	mountHead  int

	settling bool
	flushID  uint64
	version  uint64

	onError       OnErrorFunc
	logger        *slog.Logger
	maxEffectRuns int
	devMode       bool
	instr         Instrumentation

	dispatcher
}

// CreateReactiveSystem returns an empty system. Errors returned by effect and
// scope bodies go to onError; when it is nil they are logged.
func CreateReactiveSystem(onError OnErrorFunc, opts ...Option) *ReactiveSystem {
	rs := &ReactiveSystem{
		onError:       onError,
		logger:        slog.Default(),
		maxEffectRuns: DefaultMaxEffectRuns,
		instr:         noopInstrumentation{},
	}
	for _, opt := range opts {
		opt(rs)
	}
	rs.dispatcher.init()
	return rs
}

func (rs *ReactiveSystem) StartBatch() {
	rs.batchDepth++
}

func (rs *ReactiveSystem) EndBatch() {
	if rs.batchDepth == 0 {
		panic(ErrUnbalancedBatch)
	}
	rs.batchDepth--
	if rs.batchDepth == 0 {
		rs.settle()
	}
}

// Batch runs cb with effect execution and mount transitions deferred until the
// outermost batch exits.
func (rs *ReactiveSystem) Batch(cb func()) {
	rs.withBatch(cb)
}

// BatchValue is Batch for callbacks that produce a value.
func BatchValue[T any](rs *ReactiveSystem, fn func() T) (v T) {
	rs.withBatch(func() {
		v = fn()
	})
	return v
}

// withBatch restores the batch depth on every exit path. A panicking callback
// leaves queued work in place for the next settle instead of running it while
// the panic unwinds.
func (rs *ReactiveSystem) withBatch(fn func()) {
	rs.batchDepth++
	ok := false
	defer func() {
		if ok {
			rs.EndBatch()
		} else {
			rs.batchDepth--
		}
	}()
	fn()
	ok = true
}

func (rs *ReactiveSystem) PauseTracking() {
	rs.pauseStack = append(rs.pauseStack, rs.activeSub)
	rs.activeSub = nil
}

func (rs *ReactiveSystem) ResumeTracking() {
	lastIdx := len(rs.pauseStack) - 1
	rs.activeSub = rs.pauseStack[lastIdx]
	rs.pauseStack = rs.pauseStack[:lastIdx]
}

// Untrack runs fn without recording any reads against the active subscriber.
func Untrack[T any](rs *ReactiveSystem, fn func() T) T {
	prev := rs.activeSub
	rs.activeSub = nil
	defer func() {
		rs.activeSub = prev
	}()
	return fn()
}

// settle drains the effect queue and the mount queue until both are empty.
// Writes made while settling land back in the same loop. A panicking effect,
// activator or teardown does not strand the work queued behind it: the queues
// are drained first and the first panic is re-raised afterwards.
func (rs *ReactiveSystem) settle() {
	if rs.settling {
		return
	}
	rs.settling = true
	rs.flushID++

	var (
		first    any
		panicked bool
	)
	defer func() {
		rs.settling = false
		if panicked {
			panic(first)
		}
	}()

	for {
		r, ok := rs.drain()
		if ok {
			return
		}
		if !panicked {
			first, panicked = r, true
		}
	}
}

// drain runs queued effects and mount transitions until there are none left.
// It reports false, along with the recovered value, if one of them panicked.
func (rs *ReactiveSystem) drain() (recovered any, ok bool) {
	defer func() {
		if !ok {
			recovered = recover()
		}
	}()

	for {
		switch {
		case rs.queueHead < len(rs.queue):
			rs.flushEffects()
		case rs.mountHead < len(rs.mountQueue):
			rs.processMounts()
		default:
			return nil, true
		}
	}
}

func (rs *ReactiveSystem) enqueue(n *node) {
	if n.flags&fQueued != 0 {
		return
	}
	n.flags |= fQueued
	rs.queue = append(rs.queue, n.ref.(*EffectRunner))
}

func (rs *ReactiveSystem) flushEffects() {
	for rs.queueHead < len(rs.queue) {
		e := rs.queue[rs.queueHead]
		rs.queue[rs.queueHead] = nil
		rs.queueHead++
		rs.notifyEffect(e)
	}
	rs.queue = rs.queue[:0]
	rs.queueHead = 0
}

// notifyEffect runs e if one of its dependencies really changed. A queued
// ancestor effect goes first since its re-run may dispose e.
func (rs *ReactiveSystem) notifyEffect(e *EffectRunner) {
	n := &e.node
	if n.flags&fQueued == 0 {
		return
	}
	n.flags &^= fQueued
	if n.flags&fDisposed != 0 {
		return
	}

	if parent := e.parentEffect(); parent != nil && parent.flags&fQueued != 0 {
		rs.notifyEffect(parent)
		if n.flags&fDisposed != 0 {
			return
		}
	}

	flags := n.flags
	if flags&fDirty != 0 || (flags&fPending != 0 && rs.pendingChanged(n)) {
		rs.runEffect(e)
		return
	}
	n.flags &^= fPending
}

// pendingChanged is checkDirty for an effect being flushed. The effect counts
// as queued while its computed dependencies refresh, so a changed value does
// not put it back on the queue it was just taken from.
func (rs *ReactiveSystem) pendingChanged(n *node) bool {
	if n.flags&fQueued != 0 {
		return rs.checkDirty(n)
	}
	n.flags |= fQueued
	defer func() {
		n.flags &^= fQueued
	}()
	return rs.checkDirty(n)
}

func (rs *ReactiveSystem) reportError(from SignalAware, err error) {
	if rs.onError != nil {
		rs.onError(from, err)
		return
	}
	rs.logger.Error("reactive: unhandled error", "from", fmt.Sprintf("%T", from), "error", err)
}

func (rs *ReactiveSystem) reportDoubleDispose(from SignalAware) {
	if !rs.devMode {
		return
	}
	rs.logger.Warn("reactive: dispose ignored", "from", fmt.Sprintf("%T", from), "error", ErrDisposed)
}
