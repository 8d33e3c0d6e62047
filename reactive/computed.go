package reactive

import "fmt"

type ReadonlySignal[T comparable] struct {
	node

	rs     *ReactiveSystem
	parent *owner
	value  T
	getter func(oldValue T) T
}

func (c *ReadonlySignal[T]) isSignalAware() {}

func (c *ReadonlySignal[T]) mountNode() *node { return &c.node }
func (c *ReadonlySignal[T]) system() *ReactiveSystem { return c.rs }

func (c *ReadonlySignal[T]) Value() T {
	c.update()
	if c.rs.activeSub != nil {
		c.rs.link(&c.node, c.rs.activeSub)
	}
	return c.value
}

// Peek returns the up to date value without subscribing the caller.
func (c *ReadonlySignal[T]) Peek() T {
	c.update()
	return c.value
}

func (c *ReadonlySignal[T]) Subscribers() int {
	return c.subscriberCount()
}

func (c *ReadonlySignal[T]) IsMounted() bool {
	return c.flags&fMounted != 0
}

func (c *ReadonlySignal[T]) update() {
	flags := c.flags
	if flags&fTracking != 0 {
		panic(fmt.Errorf("%w: computed read while evaluating itself", ErrCycle))
	}
	if flags&fDisposed != 0 || flags&(fDirty|fPending|fFailed) == 0 {
		return
	}
	c.rs.withBatch(func() {
		c.rs.refresh(&c.node)
	})
}

func (c *ReadonlySignal[T]) cas() (wasDifferent bool) {
	oldValue := c.value
	newValue := c.getter(oldValue)
	wasDifferent = oldValue != newValue
	c.value = newValue
	return wasDifferent
}

// dispose detaches c from the graph. The last computed value stays readable.
func (c *ReadonlySignal[T]) dispose() {
	if c.flags&fDisposed != 0 {
		c.rs.reportDoubleDispose(c)
		return
	}
	c.rs.unlinkAll(&c.node)
	c.flags = c.flags&(fMounted|fMountQueued) | fDisposed
	c.rs.queueMount(&c.node)
	if c.parent != nil {
		c.parent.forget(c)
	}
}

// Computed returns a lazily evaluated cell. getter receives the previous value
// and runs again only when a dependency it read has changed.
func Computed[T comparable](rs *ReactiveSystem, getter func(oldValue T) T) *ReadonlySignal[T] {
	c := &ReadonlySignal[T]{
		rs:     rs,
		getter: getter,
		parent: rs.activeOwner,
	}
	c.kind = kindComputed
	c.flags = fDirty
	c.ref = c
	if c.parent != nil {
		c.parent.adopt(c)
	}
	return c
}
