package reactive

type disposer interface {
	dispose()
}

// owner collects what was created while it was active so it can all be torn
// down together. Children are disposed newest first.
type owner struct {
	parent   *owner
	effect   *EffectRunner
	children []disposer
}

func (o *owner) adopt(d disposer) {
	o.children = append(o.children, d)
}

func (o *owner) forget(d disposer) {
	for i := len(o.children) - 1; i >= 0; i-- {
		if o.children[i] == d {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

type cleanup struct {
	fn func()
}

func (c *cleanup) dispose() {
	c.fn()
}

// resetOwner disposes every child of o outside of any tracking context.
func (rs *ReactiveSystem) resetOwner(o *owner) {
	children := o.children
	if len(children) == 0 {
		return
	}
	o.children = nil
	rs.detached(func() {
		for i := len(children) - 1; i >= 0; i-- {
			children[i].dispose()
		}
	})
}

// detached runs fn with no active subscriber and no active owner.
func (rs *ReactiveSystem) detached(fn func()) {
	prevSub, prevOwner := rs.activeSub, rs.activeOwner
	rs.activeSub, rs.activeOwner = nil, nil
	defer func() {
		rs.activeSub, rs.activeOwner = prevSub, prevOwner
	}()
	fn()
}

type scopeRunner struct {
	rs       *ReactiveSystem
	owner    owner
	disposed bool
}

func (s *scopeRunner) isSignalAware() {}

func (s *scopeRunner) stop() {
	s.rs.withBatch(s.dispose)
}

func (s *scopeRunner) dispose() {
	if s.disposed {
		s.rs.reportDoubleDispose(s)
		return
	}
	s.disposed = true
	s.rs.resetOwner(&s.owner)
	if s.owner.parent != nil {
		s.owner.parent.forget(s)
	}
}

// EffectScope runs fn untracked and returns a function that disposes every
// effect, computed, scope and cleanup created while fn ran.
func EffectScope(rs *ReactiveSystem, fn ErrFn) StopFunc {
	s := &scopeRunner{rs: rs}
	s.owner.parent = rs.activeOwner
	if rs.activeOwner != nil {
		rs.activeOwner.adopt(s)
	}

	rs.withBatch(func() {
		prevSub, prevOwner := rs.activeSub, rs.activeOwner
		rs.activeSub, rs.activeOwner = nil, &s.owner
		defer func() {
			rs.activeSub, rs.activeOwner = prevSub, prevOwner
		}()
		if err := fn(); err != nil {
			rs.reportError(s, err)
		}
	})
	return s.stop
}

// OnCleanup registers fn with the running effect or scope. It runs before the
// effect's next run or when the owner is disposed. OnCleanup reports false
// when nothing owns the caller.
func OnCleanup(rs *ReactiveSystem, fn func()) bool {
	if rs.activeOwner == nil {
		return false
	}
	rs.activeOwner.adopt(&cleanup{fn: fn})
	return true
}
