package reactive

import "slices"

// MountFunc is called when a cell gains its first observer. The returned
// teardown, if any, is called when the last observer goes away.
type MountFunc func() (teardown func())

// Mountable is a cell that can report observation changes: a signal or a
// computed.
type Mountable interface {
	mountNode() *node
	system() *ReactiveSystem
}

type mountState struct {
	listeners []*mountListener
}

type mountListener struct {
	fn       MountFunc
	teardown func()
	active   bool
}

// OnMount registers fn against cell. A cell is observed while an effect, or a
// computed that is itself observed, depends on it. Transitions are evaluated
// once per settle against the net observer count, so subscribing and
// unsubscribing inside one batch leaves the mount state untouched.
//
// If cell is already mounted fn runs immediately. The returned function
// unregisters fn, tearing it down first if it is active.
func OnMount(cell Mountable, fn MountFunc) (unregister func()) {
	n, rs := cell.mountNode(), cell.system()
	if n.mount == nil {
		n.mount = &mountState{}
	}
	ml := &mountListener{fn: fn}
	n.mount.listeners = append(n.mount.listeners, ml)

	rs.withBatch(func() {
		if n.flags&fMounted != 0 {
			rs.activate(ml)
		} else if n.observers > 0 {
			rs.queueMount(n)
		}
	})

	return func() {
		if n.mount == nil {
			return
		}
		idx := slices.Index(n.mount.listeners, ml)
		if idx < 0 {
			return
		}
		n.mount.listeners = slices.Delete(n.mount.listeners, idx, idx+1)
		rs.withBatch(func() {
			rs.deactivate(ml)
		})
	}
}

// IsMounted reports whether cell currently has at least one observer, as of
// the last settle.
func IsMounted(cell Mountable) bool {
	return cell.mountNode().flags&fMounted != 0
}

func (rs *ReactiveSystem) queueMount(n *node) {
	if n.flags&fMountQueued != 0 {
		return
	}
	n.flags |= fMountQueued
	rs.mountQueue = append(rs.mountQueue, n)
}

func (rs *ReactiveSystem) processMounts() {
	for rs.mountHead < len(rs.mountQueue) {
		n := rs.mountQueue[rs.mountHead]
		rs.mountQueue[rs.mountHead] = nil
		rs.mountHead++
		n.flags &^= fMountQueued

		want := n.observers > 0 && n.flags&fDisposed == 0
		if want == (n.flags&fMounted != 0) {
			continue
		}
		if want {
			n.flags |= fMounted
		} else {
			n.flags &^= fMounted
		}
		rs.instr.MountChanged(want)
		rs.logger.Debug("reactive: mount state changed", "kind", n.kind.String(), "mounted", want)

		if n.mount == nil {
			continue
		}
		listeners := slices.Clone(n.mount.listeners)
		if want {
			for _, ml := range listeners {
				rs.activate(ml)
			}
		} else {
			for i := len(listeners) - 1; i >= 0; i-- {
				rs.deactivate(listeners[i])
			}
		}
	}
	rs.mountQueue = rs.mountQueue[:0]
	rs.mountHead = 0
}

func (rs *ReactiveSystem) activate(ml *mountListener) {
	if ml.active {
		return
	}
	ml.active = true
	rs.detached(func() {
		ml.teardown = ml.fn()
	})
}

func (rs *ReactiveSystem) deactivate(ml *mountListener) {
	if !ml.active {
		return
	}
	ml.active = false
	teardown := ml.teardown
	ml.teardown = nil
	if teardown != nil {
		rs.detached(teardown)
	}
}
