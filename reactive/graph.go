package reactive

import "fmt"

// link records that sub read dep during its current tracking pass.
//
// A link already touched in this pass is reused: the one under the cursor,
// the next one after the cursor (same read order as last time), or the
// dependency's newest subscriber link when it carries this pass's version.
// Anything else gets a fresh link inserted right after the cursor.
func (rs *ReactiveSystem) link(dep, sub *node) {
	if (dep.flags|sub.flags)&fDisposed != 0 {
		return
	}

	cursor := sub.cursor
	if cursor != nil && cursor.dep == dep {
		return
	}

	var next *link
	if cursor != nil {
		next = cursor.nextDep
	} else {
		next = sub.deps
	}
	if next != nil && next.dep == dep {
		next.version = sub.version
		sub.cursor = next
		return
	}

	if last := dep.subsTail; last != nil && last.sub == sub && last.version == sub.version {
		return
	}

	rs.linkNew(dep, sub, cursor, next)
}

func (rs *ReactiveSystem) linkNew(dep, sub *node, prev, next *link) *link {
	newLink := &link{
		dep:     dep,
		sub:     sub,
		prevDep: prev,
		nextDep: next,
		version: sub.version,
	}

	if prev != nil {
		prev.nextDep = newLink
	} else {
		sub.deps = newLink
	}
	if next != nil {
		next.prevDep = newLink
	} else {
		sub.depsTail = newLink
	}
	sub.cursor = newLink

	if tail := dep.subsTail; tail != nil {
		newLink.prevSub = tail
		tail.nextSub = newLink
	} else {
		dep.subs = newLink
	}
	dep.subsTail = newLink

	if sub.live() {
		rs.addObserver(dep)
	}
	return newLink
}

// unlink removes l from both of its lists and returns the link that followed
// it in the subscriber's dependency list.
func (rs *ReactiveSystem) unlink(l *link) *link {
	if rs.devMode {
		rs.verifyLink(l)
	}
	dep, sub := l.dep, l.sub
	next := l.nextDep

	if l.prevDep != nil {
		l.prevDep.nextDep = next
	} else {
		sub.deps = next
	}
	if next != nil {
		next.prevDep = l.prevDep
	} else {
		sub.depsTail = l.prevDep
	}
	if sub.cursor == l {
		sub.cursor = l.prevDep
	}

	if l.prevSub != nil {
		l.prevSub.nextSub = l.nextSub
	} else {
		dep.subs = l.nextSub
	}
	if l.nextSub != nil {
		l.nextSub.prevSub = l.prevSub
	} else {
		dep.subsTail = l.prevSub
	}

	*l = link{}

	if sub.live() {
		rs.removeObserver(dep)
	}
	if dep.kind == kindComputed && dep.subs == nil && dep.flags&(fTracking|fDisposed) == 0 {
		rs.release(dep)
	}
	return next
}

// release drops every dependency of a computed nobody reads anymore. It will
// re-track them from scratch on its next read.
func (rs *ReactiveSystem) release(c *node) {
	for l := c.deps; l != nil; {
		l = rs.unlink(l)
	}
	c.cursor = nil
	c.flags = c.flags&^fPending | fDirty
}

// unlinkAll severs every link touching n, in both directions.
func (rs *ReactiveSystem) unlinkAll(n *node) {
	for l := n.subs; l != nil; {
		next := l.nextSub
		rs.unlink(l)
		l = next
	}
	for l := n.deps; l != nil; {
		l = rs.unlink(l)
	}
	n.cursor = nil
}

func (rs *ReactiveSystem) verifyLink(l *link) {
	switch {
	case l.dep == nil || l.sub == nil:
		panic(fmt.Errorf("%w: link unlinked twice", ErrCorruptGraph))
	case l.prevSub == nil && l.dep.subs != l,
		l.nextSub == nil && l.dep.subsTail != l,
		l.prevSub != nil && l.prevSub.nextSub != l,
		l.nextSub != nil && l.nextSub.prevSub != l:
		panic(fmt.Errorf("%w: %s subscriber list does not hold its link", ErrCorruptGraph, l.dep.kind))
	case l.prevDep == nil && l.sub.deps != l,
		l.nextDep == nil && l.sub.depsTail != l,
		l.prevDep != nil && l.prevDep.nextDep != l,
		l.nextDep != nil && l.nextDep.prevDep != l:
		panic(fmt.Errorf("%w: %s dependency list does not hold its link", ErrCorruptGraph, l.sub.kind))
	}
}

func (rs *ReactiveSystem) startTracking(sub *node) {
	rs.version++
	sub.version = rs.version
	sub.cursor = nil
	sub.flags = sub.flags&^(fDirty|fPending|fFailed|fRecursed) | fTracking
}

// endTracking prunes every dependency that was not read again during the pass.
func (rs *ReactiveSystem) endTracking(sub *node) {
	var l *link
	if sub.cursor != nil {
		l = sub.cursor.nextDep
	} else {
		l = sub.deps
	}
	for l != nil {
		l = rs.unlink(l)
	}
	sub.flags &^= fTracking
}

// propagate marks every direct subscriber of dep dirty and everything further
// downstream pending. Effects reached on the way are queued.
func (rs *ReactiveSystem) propagate(dep *node) {
	for l := dep.subs; l != nil; l = l.nextSub {
		rs.notify(l.sub, fDirty)
	}
}

func (rs *ReactiveSystem) notify(sub *node, flag nodeFlags) {
	flags := sub.flags
	if flags&fDisposed != 0 {
		return
	}
	if flags&fTracking != 0 {
		sub.flags |= fRecursed
	}
	if flags&fPropagated != 0 {
		sub.flags |= flag
		if sub.kind == kindEffect {
			rs.enqueue(sub)
		}
		return
	}

	sub.flags |= flag
	switch sub.kind {
	case kindEffect:
		rs.enqueue(sub)
	case kindComputed:
		for l := sub.subs; l != nil; l = l.nextSub {
			rs.notify(l.sub, fPending)
		}
	}
}

// shallowPropagate upgrades pending subscribers of a computed whose value just
// changed to dirty.
func (rs *ReactiveSystem) shallowPropagate(c *node) {
	for l := c.subs; l != nil; l = l.nextSub {
		sub := l.sub
		if sub.flags&fPropagated == fPending {
			sub.flags |= fDirty
			if sub.kind == kindEffect && sub.flags&fTracking == 0 {
				rs.enqueue(sub)
			}
		}
	}
}

// checkDirty brings the computed dependencies of a pending subscriber up to
// date and reports whether any of them changed value.
func (rs *ReactiveSystem) checkDirty(sub *node) bool {
	for l := sub.deps; l != nil; l = l.nextDep {
		if l.dep.kind == kindComputed && rs.refresh(l.dep) {
			return true
		}
		if sub.flags&fDirty != 0 {
			return true
		}
	}
	sub.flags &^= fPending
	return false
}

// refresh recomputes c if it needs it and reports whether its value changed.
func (rs *ReactiveSystem) refresh(c *node) bool {
	flags := c.flags
	if flags&(fDirty|fFailed) != 0 || (flags&fPending != 0 && rs.checkDirty(c)) {
		if rs.updateComputed(c) {
			rs.shallowPropagate(c)
			return true
		}
		return false
	}
	c.flags &^= fPending
	return false
}

func (rs *ReactiveSystem) updateComputed(c *node) (changed bool) {
	prevSub, prevOwner := rs.activeSub, rs.activeOwner
	rs.activeSub, rs.activeOwner = c, nil
	rs.startTracking(c)

	ok := false
	defer func() {
		rs.activeSub, rs.activeOwner = prevSub, prevOwner
		rs.endTracking(c)
		if !ok {
			c.flags |= fFailed
		}
	}()

	changed = c.ref.(computer).cas()
	ok = true
	rs.instr.ComputedRan()
	return changed
}

func (rs *ReactiveSystem) addObserver(dep *node) {
	dep.observers++
	if dep.observers != 1 {
		return
	}
	if dep.kind == kindComputed {
		for l := dep.deps; l != nil; l = l.nextDep {
			rs.addObserver(l.dep)
		}
	}
	rs.queueMount(dep)
}

func (rs *ReactiveSystem) removeObserver(dep *node) {
	dep.observers--
	if dep.observers < 0 {
		panic(fmt.Errorf("%w: negative observer count on %s", ErrCorruptGraph, dep.kind))
	}
	if dep.observers != 0 {
		return
	}
	if dep.kind == kindComputed {
		for l := dep.deps; l != nil; l = l.nextDep {
			rs.removeObserver(l.dep)
		}
	}
	rs.queueMount(dep)
}
