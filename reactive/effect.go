package reactive

// EffectRunner is an eager subscriber. It re-runs its function whenever a
// value it read during the previous run changes.
type EffectRunner struct {
	node
	rs    *ReactiveSystem
	fn    ErrFn
	owner owner

	runs    int
	flushID uint64
}

func (e *EffectRunner) isSignalAware() {}

// Stop disposes the effect together with everything its last run created.
func (e *EffectRunner) Stop() {
	e.rs.withBatch(e.dispose)
}

// Dependencies is the number of cells the effect read during its last run.
func (e *EffectRunner) Dependencies() int {
	return e.dependencyCount()
}

func (e *EffectRunner) parentEffect() *EffectRunner {
	for o := e.owner.parent; o != nil; o = o.parent {
		if o.effect != nil {
			return o.effect
		}
	}
	return nil
}

func (e *EffectRunner) dispose() {
	rs := e.rs
	if e.flags&fDisposed != 0 {
		rs.reportDoubleDispose(e)
		return
	}
	rs.resetOwner(&e.owner)
	for l := e.deps; l != nil; {
		l = rs.unlink(l)
	}
	e.cursor = nil
	e.flags = fDisposed
	if e.owner.parent != nil {
		e.owner.parent.forget(e)
	}
}

// Effect runs fn now and again after every settle in which something it read
// changed. Effects created while another effect or a scope is running belong
// to it and are disposed with it.
func Effect(rs *ReactiveSystem, fn ErrFn) StopFunc {
	e := &EffectRunner{
		rs: rs,
		fn: fn,
	}
	e.kind = kindEffect
	e.ref = e
	e.owner.effect = e
	e.owner.parent = rs.activeOwner
	if rs.activeOwner != nil {
		rs.activeOwner.adopt(e)
	}

	rs.withBatch(func() {
		rs.runEffect(e)
	})
	return e.Stop
}

func (rs *ReactiveSystem) runEffect(e *EffectRunner) {
	n := &e.node
	if rs.settling {
		if e.flushID != rs.flushID {
			e.flushID = rs.flushID
			e.runs = 0
		}
		e.runs++
		if e.runs > rs.maxEffectRuns {
			selfTriggered := n.flags&fRecursed != 0
			n.flags &^= fPropagated | fRecursed
			if e.runs == rs.maxEffectRuns+1 {
				rs.logger.Warn("reactive: effect recursion limit reached, skipping further runs this flush",
					"limit", rs.maxEffectRuns,
					"selfTriggered", selfTriggered,
				)
				rs.instr.RecursionLimited()
				rs.reportError(e, &RecursionError{
					Runs:          e.runs - 1,
					Limit:         rs.maxEffectRuns,
					SelfTriggered: selfTriggered,
				})
			}
			return
		}
	}

	rs.resetOwner(&e.owner)

	prevSub, prevOwner := rs.activeSub, rs.activeOwner
	rs.activeSub = n
	rs.activeOwner = &e.owner
	rs.startTracking(n)
	defer func() {
		rs.activeSub = prevSub
		rs.activeOwner = prevOwner
		rs.endTracking(n)
	}()

	rs.instr.EffectRan()
	if err := e.fn(); err != nil {
		rs.reportError(e, err)
	}
}
