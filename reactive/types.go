package reactive

type nodeFlags uint16

const (
	fTracking nodeFlags = 1 << iota
	fQueued
	fRecursed
	fDirty
	fPending
	fFailed
	fDisposed
	fMounted
	fMountQueued
	fPropagated nodeFlags = fDirty | fPending
)

type nodeKind uint8

const (
	kindSignal nodeKind = iota + 1
	kindComputed
	kindEffect
)

func (k nodeKind) String() string {
	switch k {
	case kindSignal:
		return "signal"
	case kindComputed:
		return "computed"
	case kindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// link is one edge of the graph. It sits in the dependency's subscriber list
// and in the subscriber's dependency list at the same time.
type link struct {
	dep, sub         *node
	prevSub, nextSub *link
	prevDep, nextDep *link
	version          uint64
}

// node is the state shared by every cell and subscriber. Which half is used
// depends on kind: signals only have subscribers, effects only have
// dependencies, computeds have both.
type node struct {
	kind  nodeKind
	flags nodeFlags
	ref   SignalAware

	subs, subsTail *link
	observers      int
	mount          *mountState

	deps, depsTail *link
	cursor         *link
	version        uint64
}

// live reports whether links from this node keep their dependencies observed.
func (n *node) live() bool {
	switch n.kind {
	case kindEffect:
		return n.flags&fDisposed == 0
	case kindComputed:
		return n.observers > 0
	default:
		return false
	}
}

func (n *node) subscriberCount() int {
	count := 0
	for l := n.subs; l != nil; l = l.nextSub {
		count++
	}
	return count
}

func (n *node) dependencyCount() int {
	count := 0
	for l := n.deps; l != nil; l = l.nextDep {
		count++
	}
	return count
}

// SignalAware is implemented by every value the runtime hands back to callers:
// signals, computeds, effects and scopes.
type SignalAware interface {
	isSignalAware()
}

// Readable is anything with a tracked Value read.
type Readable[T any] interface {
	Value() T
}

type computer interface {
	cas() (wasDifferent bool)
}

// ErrFn is the body of an effect or scope.
type ErrFn func() error

// StopFunc disposes whatever returned it. Calling it more than once is a no-op.
type StopFunc func()
