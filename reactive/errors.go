package reactive

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is the panic value when a computed reads itself while evaluating.
	ErrCycle = errors.New("reactive: cycle detected")

	// ErrRecursionLimit matches every *RecursionError.
	ErrRecursionLimit = errors.New("reactive: effect recursion limit exceeded")

	// ErrCorruptGraph is the panic value in dev mode when a link is found
	// detached from one of its lists or unlinked twice.
	ErrCorruptGraph = errors.New("reactive: corrupt dependency graph")

	// ErrUnbalancedBatch is the panic value for EndBatch without StartBatch.
	ErrUnbalancedBatch = errors.New("reactive: EndBatch called without StartBatch")

	// ErrDisposed is reported in dev mode when something is disposed twice.
	ErrDisposed = errors.New("reactive: already disposed")
)

// RecursionError is delivered to the error handler when an effect keeps
// re-dirtying itself, directly or through other effects, within one flush.
type RecursionError struct {
	Runs          int
	Limit         int
	SelfTriggered bool
}

func (e *RecursionError) Error() string {
	how := "through other effects"
	if e.SelfTriggered {
		how = "by writing its own dependencies"
	}
	return fmt.Sprintf("reactive: effect re-triggered %s, stopped after %d runs (limit %d)", how, e.Runs, e.Limit)
}

func (e *RecursionError) Is(target error) bool {
	return target == ErrRecursionLimit
}
