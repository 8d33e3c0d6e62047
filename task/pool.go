package task

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
)

type tracked interface {
	Done() <-chan struct{}
	Cancel()
}

// Pool tracks in-flight tasks across channels so they can be awaited or
// cancelled together. It is safe for concurrent use.
type Pool struct {
	inflight mapset.Set[tracked]
}

func NewPool() *Pool {
	return &Pool{
		inflight: mapset.NewSet[tracked](),
	}
}

func (p *Pool) track(t tracked) {
	p.inflight.Add(t)
}

func (p *Pool) untrack(t tracked) {
	p.inflight.Remove(t)
}

// Len is the number of tasks whose function has not returned yet.
func (p *Pool) Len() int {
	return p.inflight.Cardinality()
}

// CancelAll cancels every in-flight task. Their results will be discarded.
func (p *Pool) CancelAll() {
	for _, t := range p.inflight.ToSlice() {
		t.Cancel()
	}
}

// Wait blocks until no task is in flight, including tasks started while
// waiting, or until ctx is done.
func (p *Pool) Wait(ctx context.Context) error {
	for {
		pending := p.inflight.ToSlice()
		if len(pending) == 0 {
			return nil
		}
		for _, t := range pending {
			select {
			case <-t.Done():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
