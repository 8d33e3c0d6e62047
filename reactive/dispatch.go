package reactive

import (
	"context"
	"sync"
)

// dispatcher is the mailbox other goroutines use to hand work to the
// goroutine that owns a ReactiveSystem.
type dispatcher struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

func (d *dispatcher) init() {
	d.wake = make(chan struct{}, 1)
}

// Dispatch queues fn to run on the owning goroutine during the next
// RunDispatched. It is the only method that is safe to call concurrently.
func (rs *ReactiveSystem) Dispatch(fn func()) {
	rs.mu.Lock()
	rs.pending = append(rs.pending, fn)
	rs.mu.Unlock()

	select {
	case rs.wake <- struct{}{}:
	default:
	}
}

// RunDispatched runs every queued callback inside a single batch and returns
// how many ran.
func (rs *ReactiveSystem) RunDispatched() int {
	rs.mu.Lock()
	pending := rs.pending
	rs.pending = nil
	rs.mu.Unlock()

	if len(pending) == 0 {
		return 0
	}
	rs.Batch(func() {
		for _, fn := range pending {
			fn()
		}
	})
	return len(pending)
}

// Serve runs dispatched callbacks as they arrive until ctx is done. The
// calling goroutine becomes the owner of rs for the duration.
func (rs *ReactiveSystem) Serve(ctx context.Context) error {
	for {
		rs.RunDispatched()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-rs.wake:
		}
	}
}
