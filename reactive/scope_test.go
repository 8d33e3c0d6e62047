package reactive_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/delaneyj/lazysignals/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeDisposesAllMembers(t *testing.T) {
	rs := reactive.CreateReactiveSystem(failOnError(t))
	a := reactive.Signal(rs, 0)
	b := reactive.Signal(rs, 0)
	before := a.Subscribers() + b.Subscribers()

	runs := 0
	stop := reactive.EffectScope(rs, func() error {
		for range 3 {
			reactive.Effect(rs, func() error {
				runs++
				a.Value()
				b.Value()
				return nil
			})
		}
		return nil
	})
	require.Equal(t, 3, runs)
	require.Equal(t, 3, a.Subscribers())

	stop()
	a.SetValue(1)
	b.SetValue(1)

	assert.Equal(t, 3, runs)
	assert.Equal(t, before, a.Subscribers()+b.Subscribers())
}

func TestScopeDisposesInReverseCreationOrder(t *testing.T) {
	rs := reactive.CreateReactiveSystem(failOnError(t))

	var order []string
	stop := reactive.EffectScope(rs, func() error {
		reactive.OnCleanup(rs, func() { order = append(order, "scope cleanup") })
		reactive.Effect(rs, func() error {
			reactive.OnCleanup(rs, func() { order = append(order, "first") })
			return nil
		})
		reactive.EffectScope(rs, func() error {
			reactive.OnCleanup(rs, func() { order = append(order, "nested") })
			return nil
		})
		reactive.Effect(rs, func() error {
			reactive.OnCleanup(rs, func() { order = append(order, "last") })
			return nil
		})
		return nil
	})

	stop()
	assert.Equal(t, []string{"last", "nested", "first", "scope cleanup"}, order)
}

func TestScopeOwnsComputeds(t *testing.T) {
	rs := reactive.CreateReactiveSystem(failOnError(t))
	s := reactive.Signal(rs, 1)

	var c *reactive.ReadonlySignal[int]
	stop := reactive.EffectScope(rs, func() error {
		c = reactive.Computed(rs, func(oldValue int) int {
			return s.Value() * 10
		})
		return nil
	})

	assert.Equal(t, 10, c.Value())
	assert.Equal(t, 1, s.Subscribers())

	stop()
	assert.Equal(t, 0, s.Subscribers())
	s.SetValue(2)
	assert.Equal(t, 10, c.Value(), "a disposed computed keeps its last value")
}

func TestDisposedComputedIsNotTracked(t *testing.T) {
	rs := reactive.CreateReactiveSystem(failOnError(t))
	s := reactive.Signal(rs, 1)

	var c *reactive.ReadonlySignal[int]
	stop := reactive.EffectScope(rs, func() error {
		c = reactive.Computed(rs, func(oldValue int) int {
			return s.Value() * 10
		})
		return nil
	})
	assert.Equal(t, 10, c.Value())
	stop()

	var seen []int
	stopEffect := reactive.Effect(rs, func() error {
		seen = append(seen, c.Value())
		return nil
	})
	defer stopEffect()

	assert.Equal(t, 0, c.Subscribers())
	assert.False(t, c.IsMounted())
	s.SetValue(2)
	assert.Equal(t, []int{10}, seen)
}

func TestScopeBodyIsUntracked(t *testing.T) {
	rs := reactive.CreateReactiveSystem(failOnError(t))
	s := reactive.Signal(rs, 0)

	outerRuns := 0
	stop := reactive.Effect(rs, func() error {
		outerRuns++
		reactive.EffectScope(rs, func() error {
			s.Value()
			return nil
		})
		return nil
	})
	defer stop()

	s.SetValue(1)
	assert.Equal(t, 1, outerRuns)
	assert.Equal(t, 0, s.Subscribers())
}

func TestScopeErrorGoesToHandler(t *testing.T) {
	boom := errors.New("boom")
	var got error
	rs := reactive.CreateReactiveSystem(func(from reactive.SignalAware, err error) {
		got = err
	})

	stop := reactive.EffectScope(rs, func() error {
		return boom
	})
	defer stop()

	assert.ErrorIs(t, got, boom)
}

func TestScopeDoubleStopIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rs := reactive.CreateReactiveSystem(failOnError(t), reactive.WithDevMode(true), reactive.WithLogger(logger))

	cleanups := 0
	stop := reactive.EffectScope(rs, func() error {
		reactive.OnCleanup(rs, func() { cleanups++ })
		return nil
	})

	stop()
	assert.Empty(t, buf.String())
	stop()

	assert.Equal(t, 1, cleanups)
	assert.Contains(t, buf.String(), reactive.ErrDisposed.Error())
}

func TestOnCleanupWithoutOwner(t *testing.T) {
	rs := reactive.CreateReactiveSystem(failOnError(t))
	assert.False(t, reactive.OnCleanup(rs, func() {}))
}

func TestInnerEffectDisposedWhenParentReRuns(t *testing.T) {
	rs := reactive.CreateReactiveSystem(failOnError(t))
	outer := reactive.Signal(rs, 0)
	inner := reactive.Signal(rs, 0)

	innerRuns := 0
	stop := reactive.Effect(rs, func() error {
		outer.Value()
		reactive.Effect(rs, func() error {
			innerRuns++
			inner.Value()
			return nil
		})
		return nil
	})
	defer stop()

	outer.SetValue(1)
	outer.SetValue(2)
	assert.Equal(t, 3, innerRuns)
	assert.Equal(t, 1, inner.Subscribers(), "only the latest inner effect is alive")

	innerRuns = 0
	inner.SetValue(1)
	assert.Equal(t, 1, innerRuns)
}
