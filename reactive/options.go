package reactive

import "log/slog"

// DefaultMaxEffectRuns caps how often a single effect may run during one
// settle pass before it is treated as runaway recursion.
const DefaultMaxEffectRuns = 100

// Option configures a ReactiveSystem.
type Option func(*ReactiveSystem)

// WithLogger sets the logger used for warnings and debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(rs *ReactiveSystem) {
		if logger != nil {
			rs.logger = logger
		}
	}
}

// WithMaxEffectRuns overrides DefaultMaxEffectRuns. Values below 1 are ignored.
func WithMaxEffectRuns(n int) Option {
	return func(rs *ReactiveSystem) {
		if n > 0 {
			rs.maxEffectRuns = n
		}
	}
}

// WithDevMode turns on link integrity checks and double-dispose reporting.
func WithDevMode(on bool) Option {
	return func(rs *ReactiveSystem) {
		rs.devMode = on
	}
}

// WithInstrumentation installs hooks that observe the runtime's work.
func WithInstrumentation(i Instrumentation) Option {
	return func(rs *ReactiveSystem) {
		if i != nil {
			rs.instr = i
		}
	}
}

// Instrumentation receives a call for each unit of work the runtime does.
// Calls happen on the goroutine that owns the system.
type Instrumentation interface {
	SignalWritten()
	ComputedRan()
	EffectRan()
	MountChanged(mounted bool)
	RecursionLimited()
}

type noopInstrumentation struct{}

func (noopInstrumentation) SignalWritten()    {}
func (noopInstrumentation) ComputedRan()      {}
func (noopInstrumentation) EffectRan()        {}
func (noopInstrumentation) MountChanged(bool) {}
func (noopInstrumentation) RecursionLimited() {}
