// Package metrics exports the work of a reactive system as Prometheus metrics.
package metrics

import (
	"github.com/delaneyj/lazysignals/reactive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Config struct {
	// Namespace is the metrics namespace (default: "lazysignals").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "lazysignals",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector implements reactive.Instrumentation. Install it with
// reactive.WithInstrumentation.
type Collector struct {
	signalWrites    prometheus.Counter
	computedRuns    prometheus.Counter
	effectRuns      prometheus.Counter
	mountTransition *prometheus.CounterVec
	mountedCells    prometheus.Gauge
	recursionLimits prometheus.Counter
}

var _ reactive.Instrumentation = (*Collector)(nil)

// New registers the collector's metrics. Registering two collectors with the
// same namespace and subsystem on one registry panics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		signalWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_writes_total",
			Help:        "Signal writes that changed the stored value",
			ConstLabels: config.ConstLabels,
		}),
		computedRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computed_runs_total",
			Help:        "Computed getter evaluations that completed",
			ConstLabels: config.ConstLabels,
		}),
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Effect function invocations",
			ConstLabels: config.ConstLabels,
		}),
		mountTransition: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mount_transitions_total",
			Help:        "Cells gaining their first or losing their last observer",
			ConstLabels: config.ConstLabels,
		}, []string{"direction"}),
		mountedCells: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_cells",
			Help:        "Cells that currently have at least one observer",
			ConstLabels: config.ConstLabels,
		}),
		recursionLimits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recursion_limits_total",
			Help:        "Effects stopped for re-triggering too often within one flush",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (c *Collector) SignalWritten() {
	c.signalWrites.Inc()
}

func (c *Collector) ComputedRan() {
	c.computedRuns.Inc()
}

func (c *Collector) EffectRan() {
	c.effectRuns.Inc()
}

func (c *Collector) MountChanged(mounted bool) {
	if mounted {
		c.mountTransition.WithLabelValues("mount").Inc()
		c.mountedCells.Inc()
		return
	}
	c.mountTransition.WithLabelValues("unmount").Inc()
	c.mountedCells.Dec()
}

func (c *Collector) RecursionLimited() {
	c.recursionLimits.Inc()
}
