package task

import (
	"context"
	"log/slog"

	"github.com/delaneyj/lazysignals/reactive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/delaneyj/lazysignals/task"

type config struct {
	name      string
	ctx       context.Context
	tracer    trace.Tracer
	logger    *slog.Logger
	errSignal *reactive.WriteableSignal[error]
	onError   func(error)
}

func defaultConfig() config {
	return config{
		name:   "channel",
		ctx:    context.Background(),
		logger: slog.Default(),
	}
}

type Option func(*config)

// WithName names the channel in spans and log lines.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithContext sets the parent of every task context. Cancelling it cancels
// all tasks of the channel.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithTracer replaces the tracer from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithErrorSignal stores the error of the latest failed task in s. A later
// successful task resets it to nil.
func WithErrorSignal(s *reactive.WriteableSignal[error]) Option {
	return func(c *config) {
		c.errSignal = s
	}
}

// WithErrorHandler is called on the reactive goroutine with the error of the
// latest task when it fails.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

func (c *config) resolveTracer() {
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
}
