package telemetry

import (
	"context"
	"time"
)

type (
	// NoopLogger discards all log messages.
	NoopLogger struct{}

	// NoopMetrics discards all metrics.
	NoopMetrics struct{}

	// NoopTracer creates spans that record nothing.
	NoopTracer struct{}

	noopSpan struct{}
)

func (NoopLogger) Warn(context.Context, Command, string)         {}
func (NoopLogger) Error(context.Context, Command, error, string) {}

func (NoopMetrics) RecordCommand(context.Context, Command, time.Duration, error) {}

// Start returns ctx unchanged and a no-op span.
func (NoopTracer) Start(ctx context.Context, _ Command) (context.Context, Span) {
	return ctx, noopSpan{}
}

func (noopSpan) End(error) {}
