package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"goa.design/clue/log"
)

const instrumentationName = "goa.design/mongoutil"

// Metric names.
const (
	DurationMetric = "mongoutil.command.duration"
	RunsMetric     = "mongoutil.command.runs"
	FailuresMetric = "mongoutil.command.failures"
)

type (
	// ClueLogger writes through goa.design/clue/log.
	ClueLogger struct{}

	// ClueMetrics records command metrics on an OTEL meter.
	ClueMetrics struct {
		duration metric.Float64Histogram
		runs     metric.Int64Counter
		failures metric.Int64Counter
	}

	// ClueTracer starts OTEL client spans.
	ClueTracer struct {
		tracer trace.Tracer
	}

	clueSpan struct {
		span trace.Span
	}
)

// NewClueLogger constructs a Logger that delegates to goa.design/clue/log.
// Format, output and debug settings are read from the context (see
// log.Context, log.WithFormat and log.WithOutput).
func NewClueLogger() Logger {
	return ClueLogger{}
}

// NewClueMetrics creates the command instruments on mp, or on the global
// MeterProvider when mp is nil.
func NewClueMetrics(mp metric.MeterProvider) (*ClueMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	duration, err := meter.Float64Histogram(DurationMetric,
		metric.WithUnit("s"),
		metric.WithDescription("Command execution time"))
	if err != nil {
		return nil, err
	}
	runs, err := meter.Int64Counter(RunsMetric,
		metric.WithDescription("Commands executed"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(FailuresMetric,
		metric.WithDescription("Commands that failed or got no response"))
	if err != nil {
		return nil, err
	}
	return &ClueMetrics{duration: duration, runs: runs, failures: failures}, nil
}

// NewClueTracer constructs a Tracer on tp, or on the global TracerProvider
// when tp is nil.
func NewClueTracer(tp trace.TracerProvider) Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &ClueTracer{tracer: tp.Tracer(instrumentationName)}
}

// Warn logs msg at warning level with the command fields.
func (ClueLogger) Warn(ctx context.Context, cmd Command, msg string) {
	log.Warn(ctx, append(commandFields(cmd), log.KV{K: "msg", V: msg})...)
}

// Error logs msg and err at error level with the command fields.
func (ClueLogger) Error(ctx context.Context, cmd Command, err error, msg string) {
	log.Error(ctx, err, append(commandFields(cmd), log.KV{K: "msg", V: msg})...)
}

// RecordCommand records the duration and run count of cmd, and a failure when
// err is set.
func (m *ClueMetrics) RecordCommand(ctx context.Context, cmd Command, duration time.Duration, err error) {
	attrs := metric.WithAttributes(cmd.MetricAttributes()...)
	m.duration.Record(ctx, duration.Seconds(), attrs)
	m.runs.Add(ctx, 1, attrs)
	if err != nil {
		m.failures.Add(ctx, 1, attrs)
	}
}

// Start starts a client span named after the command.
func (t *ClueTracer) Start(ctx context.Context, cmd Command) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, "mongoutil.command "+cmd.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(cmd.Attributes()...))
	return ctx, &clueSpan{span: span}
}

func (s *clueSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

func commandFields(cmd Command) []log.Fielder {
	return []log.Fielder{
		log.KV{K: string(CommandKey), V: cmd.Name},
		log.KV{K: string(NamespaceKey), V: cmd.Namespace},
		log.KV{K: string(RequestIDKey), V: cmd.RequestID},
	}
}
