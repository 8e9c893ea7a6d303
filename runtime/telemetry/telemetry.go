// Package telemetry defines the logging, metrics and tracing hooks used by the
// command executor. Production code wires the Clue/OpenTelemetry adapters;
// tests use the no-op implementations or small stubs.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys attached to command spans and metrics.
const (
	CommandKey   = attribute.Key("mongoutil.command")
	NamespaceKey = attribute.Key("mongoutil.namespace")
	RequestIDKey = attribute.Key("mongoutil.request_id")
)

type (
	// Command identifies one command execution.
	Command struct {
		// Name is the command name, the first key of the command document.
		Name string
		// Namespace is the "<db>.$cmd" namespace queried.
		Namespace string
		// RequestID is unique per execution and correlates logs and spans.
		RequestID string
	}

	// Logger reports command outcomes that need attention.
	Logger interface {
		// Warn reports a command that completed without a usable response.
		Warn(ctx context.Context, cmd Command, msg string)
		// Error reports a command the connection failed to run.
		Error(ctx context.Context, cmd Command, err error, msg string)
	}

	// Metrics records command executions.
	Metrics interface {
		// RecordCommand records one execution. err is the error returned
		// to the caller, nil on success.
		RecordCommand(ctx context.Context, cmd Command, duration time.Duration, err error)
	}

	// Tracer starts one span per command execution.
	Tracer interface {
		Start(ctx context.Context, cmd Command) (context.Context, Span)
	}

	// Span is an in-flight command span.
	//
	//	ctx, span := tracer.Start(ctx, cmd)
	//	resp, err := conn.FindOne(ctx, cmd.Namespace, query)
	//	span.End(err)
	Span interface {
		// End records err, if any, sets the span status and ends the span.
		End(err error)
	}
)

// Attributes returns the span attributes of c.
func (c Command) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		CommandKey.String(c.Name),
		NamespaceKey.String(c.Namespace),
		RequestIDKey.String(c.RequestID),
	}
}

// MetricAttributes is Attributes without the request ID.
func (c Command) MetricAttributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		CommandKey.String(c.Name),
		NamespaceKey.String(c.Namespace),
	}
}
