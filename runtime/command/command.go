// Package command runs administrative commands by querying the "<db>.$cmd"
// pseudo-collection through a connection's single-document find primitive.
//
// A missing response is not fatal: Run logs a warning and returns a nil
// document with ErrNoResponse, which callers check with errors.Is.
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goa.design/mongoutil/runtime/document"
	"goa.design/mongoutil/runtime/telemetry"
)

// ErrNoResponse is returned when the connection yields no document.
var ErrNoResponse = errors.New("no db response")

type (
	// Conn is the driver primitive commands run through. FindOne returns the
	// first document of namespace matching query, or a nil document when
	// there is none.
	Conn interface {
		FindOne(ctx context.Context, namespace string, query document.Document) (document.Document, error)
	}

	// Executor runs commands against a Conn. It is safe for concurrent use
	// when the Conn is.
	Executor struct {
		conn    Conn
		logger  telemetry.Logger
		metrics telemetry.Metrics
		tracer  telemetry.Tracer
	}

	// Option configures an Executor.
	Option func(*Executor)
)

// WithLogger sets the logger used for warnings. Defaults to Clue.
func WithLogger(l telemetry.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithMetrics sets the metrics recorder. Defaults to OTEL instruments on the
// global MeterProvider.
func WithMetrics(m telemetry.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithTracer sets the tracer. Defaults to the global OTEL tracer.
func WithTracer(t telemetry.Tracer) Option {
	return func(e *Executor) { e.tracer = t }
}

// NewExecutor returns an Executor running commands through conn.
func NewExecutor(conn Conn, opts ...Option) (*Executor, error) {
	if conn == nil {
		return nil, errors.New("connection is required")
	}
	e := &Executor{conn: conn}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = telemetry.NewClueLogger()
	}
	if e.metrics == nil {
		m, err := telemetry.NewClueMetrics(nil)
		if err != nil {
			return nil, fmt.Errorf("create command metrics: %w", err)
		}
		e.metrics = m
	}
	if e.tracer == nil {
		e.tracer = telemetry.NewClueTracer(nil)
	}
	return e, nil
}

// Run executes cmd against database db with the default executor settings.
func Run(ctx context.Context, conn Conn, cmd document.Document, db string) (document.Document, error) {
	e, err := NewExecutor(conn)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, cmd, db)
}

// Run queries Namespace(db) with cmd and returns the response. An empty or
// missing response is logged as a warning and reported as ErrNoResponse.
func (e *Executor) Run(ctx context.Context, cmd document.Document, db string) (document.Document, error) {
	if len(cmd) == 0 {
		return nil, errors.New("command document is required")
	}
	info := telemetry.Command{
		Name:      cmd[0].Key,
		Namespace: Namespace(db),
		RequestID: uuid.NewString(),
	}
	ctx, span := e.tracer.Start(ctx, info)

	start := time.Now()
	resp, err := e.conn.FindOne(ctx, info.Namespace, cmd)
	switch {
	case err != nil:
		e.logger.Error(ctx, info, err, "command failed")
		resp, err = nil, fmt.Errorf("run %q on %s: %w", info.Name, info.Namespace, err)
	case len(resp) == 0:
		e.logger.Warn(ctx, info, "no db response?")
		resp, err = nil, fmt.Errorf("run %q on %s: %w", info.Name, info.Namespace, ErrNoResponse)
	}
	e.metrics.RecordCommand(ctx, info, time.Since(start), err)
	span.End(err)
	return resp, err
}
