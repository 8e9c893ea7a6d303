package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongoc "goa.design/mongoutil/features/command/mongo/clients/mongo"
	"goa.design/mongoutil/runtime/command"
)

type (
	// Runner runs commands through a Mongo client. The embedded Executor
	// provides Run and the typed command helpers.
	Runner struct {
		*command.Executor
		client mongoc.Client
		close  func(context.Context) error
	}

	// Options configures Connect.
	Options struct {
		// URI is the MongoDB connection string.
		URI string
		// Timeout bounds connection setup and each command. Zero uses the
		// client default.
		Timeout time.Duration
		// Executor configures the command executor, for example its logger.
		Executor []command.Option
	}
)

// Connect dials opts.URI and returns a Runner that owns the connection.
// Close disconnects it.
func Connect(ctx context.Context, opts Options) (*Runner, error) {
	if opts.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	copts := options.Client().ApplyURI(opts.URI)
	if opts.Timeout > 0 {
		copts.SetTimeout(opts.Timeout)
	}
	mc, err := mongodriver.Connect(copts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	cl, err := mongoc.New(mongoc.Options{Client: mc, Timeout: opts.Timeout})
	if err != nil {
		return nil, errors.Join(err, mc.Disconnect(ctx))
	}
	r, err := NewRunner(cl, opts.Executor...)
	if err != nil {
		return nil, errors.Join(err, mc.Disconnect(ctx))
	}
	r.close = mc.Disconnect
	return r, nil
}

// NewRunner builds a Runner using the provided client. The caller keeps
// ownership of the client's connection.
func NewRunner(client mongoc.Client, opts ...command.Option) (*Runner, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	exec, err := command.NewExecutor(client, opts...)
	if err != nil {
		return nil, err
	}
	return &Runner{Executor: exec, client: client}, nil
}

// Name returns the health check name of the underlying client.
func (r *Runner) Name() string {
	return r.client.Name()
}

// Ping checks the deployment is reachable.
func (r *Runner) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// Close disconnects the connection opened by Connect. It is a no-op for
// runners built with NewRunner.
func (r *Runner) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	err := r.close(ctx)
	r.close = nil
	return err
}
