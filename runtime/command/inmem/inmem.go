// Package inmem provides a scripted command.Conn for tests and dry runs.
package inmem

import (
	"context"
	"strings"
	"sync"

	"goa.design/mongoutil/runtime/command"
	"goa.design/mongoutil/runtime/document"
)

type (
	// Handler answers one query.
	Handler func(ctx context.Context, namespace string, query document.Document) (document.Document, error)

	// Call records a query received by the connection.
	Call struct {
		Namespace string
		Query     document.Document
	}

	// Conn answers queries from registered handlers keyed by the first key
	// of the query document. Unknown queries yield no document.
	Conn struct {
		mu       sync.Mutex
		handlers map[string]Handler
		calls    []Call
	}
)

var _ command.Conn = (*Conn)(nil)

// New returns a Conn with no handlers.
func New() *Conn {
	return &Conn{handlers: make(map[string]Handler)}
}

// Handle registers h for queries whose first key is name.
func (c *Conn) Handle(name string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[name] = h
}

// Respond registers a fixed response for queries whose first key is name.
func (c *Conn) Respond(name string, resp document.Document) {
	c.Handle(name, func(context.Context, string, document.Document) (document.Document, error) {
		return resp, nil
	})
}

// FindOne records the call and dispatches it.
func (c *Conn) FindOne(ctx context.Context, namespace string, query document.Document) (document.Document, error) {
	c.mu.Lock()
	c.calls = append(c.calls, Call{Namespace: namespace, Query: query})
	var h Handler
	if len(query) > 0 {
		h = c.handlers[query[0].Key]
	}
	c.mu.Unlock()
	if h == nil {
		return nil, nil
	}
	return h(ctx, namespace, query)
}

// Calls returns the queries received so far.
func (c *Conn) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// Reset clears handlers and recorded calls.
func (c *Conn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = make(map[string]Handler)
	c.calls = nil
}

// Database returns the database part of a "<db>.<collection>" namespace.
func Database(namespace string) string {
	idx := strings.IndexByte(namespace, '.')
	if idx == -1 {
		return namespace
	}
	return namespace[:idx]
}
