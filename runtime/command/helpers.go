package command

import (
	"context"
	"errors"
	"fmt"

	"goa.design/mongoutil/runtime/document"
	"goa.design/mongoutil/runtime/index"
)

// Error is a command response whose "ok" field is not set.
type Error struct {
	Command Name
	Code    int64
	Message string
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("command %s failed (%d): %s", e.Command, e.Code, e.Message)
	}
	return fmt.Sprintf("command %s failed: %s", e.Command, e.Message)
}

// New builds { name: value, extra... }. value is normalized and the error is
// returned when it cannot be, for example when it is cyclic.
func New(name Name, value any, extra ...document.Element) (document.Document, error) {
	v, err := document.NormalizeValue(value)
	if err != nil {
		return nil, fmt.Errorf("build %s command: %w", name, err)
	}
	cmd := document.Document{{Key: string(name), Value: v}}
	for _, e := range extra {
		cmd.Set(e.Key, e.Value)
	}
	return cmd, nil
}

// CheckResponse returns an *Error when resp does not report success.
func CheckResponse(name Name, resp document.Document) error {
	ok, _ := resp.Get("ok")
	if document.Truthy(ok) {
		return nil
	}
	e := &Error{Command: name, Message: "ok field not set"}
	if msg, found := resp.Get("errmsg"); found {
		e.Message = document.Text(msg.Scalar())
	}
	if code, found := resp.Get("code"); found {
		switch c := code.Scalar().(type) {
		case int32:
			e.Code = int64(c)
		case int64:
			e.Code = c
		case int:
			e.Code = int64(c)
		case float64:
			e.Code = int64(c)
		}
	}
	return e
}

func (e *Executor) runChecked(ctx context.Context, db string, name Name, value any, extra ...document.Element) (document.Document, error) {
	cmd, err := New(name, value, extra...)
	if err != nil {
		return nil, err
	}
	resp, err := e.Run(ctx, cmd, db)
	if err != nil {
		return nil, err
	}
	if err := CheckResponse(name, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// Drop drops collection coll of db.
func (e *Executor) Drop(ctx context.Context, db, coll string) (document.Document, error) {
	return e.runChecked(ctx, db, Drop, coll)
}

// DropDatabase drops db.
func (e *Executor) DropDatabase(ctx context.Context, db string) (document.Document, error) {
	return e.runChecked(ctx, db, DropDatabase, 1)
}

// CreateCollection creates coll in db. opts are appended to the command, for
// example capped and size.
func (e *Executor) CreateCollection(ctx context.Context, db, coll string, opts ...document.Element) (document.Document, error) {
	return e.runChecked(ctx, db, CreateCollection, coll, opts...)
}

// DeleteIndexes drops the index of coll built on keys, or every index when
// keys is AllIndexes. The index name is computed with index.CanonicalName.
func (e *Executor) DeleteIndexes(ctx context.Context, db, coll string, keys any) (document.Document, error) {
	name := AllIndexes
	if s, ok := keys.(string); !ok || s != AllIndexes {
		if name = index.CanonicalName(keys); name == "" {
			return nil, fmt.Errorf("no index name for keys of type %T", keys)
		}
	}
	return e.runChecked(ctx, db, DeleteIndexes, coll, document.Element{Key: "index", Value: document.Scalar(name)})
}

// ListDatabases lists the databases of the deployment. It runs against the
// admin database.
func (e *Executor) ListDatabases(ctx context.Context) (document.Document, error) {
	return e.runChecked(ctx, AdminDatabase, ListDatabases, 1)
}

// LastError returns the status of the previous write on the connection.
func (e *Executor) LastError(ctx context.Context, db string) (document.Document, error) {
	return e.runChecked(ctx, db, LastError, 1)
}

// PrevError returns the last error reported since the last ResetError.
func (e *Executor) PrevError(ctx context.Context, db string) (document.Document, error) {
	return e.runChecked(ctx, db, PrevError, 1)
}

// ResetError clears the error status kept for db.
func (e *Executor) ResetError(ctx context.Context, db string) (document.Document, error) {
	return e.runChecked(ctx, db, ResetError, 1)
}

// Validate checks the structures of coll.
func (e *Executor) Validate(ctx context.Context, db, coll string) (document.Document, error) {
	return e.runChecked(ctx, db, Validate, coll)
}

// RepairDatabase rebuilds the data files of db.
func (e *Executor) RepairDatabase(ctx context.Context, db string) (document.Document, error) {
	return e.runChecked(ctx, db, RepairDatabase, 1)
}

// Profile sets the profiling level of db (0 off, 1 slow operations, 2 all).
func (e *Executor) Profile(ctx context.Context, db string, level int) (document.Document, error) {
	if level < 0 || level > 2 {
		return nil, fmt.Errorf("profiling level must be 0, 1 or 2, got %d", level)
	}
	return e.runChecked(ctx, db, Profile, level)
}

// Nonce returns a one-time value used to build authentication digests.
func (e *Executor) Nonce(ctx context.Context, db string) (string, error) {
	resp, err := e.runChecked(ctx, db, Nonce, 1)
	if err != nil {
		return "", err
	}
	v, ok := resp.Get("nonce")
	if !ok {
		return "", errors.New("nonce missing from response")
	}
	s, ok := v.Scalar().(string)
	if !ok {
		return "", fmt.Errorf("nonce has type %T, want string", v.Scalar())
	}
	return s, nil
}

// Logout ends the authenticated session on db.
func (e *Executor) Logout(ctx context.Context, db string) (document.Document, error) {
	return e.runChecked(ctx, db, Logout, 1)
}
