package inmem

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"goa.design/mongoutil/runtime/document"
)

func TestConnDispatchesOnFirstKey(t *testing.T) {
	conn := New()
	resp := document.Document{{Key: "ok", Value: document.Scalar(1)}}
	conn.Respond("ping", resp)

	got, err := conn.FindOne(context.Background(), "admin.$cmd", document.Document{{Key: "ping", Value: document.Scalar(1)}})
	require.NoError(t, err)
	require.Equal(t, resp, got)

	got, err = conn.FindOne(context.Background(), "admin.$cmd", document.Document{{Key: "other", Value: document.Scalar(1)}})
	require.NoError(t, err)
	require.Nil(t, got)

	calls := conn.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, "admin.$cmd", calls[0].Namespace)
}

func TestConnHandlerError(t *testing.T) {
	conn := New()
	boom := errors.New("boom")
	conn.Handle("drop", func(_ context.Context, ns string, _ document.Document) (document.Document, error) {
		require.Equal(t, "test", Database(ns))
		return nil, boom
	})
	_, err := conn.FindOne(context.Background(), "test.$cmd", document.Document{{Key: "drop", Value: document.Scalar("c")}})
	require.ErrorIs(t, err, boom)
}

func TestConnReset(t *testing.T) {
	conn := New()
	conn.Respond("ping", document.Document{{Key: "ok", Value: document.Scalar(1)}})
	_, _ = conn.FindOne(context.Background(), "admin.$cmd", document.Document{{Key: "ping", Value: document.Scalar(1)}})
	conn.Reset()
	require.Empty(t, conn.Calls())
	got, err := conn.FindOne(context.Background(), "admin.$cmd", document.Document{{Key: "ping", Value: document.Scalar(1)}})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDatabase(t *testing.T) {
	require.Equal(t, "db", Database("db.$cmd"))
	require.Equal(t, "db", Database("db"))
}
