package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"goa.design/mongoutil/runtime/config"
)

type fakeHash struct {
	vals map[string]string
	err  error
}

func (f *fakeHash) HGetAll(ctx context.Context, _ string) *redis.MapStringStringCmd {
	cmd := redis.NewMapStringStringCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	cmd.SetVal(f.vals)
	return cmd
}

func TestSourceServesSnapshot(t *testing.T) {
	hash := &fakeHash{vals: map[string]string{"mongo.native_long": "on", "mongo.utf8": "off"}}
	src, err := newSource(context.Background(), hash, "settings")
	require.NoError(t, err)

	r := config.NewReader(src)
	require.True(t, r.Bool("mongo.native_long"))
	require.False(t, r.Bool("mongo.utf8"))
	require.False(t, r.Bool("missing"))

	hash.vals = map[string]string{"mongo.utf8": "on"}
	require.NoError(t, src.Refresh(context.Background()))
	require.True(t, r.Bool("mongo.utf8"))
	require.False(t, r.Bool("mongo.native_long"))
}

func TestSourceErrors(t *testing.T) {
	_, err := New(context.Background(), nil, "settings")
	require.EqualError(t, err, "redis client is required")

	_, err = newSource(context.Background(), &fakeHash{}, "")
	require.EqualError(t, err, "settings key is required")

	boom := errors.New("connection refused")
	_, err = newSource(context.Background(), &fakeHash{err: boom}, "settings")
	require.ErrorIs(t, err, boom)
}

func TestSourceWithRedis(t *testing.T) {
	ctx := context.Background()
	var (
		container    testcontainers.Container
		containerErr error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				containerErr = fmt.Errorf("docker not available: %v", r)
			}
		}()
		container, containerErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections"),
			},
			Started: true,
		})
	}()
	if containerErr != nil {
		t.Skipf("Docker not available, skipping Redis test: %v", containerErr)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.HSet(ctx, "mongoutil:settings", "MONGOUTIL_DEBUG", "on").Err())

	src, err := New(ctx, rdb, "mongoutil:settings")
	require.NoError(t, err)
	require.True(t, config.NewReader(src).Bool("MONGOUTIL_DEBUG"))
}
