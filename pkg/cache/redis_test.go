package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_SetNXAndDel(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	ok, err := s.SetNX(ctx, "reset:abc", "used", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetNX(ctx, "reset:abc", "again", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := mr.Get("test:reset:abc")
	require.NoError(t, err)
	assert.Equal(t, "used", got)
	assert.False(t, mr.Exists("reset:abc"), "keys are namespaced by the prefix")
	assert.Equal(t, time.Hour, mr.TTL("test:reset:abc"))

	n, err := s.Del(ctx, "reset:abc", "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Del(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	ok, err := s.SetNX(ctx, "k", "v", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = s.SetNX(ctx, "k", "v", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_Ping(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, s.Ping(context.Background()))

	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
}

func TestNewRedisStore_Errors(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not a url", "")
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisStore(context.Background(), "redis://"+addr, "")
	assert.Error(t, err)
}
