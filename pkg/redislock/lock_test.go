package redislock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server: REDIS_TEST_ADDR=localhost:6379 go test ./pkg/redislock
func newTestLocker(t *testing.T) *Locker {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := NewClient(addr, "", 0)
	t.Cleanup(func() { _ = rdb.Close() })

	l := New(rdb, 5*time.Second)
	require.NoError(t, l.Ping(context.Background()))
	return l
}

func TestTryLockIsExclusive(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	unlock, ok, err := l.TryLock(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	unlock()

	unlock, ok, err = l.TryLock(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	unlock()
}

func TestUnlockKeepsForeignLock(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	unlock, ok, err := l.TryLock(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	// simulate expiry followed by another holder taking the key
	require.NoError(t, l.rdb.Set(ctx, l.prefix+key, "someone-else", time.Second*5).Err())
	unlock()

	val, err := l.rdb.Get(ctx, l.prefix+key).Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)
}
