package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerExclusive(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	ok, err := l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	ok, _ = l.TryLock(ctx, "other", time.Minute)
	assert.True(t, ok, "locks are per key")

	require.NoError(t, l.Unlock(ctx, "k"))
	ok, _ = l.TryLock(ctx, "k", time.Minute)
	assert.True(t, ok)
}

func TestLocalLockerExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.clock = func() time.Time { return now }

	ok, _ := l.TryLock(ctx, "k", time.Second)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, _ = l.TryLock(ctx, "k", time.Second)
	assert.True(t, ok, "expired lock is reclaimed")
}

func TestLocalLockerConcurrent(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.TryLock(ctx, PeriodLockKey("CR1", "2026-W41"), time.Minute); ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestRedisUnavailableBypassesLocks(t *testing.T) {
	ctx := context.Background()
	r := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: "1"}, nil)

	assert.Error(t, r.Ping(ctx))

	ok, err := r.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "without redis the database index is the guard")

	assert.NoError(t, r.Unlock(ctx, "k"))
	assert.NoError(t, r.Close())
}

func TestPeriodLockKey(t *testing.T) {
	assert.Equal(t, "scorecard:lock:CR1:2026-09", PeriodLockKey("CR1", "2026-09"))
}
