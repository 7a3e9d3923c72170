package lock

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUserLockerSerializesSameUser(t *testing.T) {
	locker := NewLocalUserLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.LockUser(ctx, "duck-alex")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, locker.slots)
}

func TestLocalUserLockerIndependentUsers(t *testing.T) {
	locker := NewLocalUserLocker()
	ctx := context.Background()

	releaseA, err := locker.LockUser(ctx, "a")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := locker.LockUser(ctx, "b")
	require.NoError(t, err)
	releaseB()
}

func TestLocalUserLockerHonoursContext(t *testing.T) {
	locker := NewLocalUserLocker()

	release, err := locker.LockUser(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.LockUser(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release()

	again, err := locker.LockUser(context.Background(), "a")
	require.NoError(t, err)
	again()
}

func TestLocalUserLockerForgetsIdleUsers(t *testing.T) {
	locker := NewLocalUserLocker()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		release, err := locker.LockUser(ctx, fmt.Sprintf("duck-%d", i))
		require.NoError(t, err)
		release()
	}
	assert.Empty(t, locker.slots)

	held, err := locker.LockUser(ctx, "duck-held")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = locker.LockUser(waitCtx, "duck-held")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	locker.mu.Lock()
	require.Len(t, locker.slots, 1)
	assert.Equal(t, 1, locker.slots["duck-held"].refs)
	locker.mu.Unlock()

	held()
	assert.Empty(t, locker.slots)
}
