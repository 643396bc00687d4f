package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftcart/flashsale/internal/coordination"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

func TestTryAcquireSingleWinner(t *testing.T) {
	store := coordination.NewMemoryStore()
	ctx := context.Background()

	const contenders = 32
	var wg sync.WaitGroup
	winners := make(chan *Lock, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := New(store, "stock:7")
			ok, err := l.TryAcquire(ctx, time.Minute)
			assert.NoError(t, err)
			if ok {
				winners <- l
			}
		}()
	}
	wg.Wait()
	close(winners)

	require.Len(t, winners, 1)
}

func TestReleaseAllowsReacquire(t *testing.T) {
	store := coordination.NewMemoryStore()
	ctx := context.Background()

	first := New(store, "order:42")
	ok, err := first.TryAcquire(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	second := New(store, "order:42")
	ok, err = second.TryAcquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Release(ctx))

	ok, err = second.TryAcquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReleaseByNonOwnerIsNoOp(t *testing.T) {
	store := coordination.NewMemoryStore()
	ctx := context.Background()

	owner := New(store, "order:42")
	ok, err := owner.TryAcquire(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	stranger := New(store, "order:42")
	require.NoError(t, stranger.Release(ctx))

	// The owner's token must still be in place.
	value, found, err := store.Get(ctx, "lock:order:42")
	require.NoError(t, err)
	require.True(t, found)
	assert.NotEmpty(t, value)

	ok, err = stranger.TryAcquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpiredLockCanBeTaken(t *testing.T) {
	store := coordination.NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	current := base
	store.SetClock(func() time.Time { return current })

	first := New(store, "order:42")
	ok, err := first.TryAcquire(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	current = base.Add(2 * time.Second)

	second := New(store, "order:42")
	ok, err = second.TryAcquire(ctx, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// The first holder lost ownership, its release must not evict the second.
	require.NoError(t, first.Release(ctx))
	ok, err = New(store, "order:42").TryAcquire(ctx, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}
