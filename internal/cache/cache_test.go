package cache

import (
	"context"
	"sync"
	"sync/atomic"
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

type product struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestClient(store *coordination.MemoryStore, load Loader[product]) *Client[product] {
	return NewClient[product](store, load, Options{
		KeyPrefix: "cache:product:",
		LockName:  "product:",
	})
}

func TestGetLoadsOnceThenServesFromCache(t *testing.T) {
	store := coordination.NewMemoryStore()
	var loads int32
	client := newTestClient(store, func(_ context.Context, id int64) (*product, error) {
		atomic.AddInt32(&loads, 1)
		return &product{Id: id, Name: "widget"}, nil
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := client.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "widget", got.Name)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestGetCachesConfirmedMiss(t *testing.T) {
	store := coordination.NewMemoryStore()
	var loads int32
	client := newTestClient(store, func(_ context.Context, _ int64) (*product, error) {
		atomic.AddInt32(&loads, 1)
		return nil, nil
	})
	ctx := context.Background()

	_, err := client.Get(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = client.Get(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)

	// The second miss is answered by the empty marker, not the durable store.
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestGetEmptyMarkerExpires(t *testing.T) {
	store := coordination.NewMemoryStore()
	base := time.Now()
	current := base
	store.SetClock(func() time.Time { return current })

	var loads int32
	client := newTestClient(store, func(_ context.Context, id int64) (*product, error) {
		if atomic.AddInt32(&loads, 1) == 1 {
			return nil, nil
		}
		return &product{Id: id, Name: "late arrival"}, nil
	})
	ctx := context.Background()

	_, err := client.Get(ctx, 5)
	require.ErrorIs(t, err, ErrNotFound)

	current = base.Add(defaultEmptyTTL + time.Second)

	got, err := client.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "late arrival", got.Name)
}

func TestGetConcurrentReadersSingleRebuild(t *testing.T) {
	store := coordination.NewMemoryStore()
	var loads int32
	release := make(chan struct{})
	client := newTestClient(store, func(_ context.Context, id int64) (*product, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return &product{Id: id, Name: "widget"}, nil
	})
	ctx := context.Background()

	const readers = 16
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			got, err := client.Get(ctx, 1)
			if assert.NoError(t, err) {
				assert.Equal(t, "widget", got.Name)
			}
		}()
	}
	started.Wait()
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestGetGivesUpAfterBoundedPolling(t *testing.T) {
	store := coordination.NewMemoryStore()
	client := NewClient[product](store, func(_ context.Context, _ int64) (*product, error) {
		t.Fatal("loader must not run while the rebuild lock is held elsewhere")
		return nil, nil
	}, Options{
		KeyPrefix:       "cache:product:",
		LockName:        "product:",
		RebuildAttempts: 3,
		RebuildBackoff:  time.Millisecond,
	})
	ctx := context.Background()

	// Hold the rebuild lock from outside so every attempt loses the election.
	ok, err := store.SetIfAbsent(ctx, "lock:product:1", "someone-else", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = client.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrContended)
}

func TestGetReloadsAfterInvalidation(t *testing.T) {
	store := coordination.NewMemoryStore()
	var loads int32
	client := newTestClient(store, func(_ context.Context, id int64) (*product, error) {
		n := atomic.AddInt32(&loads, 1)
		if n == 1 {
			return &product{Id: id, Name: "v1"}, nil
		}
		return &product{Id: id, Name: "v2"}, nil
	})
	ctx := context.Background()

	got, err := client.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Name)

	require.NoError(t, store.Delete(ctx, "cache:product:1"))

	got, err = client.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
}
