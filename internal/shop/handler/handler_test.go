package handler

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftcart/flashsale/internal/configs"
	"github.com/swiftcart/flashsale/internal/coordination"
	"github.com/swiftcart/flashsale/internal/repositories/sql/shop"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

type fakeShopRepo struct {
	mu    sync.Mutex
	shops map[int64]*shop.Table
	reads int
}

func newFakeShopRepo(shops ...*shop.Table) *fakeShopRepo {
	r := &fakeShopRepo{shops: make(map[int64]*shop.Table)}
	for _, s := range shops {
		r.shops[s.Id] = s
	}
	return r
}

func (r *fakeShopRepo) GetById(id int64) (*shop.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	s, ok := r.shops[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeShopRepo) Update(table *shop.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shops[table.Id] = table
	return nil
}

func (r *fakeShopRepo) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func newTestShopHandler(repo shop.Repository) *ShopHandler {
	return New(repo, coordination.NewMemoryStore(), configs.Configs{})
}

func TestGetByIdServesFromCacheAfterFirstRead(t *testing.T) {
	repo := newFakeShopRepo(&shop.Table{Id: 1, Name: "Coffee Corner"})
	h := newTestShopHandler(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := h.GetById(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Coffee Corner", got.Name)
	}
	assert.Equal(t, 1, repo.readCount())
}

func TestGetByIdUnknownShop(t *testing.T) {
	repo := newFakeShopRepo()
	h := newTestShopHandler(repo)

	_, err := h.GetById(context.Background(), 99)
	assert.ErrorIs(t, err, ErrShopNotFound)

	// The confirmed miss is cached, the durable store is not asked again.
	_, err = h.GetById(context.Background(), 99)
	assert.ErrorIs(t, err, ErrShopNotFound)
	assert.Equal(t, 1, repo.readCount())
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := newFakeShopRepo(&shop.Table{Id: 1, Name: "Coffee Corner"})
	h := newTestShopHandler(repo)
	ctx := context.Background()

	got, err := h.GetById(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Coffee Corner", got.Name)

	require.NoError(t, h.Update(ctx, &shop.Table{Id: 1, Name: "Tea House"}))

	got, err = h.GetById(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Tea House", got.Name)
}
