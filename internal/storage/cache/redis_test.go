package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/ptr"
)

// mapCmdable serves Get, Set and Del from a map.
type mapCmdable struct {
	redis.Cmdable

	items   map[string]string
	ttls    map[string]time.Duration
	failGet bool
}

func newMapCmdable() *mapCmdable {
	return &mapCmdable{
		items: map[string]string{},
		ttls:  map[string]time.Duration{},
	}
}

func (m *mapCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	if m.failGet {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := m.items[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mapCmdable) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.items[key] = string(v)
	case string:
		m.items[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mapCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.items[k]; ok {
			delete(m.items, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisProductCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newMapCmdable()
	c := NewRedisProductCache(client, 5*time.Minute)

	product := model.Product{
		ID:          uuid.New(),
		ProductID:   "gid://shopify/Product/1",
		Title:       "Snowboard",
		Vendor:      "Hydrogen",
		Description: ptr.New("A board"),
		Price:       19.99,
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	_, ok, err := c.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, product))
	assert.Contains(t, client.items, "product:"+product.ID.String())
	assert.Equal(t, 5*time.Minute, client.ttls["product:"+product.ID.String()])

	got, ok, err := c.Get(ctx, product.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, product, got)

	require.NoError(t, c.Delete(ctx, product.ID))
	_, ok, err = c.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Delete(ctx))
}

func TestRedisProductCache_GetError(t *testing.T) {
	t.Parallel()

	client := newMapCmdable()
	client.failGet = true
	c := NewRedisProductCache(client, time.Minute)

	_, ok, err := c.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.False(t, ok)
}

func TestNopProductCache(t *testing.T) {
	t.Parallel()

	var c ProductCache = NopProductCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, model.Product{ID: uuid.New()}))
	_, ok, err := c.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.Delete(ctx, uuid.New()))
}
