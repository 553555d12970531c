package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
)

type productFixture struct {
	store       *memStore
	productRepo *memProductRepo
	cache       *memCache
	svc         ProductService
}

func newProductFixture(t *testing.T, n int) productFixture {
	t.Helper()

	store := &memStore{}
	for i := range n {
		store.products = append(store.products, model.Product{
			ID:        uuid.Must(uuid.NewV7()),
			ProductID: fmt.Sprintf("gid://shopify/Product/%d", i+1),
			Title:     fmt.Sprintf("Product %d", i+1),
			Vendor:    "Acme",
			Price:     float64(i),
			CreatedAt: time.Now(),
		})
	}

	productRepo := &memProductRepo{store: store}
	productCache := newMemCache()

	return productFixture{
		store:       store,
		productRepo: productRepo,
		cache:       productCache,
		svc: NewProductService(
			discardLogger(),
			&memDB{store: store},
			productCache,
			productRepo,
			&memOutboxMsgRepo{store: store},
		),
	}
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		limit     int
		wantLimit int32
		wantLen   int
	}{
		{name: "default", limit: 0, wantLimit: 10, wantLen: 10},
		{name: "negative", limit: -3, wantLimit: 10, wantLen: 10},
		{name: "smaller", limit: 3, wantLimit: 3, wantLen: 3},
		{name: "clamped", limit: 50, wantLimit: 10, wantLen: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newProductFixture(t, 15)

			products, err := f.svc.ListProducts(context.Background(), tc.limit)
			require.NoError(t, err)
			assert.Len(t, products, tc.wantLen)
			assert.Equal(t, tc.wantLimit, f.productRepo.lastLimit)
			assert.Equal(t, f.store.products[0].ID, products[0].ID)
		})
	}
}

func TestListProducts_Empty(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t, 0)

	products, err := f.svc.ListProducts(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t, 2)
	want := f.store.products[1]

	got, err := f.svc.GetProduct(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Contains(t, f.cache.items, want.ID)

	got, err = f.svc.GetProduct(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, f.cache.hits)
}

func TestGetProduct_CacheErrorFallsBackToStore(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t, 1)
	f.cache.getErr = errors.New("redis down")
	want := f.store.products[0]

	got, err := f.svc.GetProduct(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetProduct_NotFound(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t, 1)

	_, err := f.svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t, 3)
	target := f.store.products[1]
	f.cache.items[target.ID] = target

	deleted, err := f.svc.DeleteProduct(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, target, deleted)

	require.Len(t, f.store.products, 2)
	for _, p := range f.store.products {
		assert.NotEqual(t, target.ID, p.ID)
	}
	assert.NotContains(t, f.cache.items, target.ID)

	require.Len(t, f.store.outboxMsgs, 1)
	msg := f.store.outboxMsgs[0]
	assert.Equal(t, event.TopicProductDeleted, msg.Topic)

	var ev event.ProductDeletedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &ev))
	assert.Equal(t, target.ID.String(), ev.ID)
	assert.Equal(t, target.ProductID, ev.ProductID)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	t.Parallel()

	f := newProductFixture(t, 2)

	_, err := f.svc.DeleteProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	assert.Len(t, f.store.products, 2)
	assert.Empty(t, f.store.outboxMsgs)
	assert.Empty(t, f.cache.deleted)
}
