package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/shopify"
)

var testSession = auth.Session{Shop: "demo.myshopify.com", AccessToken: "shpat_test"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func productNode(t *testing.T, raw string) shopify.ProductNode {
	t.Helper()

	var node shopify.ProductNode
	require.NoError(t, json.Unmarshal([]byte(raw), &node))
	return node
}

func samplePage(t *testing.T, hasNext bool) shopify.ProductsPage {
	t.Helper()

	return shopify.ProductsPage{
		Products: []shopify.ProductNode{
			productNode(t, `{
				"id": "gid://shopify/Product/1",
				"title": "Snowboard",
				"vendor": "Hydrogen",
				"description": "A board",
				"images": {"edges": [{"node": {"src": "https://cdn.example/1.png", "altText": "front"}}]},
				"variants": {"edges": [{"node": {"price": "19.99"}}]}
			}`),
			productNode(t, `{
				"id": "gid://shopify/Product/2",
				"title": "Gift card",
				"vendor": "Hydrogen",
				"description": null,
				"images": {"edges": []},
				"variants": {"edges": [{"node": {"price": "abc"}}]}
			}`),
			productNode(t, `{
				"id": "gid://shopify/Product/3",
				"title": "Sticker",
				"vendor": "Acme",
				"images": {"edges": []},
				"variants": {"edges": []}
			}`),
		},
		HasNextPage: hasNext,
		EndCursor:   "cursor-3",
	}
}

type catalogFixture struct {
	store       *memStore
	productRepo *memProductRepo
	client      *fakeCatalogClient
	svc         CatalogService
}

func newCatalogFixture(cfg config.Catalog, client *fakeCatalogClient) catalogFixture {
	store := &memStore{}
	productRepo := &memProductRepo{store: store}

	return catalogFixture{
		store:       store,
		productRepo: productRepo,
		client:      client,
		svc: NewCatalogService(
			cfg,
			discardLogger(),
			&memDB{store: store},
			client,
			productRepo,
			&memOutboxMsgRepo{store: store},
		),
	}
}

func TestImportCatalogPage(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(
		config.Catalog{PageSize: 10, MaxPages: 1},
		&fakeCatalogClient{pages: []shopify.ProductsPage{samplePage(t, false)}, errAt: -1},
	)

	res, err := f.svc.ImportCatalogPage(context.Background(), testSession)
	require.NoError(t, err)

	assert.Equal(t, 3, res.ImportedCount)
	require.Len(t, f.store.products, 3)
	assert.Equal(t, res.Products, f.store.products)

	board := f.store.products[0]
	assert.Equal(t, "gid://shopify/Product/1", board.ProductID)
	assert.Equal(t, "Snowboard", board.Title)
	assert.Equal(t, "Hydrogen", board.Vendor)
	require.NotNil(t, board.Description)
	assert.Equal(t, "A board", *board.Description)
	require.NotNil(t, board.Image)
	assert.Equal(t, "https://cdn.example/1.png", *board.Image)
	assert.InDelta(t, 19.99, board.Price, 1e-9)
	assert.False(t, board.CreatedAt.IsZero())

	giftCard := f.store.products[1]
	assert.Nil(t, giftCard.Image)
	assert.Nil(t, giftCard.Description)
	assert.Zero(t, giftCard.Price)

	sticker := f.store.products[2]
	assert.Nil(t, sticker.Image)
	assert.Zero(t, sticker.Price)

	// ids are v7, so they sort in insertion order
	assert.Less(t, board.ID.String(), giftCard.ID.String())
	assert.Less(t, giftCard.ID.String(), sticker.ID.String())

	require.Len(t, f.store.outboxMsgs, 1)
	msg := f.store.outboxMsgs[0]
	assert.Equal(t, event.TopicCatalogPageImported, msg.Topic)
	require.NotNil(t, msg.PartitionKey)
	assert.Equal(t, testSession.Shop, *msg.PartitionKey)

	var ev event.CatalogPageImportedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &ev))
	assert.Equal(t, testSession.Shop, ev.Shop)
	assert.Equal(t, 3, ev.ImportedCount)
	assert.Equal(t, []string{
		"gid://shopify/Product/1",
		"gid://shopify/Product/2",
		"gid://shopify/Product/3",
	}, ev.ProductIDs)
}

func TestImportCatalogPage_DuplicatesAreKept(t *testing.T) {
	t.Parallel()

	page := samplePage(t, false)
	f := newCatalogFixture(
		config.Catalog{PageSize: 10, MaxPages: 1},
		&fakeCatalogClient{pages: []shopify.ProductsPage{page}, errAt: -1},
	)

	_, err := f.svc.ImportCatalogPage(context.Background(), testSession)
	require.NoError(t, err)
	_, err = f.svc.ImportCatalogPage(context.Background(), testSession)
	require.NoError(t, err)

	require.Len(t, f.store.products, 6)
	for i := range 3 {
		first, second := f.store.products[i], f.store.products[i+3]
		assert.Equal(t, first.ProductID, second.ProductID)
		assert.NotEqual(t, first.ID, second.ID)
	}
}

func TestImportCatalogPage_RemoteErrorInsertsNothing(t *testing.T) {
	t.Parallel()

	gqlErr := &shopify.GraphQLError{Errors: []shopify.GraphQLErr{{Message: "Throttled"}}}
	f := newCatalogFixture(
		config.Catalog{PageSize: 10, MaxPages: 1},
		&fakeCatalogClient{pages: []shopify.ProductsPage{{}}, errAt: 0, err: gqlErr},
	)

	res, err := f.svc.ImportCatalogPage(context.Background(), testSession)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.RemoteCatalogErr)

	var target *shopify.GraphQLError
	assert.True(t, errors.As(err, &target))
	assert.Zero(t, res.ImportedCount)
	assert.Empty(t, f.store.products)
	assert.Empty(t, f.store.outboxMsgs)
}

func TestImportCatalogPage_PersistenceErrorRollsBack(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(
		config.Catalog{PageSize: 10, MaxPages: 1},
		&fakeCatalogClient{pages: []shopify.ProductsPage{samplePage(t, false)}, errAt: -1},
	)
	f.productRepo.createErr = errors.New("copy failed")

	_, err := f.svc.ImportCatalogPage(context.Background(), testSession)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.PersistenceErr)
	assert.Empty(t, f.store.products)
	assert.Empty(t, f.store.outboxMsgs)
}

func TestImportCatalogPage_Pagination(t *testing.T) {
	t.Parallel()

	pages := []shopify.ProductsPage{samplePage(t, true), samplePage(t, true), samplePage(t, false)}

	t.Run("default reads a single page", func(t *testing.T) {
		t.Parallel()

		f := newCatalogFixture(config.Catalog{}, &fakeCatalogClient{pages: pages, errAt: -1})

		res, err := f.svc.ImportCatalogPage(context.Background(), testSession)
		require.NoError(t, err)
		assert.Equal(t, 3, res.ImportedCount)
		assert.Equal(t, 1, f.client.fetched)
	})

	t.Run("max pages bounds the import", func(t *testing.T) {
		t.Parallel()

		f := newCatalogFixture(config.Catalog{MaxPages: 2}, &fakeCatalogClient{pages: pages, errAt: -1})

		res, err := f.svc.ImportCatalogPage(context.Background(), testSession)
		require.NoError(t, err)
		assert.Equal(t, 6, res.ImportedCount)
		assert.Equal(t, 2, f.client.fetched)
	})

	t.Run("stops at the last page", func(t *testing.T) {
		t.Parallel()

		f := newCatalogFixture(config.Catalog{MaxPages: 10}, &fakeCatalogClient{pages: pages, errAt: -1})

		res, err := f.svc.ImportCatalogPage(context.Background(), testSession)
		require.NoError(t, err)
		assert.Equal(t, 9, res.ImportedCount)
		assert.Equal(t, 3, f.client.fetched)
	})

	t.Run("a failing later page discards earlier pages", func(t *testing.T) {
		t.Parallel()

		f := newCatalogFixture(config.Catalog{MaxPages: 3}, &fakeCatalogClient{pages: pages, errAt: 1, err: errRemote})

		_, err := f.svc.ImportCatalogPage(context.Background(), testSession)
		require.ErrorIs(t, err, apperr.RemoteCatalogErr)
		assert.Empty(t, f.store.products)
	})
}

func TestImportCatalogPage_EmptyCatalog(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(
		config.Catalog{},
		&fakeCatalogClient{pages: []shopify.ProductsPage{{}}, errAt: -1},
	)

	res, err := f.svc.ImportCatalogPage(context.Background(), testSession)
	require.NoError(t, err)
	assert.Zero(t, res.ImportedCount)
	assert.Empty(t, res.Products)
	assert.Empty(t, f.store.outboxMsgs)
}
