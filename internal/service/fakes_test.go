package service

import (
	"context"
	"errors"
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/shopify"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

type memStore struct {
	products   []model.Product
	outboxMsgs []repository.CreateOutboxMsgParams
}

// memDB restores the store when the transaction function fails.
type memDB struct {
	db.DB
	store *memStore
}

func (d *memDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	products := slices.Clone(d.store.products)
	outboxMsgs := slices.Clone(d.store.outboxMsgs)

	if err := txFunc(d); err != nil {
		d.store.products = products
		d.store.outboxMsgs = outboxMsgs
		return err
	}
	return nil
}

type memProductRepo struct {
	store     *memStore
	createErr error
	lastLimit int32
}

func (r *memProductRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r *memProductRepo) CreateProducts(_ context.Context, products []model.Product) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.store.products = append(r.store.products, products...)
	return int64(len(products)), nil
}

func (r *memProductRepo) ListProducts(_ context.Context, limit int32) ([]model.Product, error) {
	r.lastLimit = limit
	n := min(int(limit), len(r.store.products))
	return slices.Clone(r.store.products[:n]), nil
}

func (r *memProductRepo) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	for _, p := range r.store.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, repository.ErrProductNotFound
}

func (r *memProductRepo) DeleteProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	for i, p := range r.store.products {
		if p.ID == id {
			r.store.products = slices.Delete(r.store.products, i, i+1)
			return p, nil
		}
	}
	return model.Product{}, repository.ErrProductNotFound
}

type memOutboxMsgRepo struct {
	repository.OutboxMsgRepository
	store *memStore
}

func (r *memOutboxMsgRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *memOutboxMsgRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.store.outboxMsgs = append(r.store.outboxMsgs, params)
	return nil
}

type fakeCatalogClient struct {
	pages []shopify.ProductsPage
	// errAt makes the page at that index fail; -1 disables it.
	errAt   int
	err     error
	fetched int
}

func (c *fakeCatalogClient) Pages(_ context.Context, _ auth.Session, _ int, _ string) iter.Seq2[shopify.ProductsPage, error] {
	return func(yield func(shopify.ProductsPage, error) bool) {
		for i, page := range c.pages {
			c.fetched++
			if i == c.errAt {
				yield(shopify.ProductsPage{}, c.err)
				return
			}
			if !yield(page, nil) {
				return
			}
			if !page.HasNextPage {
				return
			}
		}
	}
}

type memCache struct {
	items   map[uuid.UUID]model.Product
	gets    int
	hits    int
	getErr  error
	deleted []uuid.UUID
}

func newMemCache() *memCache {
	return &memCache{items: map[uuid.UUID]model.Product{}}
}

func (c *memCache) Get(_ context.Context, id uuid.UUID) (model.Product, bool, error) {
	c.gets++
	if c.getErr != nil {
		return model.Product{}, false, c.getErr
	}
	p, ok := c.items[id]
	if ok {
		c.hits++
	}
	return p, ok, nil
}

func (c *memCache) Set(_ context.Context, p model.Product) error {
	c.items[p.ID] = p
	return nil
}

func (c *memCache) Delete(_ context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		delete(c.items, id)
		c.deleted = append(c.deleted, id)
	}
	return nil
}

var errRemote = errors.New("remote failure")
