package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
)

// ProductCache is a lookaside cache for single product lookups.
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (model.Product, bool, error)
	Set(ctx context.Context, product model.Product) error
	Delete(ctx context.Context, ids ...uuid.UUID) error
}

var _ ProductCache = NopProductCache{}

// NopProductCache is used when no cache is configured; every lookup misses.
type NopProductCache struct{}

func (NopProductCache) Get(context.Context, uuid.UUID) (model.Product, bool, error) {
	return model.Product{}, false, nil
}

func (NopProductCache) Set(context.Context, model.Product) error { return nil }

func (NopProductCache) Delete(context.Context, ...uuid.UUID) error { return nil }
