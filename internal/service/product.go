package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/cache"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/outbox"
)

// MaxListLimit is the most products a single list call returns.
const MaxListLimit = 10

type ProductService interface {
	// ListProducts returns at most MaxListLimit products in insertion order.
	// A non-positive limit means MaxListLimit.
	ListProducts(ctx context.Context, limit int) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	// DeleteProduct removes the product and returns the deleted row.
	DeleteProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
}

type productService struct {
	logger        *slog.Logger
	db            db.DB
	cache         cache.ProductCache
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProductService(
	logger *slog.Logger,
	db db.DB,
	productCache cache.ProductCache,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	if productCache == nil {
		productCache = cache.NopProductCache{}
	}

	return &productService{
		logger:        logger.With(slog.String("service", "product")),
		db:            db,
		cache:         productCache,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func clampListLimit(limit int) int32 {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return int32(limit) //nolint:gosec
}

func (s *productService) ListProducts(ctx context.Context, limit int) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, clampListLimit(limit))
	if err != nil {
		return nil, apperr.PersistenceErr.WrapParent(
			fmt.Errorf("product repository list products: %w", err),
		)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	cached, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "error reading product cache",
			slog.String("id", id.String()),
			slog.Any("error", err),
		)
	}
	if ok {
		return cached, nil
	}

	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, apperr.PersistenceErr.WrapParent(
			fmt.Errorf("product repository get product: %w", err),
		)
	}

	if err := s.cache.Set(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "error writing product cache",
			slog.String("id", id.String()),
			slog.Any("error", err),
		)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	var deleted model.Product
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		product, err := s.productRepo.
			WithDB(db).
			DeleteProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository delete product: %w", err)
		}
		deleted = product

		evBytes, err := json.Marshal(event.ProductDeletedEvent{
			ID:        product.ID.String(),
			ProductID: product.ProductID,
			Title:     product.Title,
		})
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}

		partitionKey := product.ID.String()
		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:        event.TopicProductDeleted,
				Headers:      outbox.BuildHeaders(ctx),
				Payload:      evBytes,
				PartitionKey: &partitionKey,
			}); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, apperr.PersistenceErr.WrapParent(fmt.Errorf("db with tx: %w", err))
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "error evicting product cache",
			slog.String("id", id.String()),
			slog.Any("error", err),
		)
	}

	return deleted, nil
}
