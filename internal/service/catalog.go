package service

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/shopify"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/outbox"
)

const (
	defaultPageSize = 10
	// Admin API hard limit for a connection's first argument.
	maxPageSize = 250
)

// CatalogClient reads product pages from the remote store.
type CatalogClient interface {
	Pages(ctx context.Context, session auth.Session, size int, after string) iter.Seq2[shopify.ProductsPage, error]
}

type ImportResult struct {
	ImportedCount int
	Products      []model.Product
}

type CatalogService interface {
	// ImportCatalogPage fetches products from the remote store and inserts all of
	// them in a single transaction. Nothing is inserted when any step fails.
	ImportCatalogPage(ctx context.Context, session auth.Session) (ImportResult, error)
}

type catalogService struct {
	cfg           config.Catalog
	logger        *slog.Logger
	db            db.DB
	client        CatalogClient
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewCatalogService(
	cfg config.Catalog,
	logger *slog.Logger,
	db db.DB,
	client CatalogClient,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) CatalogService {
	return &catalogService{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "catalog")),
		db:            db,
		client:        client,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *catalogService) pageSize() int {
	switch {
	case s.cfg.PageSize <= 0:
		return defaultPageSize
	case s.cfg.PageSize > maxPageSize:
		return maxPageSize
	default:
		return s.cfg.PageSize
	}
}

func (s *catalogService) maxPages() int {
	return max(s.cfg.MaxPages, 1)
}

func (s *catalogService) ImportCatalogPage(ctx context.Context, session auth.Session) (ImportResult, error) {
	nodes, err := s.fetchNodes(ctx, session)
	if err != nil {
		s.logger.ErrorContext(ctx, "error fetching remote catalog", slog.Any("error", err))
		return ImportResult{}, apperr.RemoteCatalogErr.WrapParent(err)
	}

	products, err := flattenProducts(nodes, time.Now())
	if err != nil {
		return ImportResult{}, apperr.PersistenceErr.WrapParent(err)
	}

	if len(products) == 0 {
		s.logger.InfoContext(ctx, "remote catalog is empty")
		return ImportResult{Products: []model.Product{}}, nil
	}

	evBytes, err := json.Marshal(newCatalogPageImportedEvent(session.Shop, products))
	if err != nil {
		return ImportResult{}, fmt.Errorf("marshal event: %w", err)
	}

	var inserted int64
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		n, err := s.productRepo.
			WithDB(db).
			CreateProducts(ctx, products)
		if err != nil {
			return fmt.Errorf("product repository create products: %w", err)
		}
		inserted = n

		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:        event.TopicCatalogPageImported,
				Headers:      outbox.BuildHeaders(ctx),
				Payload:      evBytes,
				PartitionKey: &session.Shop,
			}); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		s.logger.ErrorContext(ctx, "error inserting products", slog.Any("error", err))
		return ImportResult{}, apperr.PersistenceErr.WrapParent(fmt.Errorf("db with tx: %w", err))
	}

	s.logger.InfoContext(ctx, "imported catalog page",
		slog.Int64("count", inserted),
		slog.String("shop", session.Shop),
	)

	return ImportResult{
		ImportedCount: int(inserted),
		Products:      products,
	}, nil
}

func (s *catalogService) fetchNodes(ctx context.Context, session auth.Session) ([]shopify.ProductNode, error) {
	var (
		nodes []shopify.ProductNode
		pages int
	)

	for page, err := range s.client.Pages(ctx, session, s.pageSize(), "") {
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", pages+1, err)
		}

		nodes = append(nodes, page.Products...)
		pages++
		if pages >= s.maxPages() {
			break
		}
	}

	return nodes, nil
}

func newCatalogPageImportedEvent(shop string, products []model.Product) event.CatalogPageImportedEvent {
	ev := event.CatalogPageImportedEvent{
		Shop:          shop,
		ImportedCount: len(products),
		IDs:           make([]string, 0, len(products)),
		ProductIDs:    make([]string, 0, len(products)),
	}
	for _, p := range products {
		ev.IDs = append(ev.IDs, p.ID.String())
		ev.ProductIDs = append(ev.ProductIDs, p.ProductID)
	}
	return ev
}
