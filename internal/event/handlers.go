package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

func (s *Service) handleCatalogPageImportedEvent(ctx context.Context, ev CatalogPageImportedEvent) error {
	s.logger.InfoContext(ctx, "handling catalog page imported event",
		slog.String("shop", ev.Shop),
		slog.Int("imported_count", ev.ImportedCount),
	)
	return nil
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductDeletedEvent) error {
	s.logger.InfoContext(ctx, "handling product deleted event",
		slog.String("id", ev.ID),
		slog.String("product_id", ev.ProductID),
	)

	id, err := uuid.Parse(ev.ID)
	if err != nil {
		return fmt.Errorf("parse product id: %w", err)
	}

	// other replicas may still hold the row in their cache
	if err := s.productCache.Delete(ctx, id); err != nil {
		return fmt.Errorf("evict product cache: %w", err)
	}

	return nil
}
