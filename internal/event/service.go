package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/cache"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/mq"
)

// Service is the event service.
type Service struct {
	logger       *slog.Logger
	mqConsumer   mq.Consumer
	productCache cache.ProductCache
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
	productCache cache.ProductCache,
) *Service {
	if productCache == nil {
		productCache = cache.NopProductCache{}
	}

	return &Service{
		logger:       logger.With(slog.String("service", "event")),
		mqConsumer:   mqConsumer,
		productCache: productCache,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(
		TopicCatalogPageImported,
		jsonHandler(s.handleCatalogPageImportedEvent),
	); err != nil {
		return nil, fmt.Errorf("register catalog page imported event handler: %w", err)
	}

	if err := s.mqConsumer.RegisterHandler(
		TopicProductDeleted,
		jsonHandler(s.handleProductDeletedEvent),
	); err != nil {
		return nil, fmt.Errorf("register product deleted event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func jsonHandler[T any](handle func(context.Context, T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := handle(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
