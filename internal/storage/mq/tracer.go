package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
)

var tracer = otel.Tracer("storefront-catalog/mq")

// newKafkaTracer returns the kgo hooks that record produce and fetch spans for one client.
func newKafkaTracer(cfg config.Kafka, consumer bool) *kotel.Tracer {
	opts := []kotel.TracerOpt{
		kotel.TracerProvider(otel.GetTracerProvider()),
		kotel.TracerPropagator(otel.GetTextMapPropagator()),
		kotel.ClientID(cfg.ClientID),
	}
	if consumer {
		opts = append(opts, kotel.ConsumerGroup(cfg.Group))
	}
	return kotel.NewTracer(opts...)
}
