package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/storefront-catalog/pkg/correlationid"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/outbox"
)

func TestHeadersRoundTrip(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "req-42")

	headers := outbox.BuildHeaders(ctx)
	assert.Equal(t, "req-42", headers[correlationid.Header])

	rec := &kgo.Record{}
	for k, v := range headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	got, ok := correlationid.FromContext(outbox.ContextFromRecord(context.Background(), rec))
	assert.True(t, ok)
	assert.Equal(t, "req-42", got)
}

func TestContextFromRecordWithoutHeaders(t *testing.T) {
	_, ok := correlationid.FromContext(outbox.ContextFromRecord(context.Background(), &kgo.Record{}))
	assert.False(t, ok)
}

func TestIsPropagationHeader(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	assert.True(t, outbox.IsPropagationHeader("traceparent"))
	assert.True(t, outbox.IsPropagationHeader("Tracestate"))
	assert.False(t, outbox.IsPropagationHeader(correlationid.Header))
}
