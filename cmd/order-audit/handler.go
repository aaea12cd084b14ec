package main

import (
	"context"

	kgo "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/MikeMC777/cardstore/internal/kafka"
	"github.com/MikeMC777/cardstore/internal/order"
)

// newAuditHandler writes one structured log record per lifecycle event.
// Malformed messages are logged and committed.
func newAuditHandler(logger *zap.Logger) kafka.Handler {
	tracer := otel.Tracer("github.com/MikeMC777/cardstore/cmd/order-audit")
	return func(ctx context.Context, m kgo.Message) error {
		ctx = otel.GetTextMapPropagator().Extract(ctx, &kafka.HeaderCarrier{Headers: m.Headers})
		_, span := tracer.Start(ctx, "order.audit")
		defer span.End()

		var env order.Envelope
		if err := kafka.UnmarshalEnvelope(m.Value, &env); err != nil {
			logger.Warn("skip malformed envelope", zap.Int64("offset", m.Offset), zap.Error(err))
			return nil
		}
		p, err := kafka.UnwrapPayload[order.OrderEventPayload](env.Payload)
		if err != nil {
			logger.Warn("skip malformed payload", zap.String("event_id", env.EventID), zap.Error(err))
			return nil
		}
		if p.OrderID == 0 {
			logger.Warn("skip event without order id", zap.String("event_id", env.EventID), zap.Int64("offset", m.Offset))
			return nil
		}

		logger.Info("order event",
			zap.String("event_id", env.EventID),
			zap.String("event_type", env.EventType),
			zap.Int64("order_id", p.OrderID),
			zap.Int64("user_id", p.UserID),
			zap.String("status", string(p.Status)),
			zap.String("total", p.Total),
			zap.Int("lines", len(p.Lines)),
			zap.String("correlation_id", env.CorrelationID),
			zap.Time("occurred_at", env.OccurredAt),
		)
		return nil
	}
}
