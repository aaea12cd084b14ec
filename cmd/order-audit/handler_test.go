package main

import (
	"context"
	"testing"

	kgo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MikeMC777/cardstore/internal/kafka"
	"github.com/MikeMC777/cardstore/internal/order"
)

func TestAuditHandler_LogsEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := newAuditHandler(zap.New(core))

	env := order.Envelope{
		EventID:   "e-1",
		EventType: order.EventOrderCanceled,
		Payload:   kafka.MustMarshal(order.OrderEventPayload{OrderID: 12, UserID: 1, Status: order.StatusCanceled, Total: "89.97"}),
	}
	if err := h(context.Background(), kgo.Message{Value: kafka.MustMarshal(env)}); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("order event").All()
	if len(entries) != 1 {
		t.Fatalf("entries=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["order_id"] != int64(12) || fields["event_type"] != order.EventOrderCanceled {
		t.Fatalf("fields=%v", fields)
	}
}

func TestAuditHandler_Malformed(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := newAuditHandler(zap.New(core))

	if err := h(context.Background(), kgo.Message{Value: []byte("not json")}); err != nil {
		t.Fatalf("malformed message must be committed, got %v", err)
	}
	if logs.FilterMessage("skip malformed envelope").Len() != 1 {
		t.Fatal("expected a warning")
	}

	missing := kafka.MustMarshal(order.Envelope{EventID: "e-2", Payload: kafka.MustMarshal(order.OrderEventPayload{})})
	if err := h(context.Background(), kgo.Message{Value: missing}); err != nil {
		t.Fatalf("event without order id must be committed, got %v", err)
	}
	if logs.FilterMessage("skip event without order id").Len() != 1 {
		t.Fatal("expected a warning for event without order id")
	}
}
