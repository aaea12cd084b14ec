package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// EnqueueWait is how long Publish waits for room in a full buffer before
// dropping the message.
const EnqueueWait = 100 * time.Millisecond

// Producer buffers messages and hands them to an async writer from a single
// goroutine. Publish never waits on the broker; when the buffer stays full
// the message is dropped and counted.
type Producer struct {
	w       *kafka.Writer
	logger  *zap.Logger
	inbox   chan kafka.Message
	closeCh chan struct{}
	dropped atomic.Int64
}

func NewProducer(brokers []string, topic string, buf int, logger *zap.Logger) *Producer {
	p := &Producer{
		logger:  logger,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
	p.w = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				p.logger.Error("kafka write", zap.Int("messages", len(msgs)), zap.Error(err))
			}
		},
	}
	return p
}

// Start runs the write loop until Close is called.
func (p *Producer) Start() {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.logger.Error("kafka enqueue", zap.String("key", string(m.Key)), zap.Error(err))
			}
		}
		if err := p.w.Close(); err != nil {
			p.logger.Warn("kafka writer close", zap.Error(err))
		}
	}()
}

// Publish enqueues a message. The trace context of ctx travels in the
// message headers. It returns within EnqueueWait, or sooner if ctx is done.
func (p *Producer) Publish(ctx context.Context, key, value []byte) {
	carrier := HeaderCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, &carrier)
	m := kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: carrier.Headers,
	}

	select {
	case p.inbox <- m:
		return
	default:
	}

	t := time.NewTimer(EnqueueWait)
	defer t.Stop()
	select {
	case p.inbox <- m:
	case <-ctx.Done():
		p.drop(m, ctx.Err())
	case <-t.C:
		p.drop(m, context.DeadlineExceeded)
	}
}

func (p *Producer) drop(m kafka.Message, err error) {
	n := p.dropped.Add(1)
	p.logger.Error("kafka buffer full, event dropped",
		zap.String("key", string(m.Key)),
		zap.Int64("dropped_total", n),
		zap.Error(err))
}

// Dropped reports how many messages Publish has discarded.
func (p *Producer) Dropped() int64 { return p.dropped.Load() }

// Close stops accepting messages; queued ones are flushed.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the write loop has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
