package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/angeloszaimis/statusfan/internal/fanout"
	"github.com/angeloszaimis/statusfan/internal/metrics"
)

type Broadcaster struct {
	transport Transport
	workers   int
	logger    *slog.Logger
	collector *metrics.Collector
}

type BroadcasterOption func(*Broadcaster)

// WithWorkers caps concurrent sends per event. Zero or less sends to every
// recipient at once.
func WithWorkers(n int) BroadcasterOption {
	return func(b *Broadcaster) {
		b.workers = n
	}
}

func WithDeliveryMetrics(collector *metrics.Collector) BroadcasterOption {
	return func(b *Broadcaster) {
		b.collector = collector
	}
}

func NewBroadcaster(transport Transport, logger *slog.Logger, opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		transport: transport,
		logger:    logger,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Broadcast sends event.Payload to every recipient concurrently and returns
// one result per recipient in recipient order.
func (b *Broadcaster) Broadcast(ctx context.Context, event Event) []DeliveryResult {
	return fanout.Map(ctx, event.Recipients, b.workers, func(ctx context.Context, to Recipient) DeliveryResult {
		return b.Send(ctx, to, event.Payload)
	})
}

// Send delivers payload to one recipient. It never panics: transport errors
// and panics are logged and reported as Rejected.
func (b *Broadcaster) Send(ctx context.Context, to Recipient, payload Payload) (result DeliveryResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Error sending data",
				slog.String("recipient", to.Host),
				slog.Any("err", fmt.Errorf("transport panicked: %v", r)))
			result = Rejected
		}

		b.collector.Emit(metrics.MetricEvent{
			Type:     metrics.EventDeliveryCompleted,
			Target:   to.Host,
			Result:   result.String(),
			Duration: time.Since(start),
		})
	}()

	if err := b.transport.Deliver(ctx, to, payload); err != nil {
		b.logger.Error("Error sending data",
			slog.String("recipient", to.Host),
			slog.Any("err", err))
		return Rejected
	}

	b.logger.Info("Sent payload",
		slog.String("recipient", to.Host),
		slog.String("payload", payload.Data))

	return Accepted
}
