package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventCheckCompleted    EventType = "check_completed"
	EventDeliveryCompleted EventType = "delivery_completed"
	EventCycleCompleted    EventType = "cycle_completed"
	EventCycleFailed       EventType = "cycle_failed"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Target     string
	Result     string
	Duration   time.Duration
	Recipients int
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Emit queues event without blocking. Events are dropped when the buffer is
// full. Emit on a nil Collector is a no-op.
func (c *Collector) Emit(event MetricEvent) {
	if c == nil {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventCheckCompleted, EventDeliveryCompleted:
		c.metrics.RecordResult(event.Target, event.Result, event.Duration)

	case EventCycleCompleted:
		c.metrics.RecordCycle(event.Recipients)

	case EventCycleFailed:
		c.metrics.RecordCycleFailure()

	default:
		c.logger.Warn("Unknown metric event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot(component string) Snapshot {
	return c.metrics.Snapshot(component)
}
