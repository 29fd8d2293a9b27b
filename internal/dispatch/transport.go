package dispatch

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSendDelay stands in for real transport latency.
const DefaultSendDelay = time.Second

// Transport delivers a payload to one recipient. It may fail or panic; the
// Broadcaster turns either into Rejected.
type Transport interface {
	Deliver(ctx context.Context, to Recipient, payload Payload) error
}

// TransportFunc adapts an ordinary function to the Transport interface.
type TransportFunc func(ctx context.Context, to Recipient, payload Payload) error

func (f TransportFunc) Deliver(ctx context.Context, to Recipient, payload Payload) error {
	return f(ctx, to, payload)
}

// SimulatedTransport waits for a fixed delay and then reports success, or the
// error returned by its fault hook.
type SimulatedTransport struct {
	delay  time.Duration
	fault  func(Recipient) error
	logger *slog.Logger
}

type SimulatedOption func(*SimulatedTransport)

// WithFault makes Deliver return fault(to) after the delay.
func WithFault(fault func(Recipient) error) SimulatedOption {
	return func(t *SimulatedTransport) {
		t.fault = fault
	}
}

func NewSimulatedTransport(delay time.Duration, logger *slog.Logger, opts ...SimulatedOption) *SimulatedTransport {
	if delay < 0 {
		delay = 0
	}

	t := &SimulatedTransport{
		delay:  delay,
		logger: logger,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *SimulatedTransport) Deliver(ctx context.Context, to Recipient, payload Payload) error {
	t.logger.Debug("Sending payload",
		slog.String("recipient", to.Host),
		slog.String("payload", payload.Data))

	timer := time.NewTimer(t.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if t.fault != nil {
		return t.fault(to)
	}

	return nil
}
