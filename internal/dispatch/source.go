package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

const (
	DefaultRecipients = 4
	DefaultPayload    = "big data"
)

var ErrEmptyEvent = errors.New("event has no recipients")

// Source yields the next event to broadcast. Next may block until an event
// is available.
type Source interface {
	Next(ctx context.Context) (Event, error)
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(ctx context.Context) (Event, error)

func (f SourceFunc) Next(ctx context.Context) (Event, error) {
	return f(ctx)
}

// StubSource builds the same event every cycle: count recipients named
// recipient_<i> and a fixed payload.
type StubSource struct {
	count   int
	payload string
	logger  *slog.Logger
}

func NewStubSource(count int, payload string, logger *slog.Logger) *StubSource {
	if count < 1 {
		count = DefaultRecipients
	}

	return &StubSource{
		count:   count,
		payload: payload,
		logger:  logger,
	}
}

func (s *StubSource) Next(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	recipients := make([]Recipient, s.count)
	for i := range recipients {
		recipients[i] = Recipient{Host: fmt.Sprintf("recipient_%d", i)}
	}

	event := Event{
		Recipients: recipients,
		Payload:    Payload{Data: s.payload},
	}

	s.logger.Info("Read event",
		slog.String("payload", event.Payload.Data),
		slog.Int("recipients", len(event.Recipients)))

	return event, nil
}
