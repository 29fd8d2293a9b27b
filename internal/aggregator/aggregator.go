package aggregator

import (
	"context"
	"log/slog"
	"time"

	"github.com/angeloszaimis/statusfan/internal/fanout"
	"github.com/angeloszaimis/statusfan/internal/metrics"
	"github.com/angeloszaimis/statusfan/internal/status"
	"github.com/angeloszaimis/statusfan/pkg/logger"
)

type Aggregator struct {
	first     status.Checker
	second    status.Checker
	logger    *slog.Logger
	collector *metrics.Collector
	now       func() time.Time
}

type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithCollector reports every post-retry outcome to collector.
func WithCollector(collector *metrics.Collector) Option {
	return func(a *Aggregator) {
		a.collector = collector
	}
}

// WithClock replaces time.Now when stamping reports.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// New wraps first and second with WithRetry(maxAttempts). It fails if either
// checker is nil or maxAttempts is below 1.
func New(first, second status.Checker, maxAttempts int, opts ...Option) (*Aggregator, error) {
	retriedFirst, err := status.WithRetry(first, maxAttempts)
	if err != nil {
		return nil, err
	}

	retriedSecond, err := status.WithRetry(second, maxAttempts)
	if err != nil {
		return nil, err
	}

	a := &Aggregator{
		first:  retriedFirst,
		second: retriedSecond,
		logger: logger.Discard(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

type probe struct {
	checker  status.Checker
	endpoint string
}

// Aggregate checks endpoint1 and endpoint2 concurrently and waits for both.
// A fault in one check never affects the other's outcome.
func (a *Aggregator) Aggregate(ctx context.Context, applicationID, endpoint1, endpoint2 string) Report {
	probes := []probe{
		{checker: a.first, endpoint: endpoint1},
		{checker: a.second, endpoint: endpoint2},
	}

	outcomes := fanout.Map(ctx, probes, 0, func(ctx context.Context, p probe) status.Outcome {
		return a.check(ctx, applicationID, p)
	})

	report := Report{
		ApplicationID: applicationID,
		Verdict:       Combine(outcomes[0], outcomes[1]),
		Description:   Describe(outcomes[0], outcomes[1]),
		Timestamp:     a.now(),
	}

	a.logger.Info("Aggregated application status",
		slog.String("application_id", report.ApplicationID),
		slog.String("verdict", report.Verdict.String()),
		slog.String("description", report.Description))

	return report
}

func (a *Aggregator) check(ctx context.Context, applicationID string, p probe) (outcome status.Outcome) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Status check panicked",
				slog.String("application_id", applicationID),
				slog.String("endpoint", p.endpoint),
				slog.Any("panic", r))
			outcome = status.Failure
		}

		a.collector.Emit(metrics.MetricEvent{
			Type:     metrics.EventCheckCompleted,
			Target:   p.endpoint,
			Result:   outcome.String(),
			Duration: time.Since(start),
		})
	}()

	return p.checker.Check(ctx, applicationID, p.endpoint)
}
