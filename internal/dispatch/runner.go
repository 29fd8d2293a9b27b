package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/angeloszaimis/statusfan/internal/metrics"
)

var ErrCyclePanicked = errors.New("cycle panicked")

// Runner repeats fetch, broadcast and report until its context is cancelled.
type Runner struct {
	source      Source
	broadcaster *Broadcaster
	logger      *slog.Logger
	collector   *metrics.Collector
	schedule    cron.Schedule
}

type RunnerOption func(*Runner)

// WithSchedule starts each cycle at the schedule's next activation instead
// of immediately after the previous one.
func WithSchedule(schedule cron.Schedule) RunnerOption {
	return func(r *Runner) {
		r.schedule = schedule
	}
}

func WithCycleMetrics(collector *metrics.Collector) RunnerOption {
	return func(r *Runner) {
		r.collector = collector
	}
}

func NewRunner(source Source, broadcaster *Broadcaster, logger *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		source:      source,
		broadcaster: broadcaster,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ParseSchedule parses a standard cron spec or descriptor such as
// "@every 5s". An empty spec means no schedule.
func ParseSchedule(spec string) (cron.Schedule, error) {
	if spec == "" {
		return nil, nil
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	return schedule, nil
}

// Run loops until ctx is cancelled and then returns ctx.Err(). A failed
// cycle is logged and never stops the loop.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Dispatcher started")
	defer r.logger.Info("Dispatcher stopped")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		log := r.logger.With(slog.String("cycle_id", uuid.NewString()))

		if _, err := r.runCycle(ctx, log); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("Error processing data", slog.Any("err", err))
			r.collector.Emit(metrics.MetricEvent{Type: metrics.EventCycleFailed})
		}

		if err := r.wait(ctx); err != nil {
			return err
		}
	}
}

// RunCycle performs a single fetch and broadcast.
func (r *Runner) RunCycle(ctx context.Context) ([]DeliveryResult, error) {
	return r.runCycle(ctx, r.logger.With(slog.String("cycle_id", uuid.NewString())))
}

func (r *Runner) runCycle(ctx context.Context, log *slog.Logger) (results []DeliveryResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			results = nil
			err = fmt.Errorf("%w: %v", ErrCyclePanicked, rec)
		}
	}()

	event, err := r.source.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch event: %w", err)
	}

	if len(event.Recipients) == 0 {
		return nil, ErrEmptyEvent
	}

	results = r.broadcaster.Broadcast(ctx, event)

	accepted := 0
	for _, res := range results {
		switch res {
		case Accepted:
			accepted++
		case Rejected:
		}
	}

	log.Info("Cycle statuses",
		slog.Any("statuses", results),
		slog.Int("accepted", accepted),
		slog.Int("rejected", len(results)-accepted))

	r.collector.Emit(metrics.MetricEvent{
		Type:       metrics.EventCycleCompleted,
		Recipients: len(event.Recipients),
	})

	return results, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.schedule == nil {
		return ctx.Err()
	}

	now := time.Now()
	delay := r.schedule.Next(now).Sub(now)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
