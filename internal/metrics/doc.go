// Package metrics collects outcome counts for status checks and deliveries.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Per-target result counts (Success/RetryAfter/Failure, Accepted/Rejected)
//   - Per-target latencies with percentile calculations (P50, P95, P99)
//   - Completed and failed dispatcher cycles
//
// The collector runs in a dedicated goroutine. Producers call Emit, which never
// blocks: when the buffer is full the event is dropped rather than slowing a
// send or a check.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:     metrics.EventDeliveryCompleted,
//		Target:   "recipient_0",
//		Result:   "Accepted",
//		Duration: time.Second,
//	})
//
//	snapshot := collector.Snapshot("dispatcher")
//
// Pending events are drained when the context passed to Start is cancelled.
package metrics
