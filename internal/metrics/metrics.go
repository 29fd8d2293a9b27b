package metrics

import (
	"sort"
	"sync"
	"time"
)

// maxSamples bounds the per-target latency window.
const maxSamples = 1000

type Metrics struct {
	mutex         sync.RWMutex
	results       map[string]map[string]int64
	latencies     map[string][]time.Duration
	cyclesRun     int64
	cyclesFailed  int64
	lastCycleSize int
	startTime     time.Time
}

type Snapshot struct {
	Component string                   `json:"component"`
	Uptime    time.Duration            `json:"uptime"`
	Cycles    CycleMetrics             `json:"cycles"`
	Targets   map[string]TargetMetrics `json:"targets"`
}

type CycleMetrics struct {
	Completed      int64 `json:"completed"`
	Failed         int64 `json:"failed"`
	LastRecipients int   `json:"last_recipients"`
}

type TargetMetrics struct {
	Total      int64            `json:"total"`
	Results    map[string]int64 `json:"results"`
	AvgLatency time.Duration    `json:"avg_latency"`
	P50Latency time.Duration    `json:"p50_latency"`
	P95Latency time.Duration    `json:"p95_latency"`
	P99Latency time.Duration    `json:"p99_latency"`
}

// RecordResult counts one labelled result for target and keeps its latency.
func (m *Metrics) RecordResult(target, result string, latency time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.results[target] == nil {
		m.results[target] = make(map[string]int64)
	}
	m.results[target][result]++

	m.latencies[target] = append(m.latencies[target], latency)
	if len(m.latencies[target]) > maxSamples {
		m.latencies[target] = m.latencies[target][1:]
	}
}

func (m *Metrics) RecordCycle(recipients int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.cyclesRun++
	m.lastCycleSize = recipients
}

func (m *Metrics) RecordCycleFailure() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.cyclesFailed++
}

func (m *Metrics) Snapshot(component string) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Component: component,
		Uptime:    time.Since(m.startTime),
		Cycles: CycleMetrics{
			Completed:      m.cyclesRun,
			Failed:         m.cyclesFailed,
			LastRecipients: m.lastCycleSize,
		},
		Targets: make(map[string]TargetMetrics, len(m.results)),
	}

	for target, counts := range m.results {
		tm := TargetMetrics{
			Results: make(map[string]int64, len(counts)),
		}
		for result, n := range counts {
			tm.Results[result] = n
			tm.Total += n
		}

		durations := m.latencies[target]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			tm.AvgLatency = average(sorted)
			tm.P50Latency = percentile(sorted, 0.50)
			tm.P95Latency = percentile(sorted, 0.95)
			tm.P99Latency = percentile(sorted, 0.99)
		}

		snap.Targets[target] = tm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		results:   make(map[string]map[string]int64),
		latencies: make(map[string][]time.Duration),
		startTime: time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
