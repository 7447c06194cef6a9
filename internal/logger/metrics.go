package logger

import (
	"sync"
	"time"
)

// Metrics tracks counters, gauges and timings. All operations are thread-safe.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string]*timing
}

// timing keeps running totals so memory stays constant per name
type timing struct {
	count int
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// TimingStats aggregates the durations recorded under one name
type TimingStats struct {
	Count   int    `json:"count"`
	Total   string `json:"total"`
	Average string `json:"average"`
	Min     string `json:"min"`
	Max     string `json:"max"`
}

// Snapshot is a point-in-time copy of all metrics
type Snapshot struct {
	Counters map[string]int64       `json:"counters"`
	Gauges   map[string]float64     `json:"gauges"`
	Timings  map[string]TimingStats `json:"timings"`
}

var defaultMetrics = NewMetrics()

// NewMetrics creates a new metrics tracker with empty counters, gauges, and timings.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string]*timing),
	}
}

// IncrCounter increments a counter by 1
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// SetGauge overwrites a gauge
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// RecordTiming records one duration measurement
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.timings[name]
	if !ok {
		m.timings[name] = &timing{count: 1, total: duration, min: duration, max: duration}
		return
	}
	t.count++
	t.total += duration
	if duration < t.min {
		t.min = duration
	}
	if duration > t.max {
		t.max = duration
	}
}

// GetSnapshot returns a deep copy of all metrics with timing statistics computed.
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Gauges:   make(map[string]float64, len(m.gauges)),
		Timings:  make(map[string]TimingStats, len(m.timings)),
	}

	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = v
	}

	for name, t := range m.timings {
		snap.Timings[name] = TimingStats{
			Count:   t.count,
			Total:   t.total.String(),
			Average: (t.total / time.Duration(t.count)).String(),
			Min:     t.min.String(),
			Max:     t.max.String(),
		}
	}

	return snap
}

// Reset clears every metric
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = make(map[string]int64)
	m.gauges = make(map[string]float64)
	m.timings = make(map[string]*timing)
}

// IncrCounter increments a counter on the default metrics tracker
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// SetGauge sets a gauge on the default metrics tracker
func SetGauge(name string, value float64) {
	defaultMetrics.SetGauge(name, value)
}

// RecordTiming records a timing on the default metrics tracker
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// GetMetricsSnapshot returns a snapshot of the default metrics tracker
func GetMetricsSnapshot() Snapshot {
	return defaultMetrics.GetSnapshot()
}

// ResetMetrics clears the default metrics tracker
func ResetMetrics() {
	defaultMetrics.Reset()
}
