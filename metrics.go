package redishelf

import "time"

// Metrics provides observability for store and index operations
type Metrics interface {
	// Increment increases a counter by 1
	Increment(name string, tags ...string)

	// Gauge sets an absolute value
	Gauge(name string, value float64, tags ...string)

	// Histogram records a value distribution
	Histogram(name string, value float64, tags ...string)

	// Timing records a duration
	Timing(name string, duration time.Duration, tags ...string)
}

// NoOpMetrics is a metrics collector that does nothing
type NoOpMetrics struct{}

func (m *NoOpMetrics) Increment(name string, tags ...string)                      {}
func (m *NoOpMetrics) Gauge(name string, value float64, tags ...string)           {}
func (m *NoOpMetrics) Histogram(name string, value float64, tags ...string)       {}
func (m *NoOpMetrics) Timing(name string, duration time.Duration, tags ...string) {}

// InMemoryMetrics stores metrics in memory for testing
type InMemoryMetrics struct {
	Counters   map[string]int
	Gauges     map[string]float64
	Histograms map[string][]float64
	Timings    map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		Counters:   make(map[string]int),
		Gauges:     make(map[string]float64),
		Histograms: make(map[string][]float64),
		Timings:    make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Increment(name string, tags ...string) {
	m.Counters[name]++
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...string) {
	m.Gauges[name] = value
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...string) {
	m.Histograms[name] = append(m.Histograms[name], value)
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...string) {
	m.Timings[name] = append(m.Timings[name], duration)
}

// Common metric names
const (
	MetricHashGetSuccess  = "redishelf.hash.get.success"
	MetricHashGetMiss     = "redishelf.hash.get.miss"
	MetricHashGetError    = "redishelf.hash.get.error"
	MetricHashGetDuration = "redishelf.hash.get.duration"
	MetricHashPutSuccess  = "redishelf.hash.put.success"
	MetricHashPutError    = "redishelf.hash.put.error"
	MetricHashPutDuration = "redishelf.hash.put.duration"
	MetricSetAddSuccess   = "redishelf.set.add.success"
	MetricSetAddError     = "redishelf.set.add.error"
	MetricSetAddDuration  = "redishelf.set.add.duration"

	MetricCounterIncrement = "redishelf.counter.increment"
	MetricCounterError     = "redishelf.counter.error"

	MetricIndexCreate      = "redishelf.index.create"
	MetricIndexCreateError = "redishelf.index.create.error"
	MetricSearchSuccess    = "redishelf.search.success"
	MetricSearchError      = "redishelf.search.error"
)
