package redishelf

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements the Metrics interface using Prometheus.
// Metric names from metrics.go become the "op" label on four generic
// families, so new operations need no registration code. Tag pairs passed
// at call sites fold into a "detail" label ("index=books-idx"); tag values
// here are index names and fixed keys, so cardinality stays bounded.
type PrometheusMetrics struct {
	counters  *prometheus.CounterVec
	gauges    *prometheus.GaugeVec
	values    *prometheus.HistogramVec
	durations *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a Prometheus metrics collector.
// If registry is nil, the default Prometheus registry is used.
func NewPrometheusMetrics(registry *prometheus.Registry) *PrometheusMetrics {
	factory := promauto.With(prometheus.DefaultRegisterer)
	if registry != nil {
		factory = promauto.With(registry)
	}

	return &PrometheusMetrics{
		counters: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "redishelf",
				Name:      "operations_total",
				Help:      "Total number of store and index operations",
			},
			[]string{"op", "detail"},
		),
		gauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "redishelf",
				Name:      "gauge",
				Help:      "Point-in-time values",
			},
			[]string{"op", "detail"},
		),
		values: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "redishelf",
				Name:      "values",
				Help:      "Value distributions (result counts, sizes)",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"op", "detail"},
		),
		durations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "redishelf",
				Name:      "operation_duration_seconds",
				Help:      "Operation latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op", "detail"},
		),
	}
}

func (p *PrometheusMetrics) Increment(name string, tags ...string) {
	p.counters.WithLabelValues(name, tagDetail(tags)).Inc()
}

func (p *PrometheusMetrics) Gauge(name string, value float64, tags ...string) {
	p.gauges.WithLabelValues(name, tagDetail(tags)).Set(value)
}

func (p *PrometheusMetrics) Histogram(name string, value float64, tags ...string) {
	p.values.WithLabelValues(name, tagDetail(tags)).Observe(value)
}

func (p *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...string) {
	p.durations.WithLabelValues(name, tagDetail(tags)).Observe(duration.Seconds())
}

// tagDetail flattens key-value tag pairs into one label value. A trailing
// unpaired tag is ignored.
func tagDetail(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(tags); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tags[i])
		b.WriteByte('=')
		b.WriteString(tags[i+1])
	}
	return b.String()
}
