package uuidcreator

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts creator activity. It implements prometheus.Collector; a
// nil *Metrics records nothing.
type Metrics struct {
	generatedTotal      *prometheus.CounterVec
	counterOverflows    prometheus.Counter
	clockSequenceChange prometheus.Counter
}

// NewMetrics returns collectors under the given namespace. Register them
// with prometheus.Registerer.MustRegister.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		generatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uuid",
			Name:      "generated_total",
			Help:      "UUIDs generated, by version or GUID kind.",
		}, []string{"version"}),
		counterOverflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uuid",
			Name:      "counter_overflows_total",
			Help:      "Times the timestamp counter ran out of values within one clock tick.",
		}),
		clockSequenceChange: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uuid",
			Name:      "clock_sequence_changes_total",
			Help:      "Clock sequence bumps caused by clock regression or node changes.",
		}),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.generatedTotal.Describe(ch)
	m.counterOverflows.Describe(ch)
	m.clockSequenceChange.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.generatedTotal.Collect(ch)
	m.counterOverflows.Collect(ch)
	m.clockSequenceChange.Collect(ch)
}

func (m *Metrics) generated(v Version) {
	m.generatedKind(v.String())
}

func (m *Metrics) generatedKind(kind string) {
	if m == nil {
		return
	}
	m.generatedTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) counterOverflowed() {
	if m == nil {
		return
	}
	m.counterOverflows.Inc()
}

func (m *Metrics) clockSequenceChanged() {
	if m == nil {
		return
	}
	m.clockSequenceChange.Inc()
}
