package dashboard

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts controller activity. A nil *Metrics records nothing.
type Metrics struct {
	events    *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	recompute *prometheus.HistogramVec
}

// NewMetrics creates and registers the controller metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchdash",
			Name:      "events_total",
			Help:      "Control change events dispatched, by kind.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchdash",
			Name:      "rejected_selections_total",
			Help:      "Control change events rejected as invalid, by kind.",
		}, []string{"kind"}),
		recompute: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "launchdash",
			Name:      "chart_recompute_seconds",
			Help:      "Time spent building a chart spec.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"chart"}),
	}
	reg.MustRegister(m.events, m.rejected, m.recompute)
	return m
}

func (m *Metrics) observeEvent(kind EventKind) {
	if m != nil {
		m.events.WithLabelValues(string(kind)).Inc()
	}
}

func (m *Metrics) observeRejected(kind EventKind) {
	if m != nil {
		m.rejected.WithLabelValues(string(kind)).Inc()
	}
}

func (m *Metrics) observeRecompute(chart ChartID, d time.Duration) {
	if m != nil {
		m.recompute.WithLabelValues(string(chart)).Observe(d.Seconds())
	}
}
