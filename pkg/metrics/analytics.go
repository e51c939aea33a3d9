package metrics

import "github.com/prometheus/client_golang/prometheus"

// AnalyticsMetrics counts tracked events per category.
type AnalyticsMetrics struct {
	events *prometheus.CounterVec
}

func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	if reg == nil {
		return &AnalyticsMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_events_total",
		Help:      "Analytics events accepted for storage.",
	}, []string{"category"})
	reg.MustRegister(events)
	return &AnalyticsMetrics{events: events}
}

func (m *AnalyticsMetrics) EventTracked(category string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(category)).Inc()
}
