package metrics

import "github.com/prometheus/client_golang/prometheus"

// CalendarMetrics exposes counters/histograms for calendar rendering
// and realtime delivery.
type CalendarMetrics struct {
	rendersTotal     *prometheus.CounterVec
	renderLatency    *prometheus.HistogramVec
	liveConnections  *prometheus.GaugeVec
	invitationsTotal *prometheus.CounterVec
	remindersTotal   *prometheus.CounterVec
}

func NewCalendarMetrics(reg prometheus.Registerer) *CalendarMetrics {
	m := &CalendarMetrics{
		rendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cliniccal",
			Subsystem: "calendar",
			Name:      "renders_total",
			Help:      "Total calendar view renders",
		}, []string{"mode", "scope"}),
		renderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cliniccal",
			Subsystem: "calendar",
			Name:      "render_latency_seconds",
			Help:      "Latency of calendar view rendering",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		liveConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cliniccal",
			Subsystem: "live",
			Name:      "connections",
			Help:      "Active calendar WebSocket connections",
		}, []string{"org_id"}),
		invitationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cliniccal",
			Subsystem: "invites",
			Name:      "sent_total",
			Help:      "Total invitation emails attempted",
		}, []string{"status"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cliniccal",
			Subsystem: "reminders",
			Name:      "delivered_total",
			Help:      "Total reminder deliveries attempted",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.rendersTotal, m.renderLatency, m.liveConnections,
		m.invitationsTotal, m.remindersTotal)
	return m
}

func (m *CalendarMetrics) ObserveRender(mode, scope string, seconds float64) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(mode, scope).Inc()
	m.renderLatency.WithLabelValues(mode).Observe(seconds)
}

func (m *CalendarMetrics) ConnectionOpened(orgID string) {
	if m == nil {
		return
	}
	m.liveConnections.WithLabelValues(orgID).Inc()
}

func (m *CalendarMetrics) ConnectionClosed(orgID string) {
	if m == nil {
		return
	}
	m.liveConnections.WithLabelValues(orgID).Dec()
}

func (m *CalendarMetrics) ObserveInvitation(status string) {
	if m == nil {
		return
	}
	m.invitationsTotal.WithLabelValues(status).Inc()
}

func (m *CalendarMetrics) ObserveReminder(status string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(status).Inc()
}
