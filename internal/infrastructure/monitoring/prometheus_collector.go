package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	// Realtime
	sessionsActive  prometheus.Gauge
	roomsActive     prometheus.Gauge
	eventsPublished *prometheus.CounterVec

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		sessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "taskdeck_sessions_active",
			Help: "Number of open websocket sessions",
		}),

		roomsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "taskdeck_rooms_active",
			Help: "Number of rooms with at least one subscriber",
		}),

		eventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskdeck_events_published_total",
			Help: "Total number of realtime events published",
		}, []string{"event"}),

		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskdeck_http_requests_total",
			Help: "Total number of HTTP requests handled",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskdeck_http_request_duration_seconds",
			Help:    "HTTP request handling duration",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "route"}),
	}
}

func (p *PrometheusCollector) SessionOpened() {
	p.sessionsActive.Inc()
}

func (p *PrometheusCollector) SessionClosed() {
	p.sessionsActive.Dec()
}

func (p *PrometheusCollector) RoomCount(n int) {
	p.roomsActive.Set(float64(n))
}

func (p *PrometheusCollector) EventPublished(event string) {
	p.eventsPublished.WithLabelValues(event).Inc()
}

func (p *PrometheusCollector) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	p.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	p.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
