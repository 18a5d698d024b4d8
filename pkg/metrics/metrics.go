// Package metrics определяет prometheus-метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	DBPoolOpenConnections prometheus.Gauge
	DBPoolInUse           prometheus.Gauge
	DBPoolIdle            prometheus.Gauge

	ReservationDecisionsTotal *prometheus.CounterVec
	CascadeTransitionsTotal   *prometheus.CounterVec
	AdvisorRequestsTotal      *prometheus.CounterVec
}

// New создает и регистрирует метрики в дефолтном registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		DBPoolOpenConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}),

		DBPoolInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),

		DBPoolIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}),

		ReservationDecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_decisions_total",
			Help:        "Reservation decisions by outcome (auto_approved, pending, denied)",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		CascadeTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "maintenance_cascade_transitions_total",
			Help:        "Reservation transitions performed by the maintenance cascade",
			ConstLabels: constLabels,
		}, []string{"transition"}),

		AdvisorRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "risk_advisor_requests_total",
			Help:        "Risk advisor calls by result (ok, unavailable)",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}
}

// Nil-safe инкременты бизнес-метрик: при выключенных метриках вызывающие
// передают nil, вызовы становятся no-op.

// IncReservationDecision учитывает решение по заявке
func (m *Metrics) IncReservationDecision(outcome string) {
	if m == nil {
		return
	}
	m.ReservationDecisionsTotal.WithLabelValues(outcome).Inc()
}

// AddCascadeTransitions учитывает переходы, выполненные каскадом
func (m *Metrics) AddCascadeTransitions(transition string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CascadeTransitionsTotal.WithLabelValues(transition).Add(float64(n))
}

// IncAdvisorRequest учитывает вызов модели-советника
func (m *Metrics) IncAdvisorRequest(result string) {
	if m == nil {
		return
	}
	m.AdvisorRequestsTotal.WithLabelValues(result).Inc()
}
