// Package metrics expone métricas Prometheus de HTTP y del agregado de pagos.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codefactory-g12/petmanager-api/internal/application/payment"
)

var _ payment.Recorder = (*Metrics)(nil)

// Metrics agrupa los colectores sobre un registry propio (no el global).
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	paymentsCreated prometheus.Counter
	paymentLines    prometheus.Histogram
	productResolved *prometheus.CounterVec
}

// New registra los colectores. namespace prefija todos los nombres (ej. "petmanager").
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "route", "status"}),
		paymentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_created_total",
			Help:      "Pagos a proveedores registrados.",
		}),
		paymentLines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_lines",
			Help:      "Líneas de producto por pago.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		productResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_resolutions_total",
			Help:      "Resoluciones de producto por resultado.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.paymentsCreated, m.paymentLines, m.productResolved,
	)
	return m
}

// RecordRequest registra una petición HTTP. route es el patrón (/api/payments/:id), no la URL.
func (m *Metrics) RecordRequest(method, route string, statusCode int, d time.Duration) {
	status := strconv.Itoa(statusCode)
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// PaymentCreated implementa payment.Recorder.
func (m *Metrics) PaymentCreated(lines int) {
	m.paymentsCreated.Inc()
	m.paymentLines.Observe(float64(lines))
}

// ProductResolved implementa payment.Recorder.
func (m *Metrics) ProductResolved(outcome string) {
	m.productResolved.WithLabelValues(outcome).Inc()
}

// Handler exporta el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry para tests y colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
