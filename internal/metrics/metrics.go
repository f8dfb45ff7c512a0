package metrics

import (
	"net/http"
	"time"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smartmart"

var _ port.SyncRecorder = (*Recorder)(nil)

// Recorder owns the process metrics registry.
type Recorder struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	refreshTotal        *prometheus.CounterVec
	refreshProducts     prometheus.Gauge
	lastRefresh         prometheus.Gauge
	resetTotal          *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request durations.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint", "status"},
		),
		refreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_refresh_total",
				Help:      "Catalog refreshes by outcome and error kind.",
			},
			[]string{"result", "kind"},
		),
		refreshProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_refresh_products",
			Help:      "Products copied by the last successful refresh.",
		}),
		lastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
		resetTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_reset_total",
				Help:      "Full catalog resets by outcome.",
			},
			[]string{"result"},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequestsTotal,
		r.httpRequestDuration,
		r.refreshTotal,
		r.refreshProducts,
		r.lastRefresh,
		r.resetTotal,
	)
	return r
}

func (r *Recorder) RecordRequest(
	method, endpoint string, statusCode int, duration time.Duration,
) {
	status := classifyStatus(statusCode)
	r.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	r.httpRequestDuration.WithLabelValues(method, endpoint, status).
		Observe(duration.Seconds())
}

func (r *Recorder) RecordRefresh(nProducts int, err error) {
	if err != nil {
		r.refreshTotal.WithLabelValues("error", string(domain.KindOf(err))).Inc()
		return
	}
	r.refreshTotal.WithLabelValues("success", "").Inc()
	r.refreshProducts.Set(float64(nProducts))
	r.lastRefresh.SetToCurrentTime()
}

func (r *Recorder) RecordReset(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.resetTotal.WithLabelValues(result).Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}
