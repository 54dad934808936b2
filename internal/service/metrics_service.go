package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry of the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	paymentsTotal   *prometheus.CounterVec
	paymentsAmount  *prometheus.CounterVec
	lifecycleJobs   *prometheus.CounterVec
	sessionsClosed  prometheus.Counter
	deactivated     prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	paymentsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecole_payments_total",
		Help: "Payments recorded by channel",
	}, []string{"channel"})

	paymentsAmount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecole_payments_amount_total",
		Help: "Sum of recorded payment amounts by channel",
	}, []string{"channel"})

	lifecycleJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecole_lifecycle_jobs_total",
		Help: "Session refresh jobs by outcome",
	}, []string{"outcome"})

	sessionsClosed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecole_sessions_status_changes_total",
		Help: "Session status transitions applied by the lifecycle job",
	})

	deactivated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecole_enrollments_deactivated_total",
		Help: "Enrollments marked inactive after their session ended",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		paymentsTotal, paymentsAmount, lifecycleJobs, sessionsClosed, deactivated, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		paymentsTotal:   paymentsTotal,
		paymentsAmount:  paymentsAmount,
		lifecycleJobs:   lifecycleJobs,
		sessionsClosed:  sessionsClosed,
		deactivated:     deactivated,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry is exposed for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup and updates the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordPayment counts an accepted payment.
func (m *MetricsService) RecordPayment(channel string, amount float64) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(channel).Inc()
	m.paymentsAmount.WithLabelValues(channel).Add(amount)
}

// RecordRefresh counts a processed session refresh job.
func (m *MetricsService) RecordRefresh(err error, statusChanged bool, deactivated int64) {
	if m == nil {
		return
	}
	if err != nil {
		m.lifecycleJobs.WithLabelValues("error").Inc()
		return
	}
	m.lifecycleJobs.WithLabelValues("ok").Inc()
	if statusChanged {
		m.sessionsClosed.Inc()
	}
	if deactivated > 0 {
		m.deactivated.Add(float64(deactivated))
	}
}
