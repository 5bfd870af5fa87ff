package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics bundles the collectors exported on /api/debug/metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	vendorsRegistered prometheus.Counter
	logins            *prometheus.CounterVec
	firmsCreated      prometheus.Counter
	firmsDeleted      prometheus.Counter
	imageBytes        prometheus.Counter
}

func New(namespace string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		vendorsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vendors_registered_total",
			Help:      "Number of vendors registered.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		firmsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "firms_created_total",
			Help:      "Number of firms created.",
		}),
		firmsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "firms_deleted_total",
			Help:      "Number of firms deleted.",
		}),
		imageBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_upload_bytes_total",
			Help:      "Bytes of firm images accepted for storage.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.vendorsRegistered,
		m.logins,
		m.firmsCreated,
		m.firmsDeleted,
		m.imageBytes,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) VendorRegistered() {
	if m != nil {
		m.vendorsRegistered.Inc()
	}
}

// Login records a login attempt; ok=false counts a rejected credential.
func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) FirmCreated() {
	if m != nil {
		m.firmsCreated.Inc()
	}
}

func (m *Metrics) FirmDeleted() {
	if m != nil {
		m.firmsDeleted.Inc()
	}
}

func (m *Metrics) ImageStored(n int64) {
	if m != nil && n > 0 {
		m.imageBytes.Add(float64(n))
	}
}
