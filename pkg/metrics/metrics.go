package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the harvester.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	DownloadsTotal  prometheus.Counter
	SkipsTotal      *prometheus.CounterVec
	RetriesTotal    prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metharvest_requests_total",
			Help: "Total HTTP requests issued, by pipeline phase.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "metharvest_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	downloads := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "metharvest_images_downloaded_total",
			Help: "Total number of images downloaded and saved.",
		},
	)
	skips := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metharvest_objects_skipped_total",
			Help: "Total number of objects skipped, by reason.",
		},
		[]string{"reason"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "metharvest_retries_total",
			Help: "Total number of image download retry attempts.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metharvest_errors_total",
			Help: "Total number of errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, downloads, skips, retries, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		DownloadsTotal:  downloads,
		SkipsTotal:      skips,
		RetriesTotal:    retries,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the requests counter for a phase.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncDownloads increments the downloaded-images counter.
func (m *Metrics) IncDownloads() {
	if m == nil {
		return
	}
	m.DownloadsTotal.Inc()
}

// IncSkip increments the skipped-objects counter for a reason label.
func (m *Metrics) IncSkip(reason string) {
	if m == nil {
		return
	}
	m.SkipsTotal.WithLabelValues(reason).Inc()
}

// IncRetries increments the retry counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// Snapshot flattens the current counter values into a map for a completion
// log line. Label values are appended to the metric name.
func (m *Metrics) Snapshot() map[string]interface{} {
	if m == nil {
		return nil
	}

	out := make(map[string]interface{})
	families, err := m.Registry.Gather()
	if err != nil {
		return out
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName()
			for _, label := range metric.GetLabel() {
				name += "_" + label.GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				out[name] = metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				out[name+"_count"] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

// IncError increments the error counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
