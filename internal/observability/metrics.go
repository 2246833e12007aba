// Package observability holds the Prometheus instruments of the dispatch
// service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dispatch"

// Assignment outcomes.
const (
	OutcomeAssigned    = "assigned"
	OutcomeRescheduled = "rescheduled"
	OutcomeConflict    = "conflict"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	assignments    *prometheus.CounterVec
	assignLatency  prometheus.Histogram
	transitions    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	maintenanceDue prometheus.Gauge
	delayedEntries prometheus.Counter
	jobDuration    *prometheus.HistogramVec
	jobRuns        *prometheus.CounterVec
}

// NewMetrics registers the instruments on reg. A nil reg yields a Metrics
// that records nothing.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	f := promauto.With(reg)

	return &Metrics{
		assignments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_total",
			Help:      "Assignment attempts by outcome.",
		}, []string{"outcome"}),
		assignLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assignment_duration_seconds",
			Help:      "Time spent in the assignment critical section.",
			Buckets:   prometheus.DefBuckets,
		}),
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Applied order status transitions by target status.",
		}, []string{"to"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		maintenanceDue: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vehicles_maintenance_due",
			Help:      "Active vehicles whose next maintenance date has passed.",
		}),
		delayedEntries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_entries_delayed_total",
			Help:      "Planned entries marked delayed by the sweep.",
		}),
		jobDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of background jobs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		jobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by result.",
		}, []string{"job", "result"}),
	}
}

func (m *Metrics) ObserveAssignment(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.assignments.WithLabelValues(outcome).Inc()
	m.assignLatency.Observe(took.Seconds())
}

func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, took time.Duration) {
	if m == nil {
		return
	}
	code := statusLabel(status)
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.httpDuration.WithLabelValues(method, path, code).Observe(took.Seconds())
}

func (m *Metrics) SetMaintenanceDue(n int) {
	if m == nil {
		return
	}
	m.maintenanceDue.Set(float64(n))
}

func (m *Metrics) AddDelayedEntries(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.delayedEntries.Add(float64(n))
}

// ObserveJob records one run of a background job.
func (m *Metrics) ObserveJob(job string, took time.Duration, err error) {
	if m == nil {
		return
	}
	if job == "" {
		job = "unknown"
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.jobDuration.WithLabelValues(job).Observe(took.Seconds())
	m.jobRuns.WithLabelValues(job, result).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	}
	return "1xx"
}
