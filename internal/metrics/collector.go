// Package metrics exposes prometheus instrumentation for the recognition client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records request and job metrics. A nil *Collector is a no-op.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	jobPollsTotal *prometheus.CounterVec
	jobsTotal     *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec

	tokenRefreshes prometheus.Counter
}

// NewCollector registers the client metrics on reg under namespace.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of recognition API calls",
			},
			[]string{"endpoint", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Recognition API call duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		jobPollsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_polls_total",
				Help:      "Total number of async job polls by observed state",
			},
			[]string{"family", "state"},
		),
		jobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_total",
				Help:      "Total number of async jobs by terminal state",
			},
			[]string{"family", "state"},
		),
		jobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Time spent waiting for async jobs to reach a terminal state",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
			[]string{"family"},
		),
		tokenRefreshes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_refreshes_total",
				Help:      "Total number of access token fetches",
			},
		),
	}
}

// RecordRequest records one API call.
func (c *Collector) RecordRequest(endpoint, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	c.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordPoll records one poll attempt and the state it observed.
func (c *Collector) RecordPoll(family, state string) {
	if c == nil {
		return
	}
	c.jobPollsTotal.WithLabelValues(family, state).Inc()
}

// RecordJob records a job reaching a terminal state.
func (c *Collector) RecordJob(family, state string, duration time.Duration) {
	if c == nil {
		return
	}
	c.jobsTotal.WithLabelValues(family, state).Inc()
	c.jobDuration.WithLabelValues(family).Observe(duration.Seconds())
}

// RecordTokenRefresh counts one access token fetch.
func (c *Collector) RecordTokenRefresh() {
	if c == nil {
		return
	}
	c.tokenRefreshes.Inc()
}
