// Package metrics holds the optional Prometheus instrumentation for
// ResolverGroup, following the counters sudo-tiz/dns-tester-go's
// internal/resolver package registers (metrics.DNSLookupErrors,
// metrics.RecordQueryMetrics) via github.com/prometheus/client_golang.
//
// A nil *Recorder is safe to call and records nothing, so instrumentation
// is strictly opt-in, mirroring the teacher's nil-checked Resolver.logFunc
// field. A non-nil Recorder must come from New: a zero-value Recorder has
// no collectors and its methods panic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records ResolverGroup fan-out activity into a set of Prometheus
// collectors. Use New to register them with a prometheus.Registerer, or
// leave a *Recorder nil to disable instrumentation entirely.
type Recorder struct {
	queriesTotal  *prometheus.CounterVec
	timeoutsTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	responseTimes *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors with reg. Pass a
// fresh prometheus.NewRegistry() in tests to avoid colliding with any
// process-wide default registry.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mhost",
			Name:      "queries_total",
			Help:      "DNS queries issued by record type.",
		}, []string{"record_type"}),
		timeoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mhost",
			Name:      "timeouts_total",
			Help:      "DNS queries that timed out, by record type.",
		}, []string{"record_type"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mhost",
			Name:      "errors_total",
			Help:      "DNS queries that returned a server error, by record type and RCODE.",
		}, []string{"record_type", "rcode"}),
		responseTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mhost",
			Name:      "response_time_seconds",
			Help:      "DNS response time by record type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"record_type"}),
	}

	reg.MustRegister(r.queriesTotal, r.timeoutsTotal, r.errorsTotal, r.responseTimes)

	return r
}

// Query records that a query of recordType was issued.
func (r *Recorder) Query(recordType string) {
	if r == nil {
		return
	}
	r.queriesTotal.WithLabelValues(recordType).Inc()
}

// Timeout records a timed-out query.
func (r *Recorder) Timeout(recordType string) {
	if r == nil {
		return
	}
	r.timeoutsTotal.WithLabelValues(recordType).Inc()
}

// Error records a server-error response.
func (r *Recorder) Error(recordType, rcode string) {
	if r == nil {
		return
	}
	r.errorsTotal.WithLabelValues(recordType, rcode).Inc()
}

// ResponseTime records a successful query's round-trip time.
func (r *Recorder) ResponseTime(recordType string, d time.Duration) {
	if r == nil {
		return
	}
	r.responseTimes.WithLabelValues(recordType).Observe(d.Seconds())
}
