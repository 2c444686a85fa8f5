package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for terms operations.
type Metrics struct {
	TermsCreated      prometheus.Counter
	Acceptances       *prometheus.CounterVec
	OperationFailures *prometheus.CounterVec
	AcceptLatency     prometheus.Histogram

	// Ledger metrics
	CASConflicts       prometheus.Counter
	CASExhausted       prometheus.Counter
	ClaimsPayloadBytes prometheus.Histogram
	AcksPerUser        prometheus.Histogram
}

// New registers terms collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TermsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tosgate_terms_created_total",
			Help: "Total number of terms documents created or overwritten",
		}),
		Acceptances: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tosgate_terms_acceptances_total",
			Help: "Total number of acceptTerms calls, labeled by outcome",
		}, []string{"outcome"}),
		OperationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tosgate_terms_operation_failures_total",
			Help: "Total number of failed terms operations, labeled by operation and error code",
		}, []string{"operation", "code"}),
		AcceptLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tosgate_terms_accept_latency_seconds",
			Help:    "Latency of acceptTerms in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		CASConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "tosgate_ledger_cas_conflicts_total",
			Help: "Total number of claims compare-and-swap conflicts that triggered a retry",
		}),
		CASExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tosgate_ledger_cas_exhausted_total",
			Help: "Total number of acknowledgement writes abandoned after exhausting retries",
		}),
		ClaimsPayloadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tosgate_ledger_claims_payload_bytes",
			Help:    "Encoded size of claims documents written by the ledger",
			Buckets: []float64{64, 128, 256, 512, 768, 1000, 2048, 4096},
		}),
		AcksPerUser: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tosgate_ledger_acknowledgements_per_user",
			Help:    "Distribution of acknowledgement counts per user after a write",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50},
		}),
	}
}

// Noop returns collectors registered nowhere, for callers that do not export metrics.
func Noop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) IncrementTermsCreated() {
	m.TermsCreated.Inc()
}

func (m *Metrics) IncrementAcceptance(outcome string) {
	m.Acceptances.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementFailure(operation, code string) {
	m.OperationFailures.WithLabelValues(operation, code).Inc()
}

func (m *Metrics) ObserveAcceptLatency(durationSeconds float64) {
	m.AcceptLatency.Observe(durationSeconds)
}

func (m *Metrics) IncrementCASConflict() {
	m.CASConflicts.Inc()
}

func (m *Metrics) IncrementCASExhausted() {
	m.CASExhausted.Inc()
}

func (m *Metrics) ObserveClaimsWrite(payloadBytes, acknowledgements int) {
	m.ClaimsPayloadBytes.Observe(float64(payloadBytes))
	m.AcksPerUser.Observe(float64(acknowledgements))
}
