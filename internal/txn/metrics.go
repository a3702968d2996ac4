/*
Metrics for the transaction orchestrator, grounded on
other_examples/punchamoorthee-ledgerops (internal/service/transfer.go),
which instruments postings by type, latency, and failures by error kind
with prometheus/client_golang.
*/
package txn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/warp/core-ledger/internal/bankerr"
)

var (
	postingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "core_ledger_postings_total",
		Help: "Business transactions processed, by type and outcome.",
	}, []string{"type", "outcome"})

	postingFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "core_ledger_posting_failures_total",
		Help: "Business transaction failures, by type and error kind.",
	}, []string{"type", "kind"})

	postingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "core_ledger_posting_duration_seconds",
		Help:    "Time to process a business transaction end to end.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
)

func observeOutcome(txnType Type, err error, elapsedSeconds float64) {
	postingDuration.WithLabelValues(string(txnType)).Observe(elapsedSeconds)
	if err == nil {
		postingsTotal.WithLabelValues(string(txnType), "success").Inc()
		return
	}
	postingsTotal.WithLabelValues(string(txnType), "failure").Inc()
	kind := "UNKNOWN"
	if bErr, ok := err.(*bankerr.Error); ok {
		kind = string(bErr.Kind)
	}
	postingFailuresTotal.WithLabelValues(string(txnType), kind).Inc()
}
