package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// completionsTotal counts completion attempts by outcome
	// (success, duplicate, locked, ineligible, error).
	completionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_completions_total",
			Help: "Total task completion attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// claimsProcessedTotal counts faucet claims leaving pending, by result.
	claimsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faucet_claims_processed_total",
			Help: "Total faucet claims processed by result (confirmed, failed).",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(completionsTotal, claimsProcessedTotal)
}
