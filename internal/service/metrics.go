package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LedgerAppends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_appends_total",
			Help: "Ledger entries appended, by reason and outcome",
		},
		[]string{"reason", "outcome"},
	)
	PurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_purchases_total",
			Help: "Purchase attempts by outcome",
		},
		[]string{"outcome"},
	)
	EventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_events_total",
			Help: "Progress events processed, by kind",
		},
		[]string{"kind"},
	)
	RewardsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_granted_total",
			Help: "Reward credits written by the progress engine, by kind",
		},
		[]string{"kind"},
	)
	InvariantViolations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_invariant_violations_total",
			Help: "Guarded wallet updates that failed after the in-lock check passed",
		},
	)
)

func init() {
	prometheus.MustRegister(LedgerAppends)
	prometheus.MustRegister(PurchasesTotal)
	prometheus.MustRegister(EventsProcessed)
	prometheus.MustRegister(RewardsGranted)
	prometheus.MustRegister(InvariantViolations)
}
