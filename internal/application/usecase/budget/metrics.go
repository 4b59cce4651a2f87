// Package budget contains the budget-ledger consistency engine.
package budget

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics
var (
	spendUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consistency_spend_updates_total",
		Help: "Category spend updates by outcome",
	}, []string{"outcome"})

	versionConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consistency_spend_version_conflicts_total",
		Help: "Optimistic concurrency conflicts observed while updating spend",
	})

	alertsRaisedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consistency_budget_alerts_total",
		Help: "Budget alerts raised by type",
	}, []string{"type"})

	recalculationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consistency_budget_recalculations_total",
		Help: "Full budget reconciliations run",
	})
)
