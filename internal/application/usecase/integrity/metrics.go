// Package integrity contains referential-integrity use cases.
package integrity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics
var (
	referenceChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consistency_reference_checks_total",
		Help: "Reference existence checks by cache outcome",
	}, []string{"outcome"})

	cascadeBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consistency_cascade_batches_total",
		Help: "Cascading delete batches by result",
	}, []string{"result"})
)
