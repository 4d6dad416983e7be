package businessflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Duration of stats computations partitioned by operation and outcome
	statsComputationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stats_computation_duration_seconds",
			Help:    "Time spent loading rows and aggregating campaign statistics",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "outcome"},
	)

	// Number of distinct campaigns named by a single request
	statsCampaignsRequested = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stats_campaigns_requested",
			Help:    "Distinct campaign ids per stats or comparison request",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		},
		[]string{"operation"},
	)
)

const (
	operationComputeStats = "compute_stats"
	operationCompare      = "compare_campaigns"
	operationExport       = "export_comparison"
)

func observeStatsComputation(operation string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsValidationError(err):
		outcome = "invalid"
	case IsCampaignNotFound(err):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	statsComputationDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

func observeCampaignsRequested(operation string, n int) {
	statsCampaignsRequested.WithLabelValues(operation).Observe(float64(n))
}
