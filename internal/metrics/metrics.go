// Package metrics registers the pipeline's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsIngested counts cleaned report rows entering the pipeline.
	RowsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "salespulse",
		Name:      "rows_ingested_total",
		Help:      "Cleaned sales report rows ingested.",
	})

	// EntitiesClassified counts classifier verdicts by grouping and
	// resulting direction.
	EntitiesClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salespulse",
		Name:      "entities_classified_total",
		Help:      "Trend classifications produced, by grouping and direction.",
	}, []string{"grouping", "direction"})

	// DatasetBuildSeconds observes end-to-end dataset build times.
	DatasetBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "salespulse",
		Name:      "dataset_build_seconds",
		Help:      "Time to build the full dashboard dataset.",
		Buckets:   prometheus.DefBuckets,
	})
)
