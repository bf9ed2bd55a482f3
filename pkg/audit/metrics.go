package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kaudit_collect_duration_seconds",
		Help:    "Time taken to build one audit snapshot.",
		Buckets: prometheus.DefBuckets,
	})

	containersWithIssues = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kaudit_containers_with_issues",
		Help: "Containers with at least one resource issue in the latest snapshot.",
	})

	unparsedQuantities = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaudit_unparsed_quantities_total",
		Help: "Resource quantity strings that could not be parsed and defaulted to zero.",
	})
)
