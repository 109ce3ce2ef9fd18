package service

import "github.com/prometheus/client_golang/prometheus"

var (
	ordersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total number of successfully placed orders",
		},
	)

	snapshotCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "analytics",
			Name:      "snapshot_cache_hits_total",
			Help:      "Total number of analytics snapshots served from cache",
		},
	)

	snapshotCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "analytics",
			Name:      "snapshot_cache_misses_total",
			Help:      "Total number of analytics snapshots computed from orders",
		},
	)
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		ordersPlaced,
		snapshotCacheHits,
		snapshotCacheMisses,
	)
}
