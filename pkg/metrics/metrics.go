// Package metrics provides Prometheus collectors of the segment store.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "segstore"

// SegStoreMetrics implements segstore.MetricsWriter on top of Prometheus
// collectors.
type SegStoreMetrics struct {
	storeMetrics
	compactionMetrics
}

// NewSegStoreMetrics creates and registers segment store collectors along
// with the application version gauge.
func NewSegStoreMetrics(reg prometheus.Registerer, version string) *SegStoreMetrics {
	store := newStoreMetrics()
	store.register(reg)

	compaction := newCompactionMetrics()
	compaction.register(reg)

	registerVersionMetric(reg, version)

	return &SegStoreMetrics{
		storeMetrics:      store,
		compactionMetrics: compaction,
	}
}
