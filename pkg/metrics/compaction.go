package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const compactionSubsystem = "compaction"

type compactionMetrics struct {
	moved     prometheus.Counter
	reclaimed prometheus.Counter
	duration  prometheus.Histogram
}

func newCompactionMetrics() compactionMetrics {
	return compactionMetrics{
		moved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: compactionSubsystem,
			Name:      "moved_total",
			Help:      "Number of objects relocated by compaction",
		}),
		reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: compactionSubsystem,
			Name:      "reclaimed_bytes_total",
			Help:      "Number of bytes cut off the container by compaction",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: compactionSubsystem,
			Name:      "time",
			Help:      "Compaction handling time",
		}),
	}
}

func (m compactionMetrics) register(reg prometheus.Registerer) {
	reg.MustRegister(m.moved)
	reg.MustRegister(m.reclaimed)
	reg.MustRegister(m.duration)
}

func (m compactionMetrics) AddCompaction(moved int, reclaimed uint64, d time.Duration) {
	m.moved.Add(float64(moved))
	m.reclaimed.Add(float64(reclaimed))
	m.duration.Observe(d.Seconds())
}
