package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	storeSubsystem = "store"
	methodLabelKey = "method"
)

type storeMetrics struct {
	methodDuration *prometheus.HistogramVec

	containerSize prometheus.Gauge
	freeSegments  prometheus.Gauge
	liveSegments  prometheus.Gauge
}

func newStoreMetrics() storeMetrics {
	return storeMetrics{
		methodDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: storeSubsystem,
			Name:      "method_duration_seconds",
			Help:      "Segment store operations handling time",
		}, []string{methodLabelKey}),
		containerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: storeSubsystem,
			Name:      "container_size_bytes",
			Help:      "Size of the container",
		}),
		freeSegments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: storeSubsystem,
			Name:      "free_segments",
			Help:      "Number of holes waiting for compaction",
		}),
		liveSegments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: storeSubsystem,
			Name:      "live_segments",
			Help:      "Number of stored objects",
		}),
	}
}

func (m storeMetrics) register(reg prometheus.Registerer) {
	reg.MustRegister(m.methodDuration)
	reg.MustRegister(m.containerSize)
	reg.MustRegister(m.freeSegments)
	reg.MustRegister(m.liveSegments)
}

func (m storeMetrics) AddMethodDuration(method string, d time.Duration) {
	m.methodDuration.With(prometheus.Labels{methodLabelKey: method}).Observe(d.Seconds())
}

func (m storeMetrics) SetContainerSize(size uint64) {
	m.containerSize.Set(float64(size))
}

func (m storeMetrics) SetFreeSegments(n int) {
	m.freeSegments.Set(float64(n))
}

func (m storeMetrics) SetLiveSegments(n int) {
	m.liveSegments.Set(float64(n))
}
