package segstore

import (
	"time"

	"go.uber.org/zap"
)

// MetricsWriter is an interface that must store Store metrics.
type MetricsWriter interface {
	// AddMethodDuration registers duration of the named Store method.
	AddMethodDuration(method string, d time.Duration)
	// SetContainerSize sets physical container size in bytes.
	SetContainerSize(size uint64)
	// SetFreeSegments sets number of tracked holes.
	SetFreeSegments(n int)
	// SetLiveSegments sets number of stored objects.
	SetLiveSegments(n int)
	// AddCompaction registers single compaction run.
	AddCompaction(moved int, reclaimed uint64, d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) AddMethodDuration(string, time.Duration)  {}
func (noopMetrics) SetContainerSize(uint64)                  {}
func (noopMetrics) SetFreeSegments(int)                      {}
func (noopMetrics) SetLiveSegments(int)                      {}
func (noopMetrics) AddCompaction(int, uint64, time.Duration) {}

// Metrics groups observable Store state.
type Metrics struct {
	// Writable is true if modifying operations may succeed.
	Writable bool
	// ContainerSize is the physical container size in bytes.
	ContainerSize uint64
	// FreeSegmentCount is the number of holes waiting for compaction.
	FreeSegmentCount int
	// LiveSegmentCount is the number of stored objects.
	LiveSegmentCount int
	// FreeBytes is the total size of the holes.
	FreeBytes uint64
}

// Metrics returns current Store state. Container failures are logged and
// reported as zero size.
func (s *Store) Metrics() Metrics {
	size, err := s.container.Size()
	if err != nil {
		s.log.Error("could not get container size", zap.Error(err))
	}

	return Metrics{
		Writable:         !s.readOnly && s.container.Writable(),
		ContainerSize:    size,
		FreeSegmentCount: s.free.Len(),
		LiveSegmentCount: s.index.Len(),
		FreeBytes:        s.free.Size(),
	}
}

func (s *Store) reportState() {
	size, err := s.container.Size()
	if err != nil {
		s.log.Error("could not get container size", zap.Error(err))
	} else {
		s.metrics.SetContainerSize(size)
	}

	s.metrics.SetFreeSegments(s.free.Len())
	s.metrics.SetLiveSegments(s.index.Len())
}
