package segstore

import (
	"fmt"
	"time"

	storagelog "github.com/nspcc-dev/segstore/pkg/local_object_storage/internal/log"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"go.uber.org/zap"
)

// CompactRes groups the resulting values of Compact operation.
type CompactRes struct {
	moved     int
	reclaimed uint64
}

// Moved returns number of objects relocated by compaction.
func (r CompactRes) Moved() int {
	return r.moved
}

// Reclaimed returns number of bytes the container was shrunk by.
func (r CompactRes) Reclaimed() uint64 {
	return r.reclaimed
}

// Compact defragments the container: contiguous holes are merged, objects
// are moved leftwards into holes until no more moves are possible and the
// trailing hole is cut off from the container. Object contents and
// allocation orders are never changed.
//
// Compact blocks all other operations for its duration. Returns ErrReadOnly
// in read-only mode.
func (s *Store) Compact() (CompactRes, error) {
	var res CompactRes

	if s.readOnly {
		return res, ErrReadOnly
	}

	s.compactMtx.Lock()
	defer s.compactMtx.Unlock()

	startedAt := time.Now()
	tailBefore := s.tail.Load()

	s.log.Info("compaction started",
		zap.Int("holes", s.free.Len()),
		zap.Uint64("free bytes", s.free.Size()))

	defer func() {
		d := time.Since(startedAt)
		s.metrics.AddCompaction(res.moved, res.reclaimed, d)
		s.reportState()

		s.log.Info("compaction finished",
			zap.Int("moved", res.moved),
			zap.Uint64("reclaimed", res.reclaimed),
			zap.Int("holes", s.free.Len()),
			zap.Duration("duration", d))
	}()

	for {
		s.free.Merge()

		moved, err := s.fillHoles()
		res.moved += moved
		if err != nil {
			return res, err
		}
		if moved == 0 {
			break
		}
	}

	err := s.truncateTail()
	res.reclaimed = tailBefore - s.tail.Load()

	return res, err
}

// fillHoles makes single pass over holes in allocation order moving the
// first suitable object into every hole. Object is suitable if it lies at or
// after the hole and either fits into it or immediately follows it. In the
// latter case object slides left by the hole size.
//
// Holes appearing during the pass are tracked but not filled until the next
// pass. Returns number of moved objects.
func (s *Store) fillHoles() (int, error) {
	var (
		holes = s.free.Drain()
		live  = s.index.Live()
		moved int
		next  []segment.Record
	)

	defer func() {
		for i := range next {
			s.free.Push(next[i])
		}
	}()

	for i, h := range holes {
		j := moveCandidate(live, h)
		if j < 0 {
			next = append(next, h)
			continue
		}

		x := live[j]
		size := x.Size()

		data, err := s.container.ReadAt(x.From, size)
		if err == nil {
			err = s.container.WriteAt(data, h.From)
		}
		if err != nil {
			next = append(next, holes[i:]...)
			return moved, fmt.Errorf("%w: move %s: %w", ErrIOFailure, x.Path, err)
		}

		newTo := h.From + size
		s.index.Relocate(x, h.From, newTo)
		live[j].From, live[j].To = h.From, newTo
		moved++

		if size <= h.Size() {
			next = append(next,
				segment.Record{From: newTo, To: h.To, Order: h.Order},
				x.Hole())
		} else {
			next = append(next, segment.Record{From: newTo, To: x.To, Order: h.Order})
		}

		storagelog.Write(s.log,
			storagelog.PathField(x.Path),
			storagelog.OpField("move"),
			storagelog.StorageTypeField(storageType),
			storagelog.RangeField(h.From, newTo))

		vacated := max(x.From, newTo)
		err = s.container.ZeroFill(vacated, x.To-vacated)
		if err != nil {
			next = append(next, holes[i+1:]...)
			return moved, fmt.Errorf("%w: zero-fill vacated range of %s: %w", ErrIOFailure, x.Path, err)
		}
	}

	return moved, nil
}

// moveCandidate returns index of the first object in live that may be moved
// into hole h, or -1 if there is no such object.
func moveCandidate(live []segment.Record, h segment.Record) int {
	for i := range live {
		if live[i].From < h.To {
			continue
		}
		if live[i].Size() <= h.Size() || live[i].From == h.To {
			return i
		}
	}
	return -1
}

// truncateTail cuts the last hole off the container if it reaches the
// allocation tail.
func (s *Store) truncateTail() error {
	last, ok := s.free.Last()
	if !ok || last.To != s.tail.Load() {
		return nil
	}

	err := s.container.Truncate(last.From)
	if err != nil {
		return fmt.Errorf("%w: truncate container: %w", ErrIOFailure, err)
	}

	s.free.Remove(last)
	s.tail.Store(last.From)

	return nil
}
