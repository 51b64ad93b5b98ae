package segstore

import (
	"fmt"
	"time"

	"github.com/nspcc-dev/segstore/pkg/core/object"
	storagelog "github.com/nspcc-dev/segstore/pkg/local_object_storage/internal/log"
)

// Delete removes the object stored under the given path. Object range is
// zero-filled and becomes a hole.
//
// Returns ErrNotFound if there is no such object and ErrReadOnly in
// read-only mode. Object stays available if the container fails.
func (s *Store) Delete(path string) error {
	startedAt := time.Now()
	defer func() {
		s.metrics.AddMethodDuration("Delete", time.Since(startedAt))
	}()

	p, err := object.NormalizePath(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	if s.readOnly {
		return ErrReadOnly
	}

	s.compactMtx.RLock()
	defer s.compactMtx.RUnlock()

	rec, ok := s.index.Remove(p)
	if !ok {
		return ErrNotFound
	}

	if s.cache != nil {
		s.cache.Remove(p)
	}

	err = s.container.ZeroFill(rec.From, rec.Size())
	if err != nil {
		if !s.index.Restore(rec) {
			// path was saved again meanwhile
			s.free.Push(rec)
		}
		return fmt.Errorf("%w: zero-fill record: %w", ErrIOFailure, err)
	}

	s.free.Push(rec)

	storagelog.Write(s.log,
		storagelog.PathField(p),
		storagelog.OpField("delete"),
		storagelog.StorageTypeField(storageType),
		storagelog.RangeField(rec.From, rec.To))

	s.reportState()

	return nil
}
