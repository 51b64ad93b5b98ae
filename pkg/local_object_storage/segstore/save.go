package segstore

import (
	"fmt"
	"time"

	"github.com/nspcc-dev/segstore/pkg/core/object"
	storagelog "github.com/nspcc-dev/segstore/pkg/local_object_storage/internal/log"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
)

// Save stores the object under the given path. Nil content means an object
// without content. Existing object is replaced: its range becomes a hole and
// the new record is appended to the container tail.
//
// Returns ErrInvalidPath if the path can not address an object,
// ErrObjectTooLarge if serialized object exceeds the limit and ErrReadOnly
// in read-only mode. Nothing becomes visible if the container write fails.
func (s *Store) Save(path string, content []byte) error {
	startedAt := time.Now()
	defer func() {
		s.metrics.AddMethodDuration("Save", time.Since(startedAt))
	}()

	p, err := object.NormalizePath(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	if s.readOnly {
		return ErrReadOnly
	}

	data := object.New(p, content).Marshal()
	if s.compression.NeedsCompression(p) {
		data = s.compression.Compress(data)
	}

	size := uint64(len(data))
	if s.maxObjectSize > 0 && size > s.maxObjectSize {
		return fmt.Errorf("%w: %d > %d", ErrObjectTooLarge, size, s.maxObjectSize)
	}

	s.compactMtx.RLock()
	defer s.compactMtx.RUnlock()

	rec := segment.Record{
		Name:  object.FileName(p),
		Path:  p,
		To:    s.tail.Add(size),
		Order: s.order.Inc() - 1,
	}
	rec.From = rec.To - size

	err = s.container.WriteAt(data, rec.From)
	if err != nil {
		s.free.Push(rec)
		return fmt.Errorf("%w: write record: %w", ErrIOFailure, err)
	}

	prev, ok := s.index.Upsert(rec)
	if ok {
		s.free.Push(prev)
	}

	storagelog.Write(s.log,
		storagelog.PathField(p),
		storagelog.OpField("save"),
		storagelog.StorageTypeField(storageType),
		storagelog.RangeField(rec.From, rec.To))

	s.reportState()

	return nil
}
