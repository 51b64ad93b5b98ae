package segstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/segstore/pkg/core/object"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/container"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"go.uber.org/zap"
)

// Read returns the object stored under the given path.
//
// Returns ErrNotFound if there is no such object, ErrCorrupted if stored
// bytes are not a valid record and ErrInvalidPath if the path can not
// address an object.
func (s *Store) Read(path string) (*object.Object, error) {
	startedAt := time.Now()
	defer func() {
		s.metrics.AddMethodDuration("Read", time.Since(startedAt))
	}()

	p, err := object.NormalizePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	s.compactMtx.RLock()
	defer s.compactMtx.RUnlock()

	rec, ok := s.index.Find(p)
	if !ok {
		return nil, ErrNotFound
	}

	if s.cache != nil {
		if c, ok := s.cache.Get(p); ok && c.order == rec.Order {
			return c.obj, nil
		}
	}

	obj, err := s.readRecord(rec)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Add(p, cachedObject{order: rec.Order, obj: obj})
	}

	return obj, nil
}

// readRecord reads and decodes object from the record range. Compaction
// lock must be held.
func (s *Store) readRecord(rec segment.Record) (*object.Object, error) {
	data, err := s.container.ReadAt(rec.From, rec.Size())
	if err != nil {
		if errors.Is(err, container.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: read record: %w", ErrIOFailure, err)
	}

	if object.IsZeroed(data) {
		s.log.Warn("object logically deleted, compaction needed",
			zap.String("path", rec.Path),
			zap.Uint64("from", rec.From),
			zap.Uint64("to", rec.To))
		return nil, ErrNotFound
	}

	data, err = s.compression.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrCorrupted, err)
	}

	var obj object.Object
	if err := obj.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	// range may be reused by another object after the record was looked up
	if obj.Path() != rec.Path {
		return nil, ErrNotFound
	}

	return &obj, nil
}
