package segstore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"go.uber.org/zap"
)

// Open opens the container and the index database if configured.
func (s *Store) Open(readOnly bool) error {
	s.readOnly = readOnly

	err := s.container.Open(readOnly)
	if err != nil {
		return fmt.Errorf("open container: %w", err)
	}

	if s.indexPath != "" {
		err = s.openIndexDB(readOnly)
		if err != nil {
			return errors.Join(err, s.container.Close())
		}
	}

	return nil
}

// Init prepares compression, the cache and restores the index. Without a
// persisted index, already existing container bytes are treated as a single
// hole which next compaction reclaims.
func (s *Store) Init() error {
	err := s.compression.Init()
	if err != nil {
		return fmt.Errorf("init compression: %w", err)
	}

	if s.cacheSize > 0 {
		s.cache, err = lru.New[string, cachedObject](s.cacheSize)
		if err != nil {
			return fmt.Errorf("init read cache: %w", err)
		}
	}

	size, err := s.container.Size()
	if err != nil {
		return fmt.Errorf("%w: get container size: %w", ErrIOFailure, err)
	}

	var restored bool
	if s.db != nil {
		restored, err = s.loadSnapshot(size)
		if err != nil {
			return fmt.Errorf("restore index: %w", err)
		}
	}

	if !restored {
		s.id = uuid.New()

		if size > 0 {
			s.log.Warn("container has no index, its content is treated as free space",
				zap.String("path", s.container.Path()),
				zap.Uint64("size", size))

			s.free.Push(segment.Record{From: 0, To: size})
			s.order.Store(1)
		}
		s.tail.Store(size)
	}

	s.log.Debug("segment store initialized",
		zap.Stringer("id", s.id),
		zap.Int("live", s.index.Len()),
		zap.Int("holes", s.free.Len()),
		zap.Uint64("tail", s.tail.Load()),
		zap.Bool("restored", restored))

	s.reportState()
	s.initialized = true

	return nil
}

// Close persists the index if configured and releases all resources. Index
// is not persisted if Init failed or was not called, so a broken start never
// overwrites a good index.
func (s *Store) Close() error {
	var errs []error

	if s.db != nil {
		if !s.readOnly && s.initialized {
			if err := s.saveSnapshot(); err != nil {
				errs = append(errs, fmt.Errorf("persist index: %w", err))
			}
		}
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close index database: %w", err))
		}
		s.db = nil
	}

	if err := s.compression.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close compression: %w", err))
	}

	if err := s.container.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close container: %w", err))
	}

	s.initialized = false

	return errors.Join(errs...)
}
