package segstore

import (
	"errors"

	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
)

// ErrInterruptIterator may be returned by the handler passed to Iterate to
// stop iteration without an error.
var ErrInterruptIterator = errors.New("iteration interrupted")

// Iterate passes records of all stored objects to the handler in
// allocation order. Any handler error except ErrInterruptIterator stops
// iteration and is returned.
func (s *Store) Iterate(handler func(segment.Record) error) error {
	s.compactMtx.RLock()
	live := s.index.Live()
	s.compactMtx.RUnlock()

	for _, rec := range live {
		err := handler(rec)
		if err != nil {
			if errors.Is(err, ErrInterruptIterator) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Holes returns currently tracked holes in allocation order.
func (s *Store) Holes() []segment.Record {
	s.compactMtx.RLock()
	defer s.compactMtx.RUnlock()

	return s.free.Holes()
}
