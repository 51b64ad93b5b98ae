// Package container provides flat byte-addressable storages used by the
// segment store to keep serialized objects. A container knows nothing about
// objects: all operations are positioned, offset bookkeeping belongs to the
// caller.
package container

import "errors"

var (
	// ErrNotFound is returned for reads that fall outside the container.
	ErrNotFound = errors.New("range is out of container bounds")

	// ErrReadOnly MUST be returned for modifying operations when the container
	// was opened in read-only mode.
	ErrReadOnly = errors.New("container is opened as read-only")

	// ErrNotOpened is returned by the operations on a container that has not
	// been opened yet or has already been closed.
	ErrNotOpened = errors.New("container is not opened")
)

// Container represents single contiguous byte region.
type Container interface {
	Open(readOnly bool) error
	Close() error

	Type() string
	Path() string

	// WriteAt writes data starting at the given offset, extending the
	// container if needed.
	WriteAt(data []byte, off uint64) error
	// ReadAt reads exactly n bytes starting at off. Returns ErrNotFound if
	// requested range exceeds the container size or if zero-length read
	// starts at or beyond the end.
	ReadAt(off, n uint64) ([]byte, error)
	// ZeroFill overwrites the range with zero bytes. Container never shrinks
	// because of ZeroFill.
	ZeroFill(off, n uint64) error
	// Size returns current physical size of the container.
	Size() (uint64, error)
	// Truncate shrinks the container to the given size.
	Truncate(size uint64) error
	// Writable checks whether modifying operations may succeed.
	Writable() bool
}

func checkRead(off, n, size uint64) error {
	end := off + n
	if end < off || end > size || (n == 0 && off >= size) {
		return ErrNotFound
	}
	return nil
}
