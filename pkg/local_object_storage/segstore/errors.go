package segstore

import (
	"errors"

	"github.com/nspcc-dev/segstore/pkg/local_object_storage/util/logicerr"
)

var (
	// ErrNotFound is returned when requested path has no object. It is also
	// returned when the object range holds zero-filled bytes, i.e. the object
	// was deleted concurrently.
	ErrNotFound = logicerr.New("object not found")

	// ErrCorrupted is returned when non-zero bytes of the object range can
	// not be decoded into an object record.
	ErrCorrupted = logicerr.New("object record is corrupted")

	// ErrInvalidPath is returned for paths that can not address an object.
	ErrInvalidPath = logicerr.New("invalid path")

	// ErrReadOnly is returned for modifying operations on the Store opened
	// in read-only mode.
	ErrReadOnly = logicerr.New("segment store is in read-only mode")

	// ErrObjectTooLarge is returned when serialized object exceeds the limit.
	ErrObjectTooLarge = logicerr.New("object is too large")

	// ErrIOFailure is returned when the container fails for any reason other
	// than an out-of-bounds read. Such errors are not recoverable by the Store.
	ErrIOFailure = errors.New("container I/O failure")
)
