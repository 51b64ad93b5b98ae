package container

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// FS is a Container kept in a single file of the local file system.
type FS struct {
	*cfg

	// mtx protects file descriptor replacement, I/O itself is positioned
	// and needs no locking.
	mtx      sync.RWMutex
	f        *os.File
	readOnly bool

	// noPunch is set after the file system reported that it does not
	// support punching holes.
	noPunch atomic.Bool
}

// TypeFS is the type of FS container.
const TypeFS = "file"

// Option is an option of FS constructor.
type Option func(*cfg)

type cfg struct {
	path   string
	perm   fs.FileMode
	noSync bool
	log    *zap.Logger
}

func defaultCfg() *cfg {
	return &cfg{
		perm: 0o640,
		log:  zap.L(),
	}
}

// NewFS creates new FS container. Open must be called before any I/O.
func NewFS(opts ...Option) *FS {
	c := defaultCfg()

	for i := range opts {
		opts[i](c)
	}

	return &FS{cfg: c}
}

// WithPath returns option to set container file path.
func WithPath(p string) Option {
	return func(c *cfg) {
		c.path = p
	}
}

// WithPerm returns option to set permission bits of the container file.
func WithPerm(perm fs.FileMode) Option {
	return func(c *cfg) {
		c.perm = perm
	}
}

// WithNoSync returns option to skip fsync after modifying operations.
func WithNoSync(noSync bool) Option {
	return func(c *cfg) {
		c.noSync = noSync
	}
}

// WithLogger returns option to specify container logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *cfg) {
		c.log = l.With(zap.String("component", "container"))
	}
}

// Type implements Container.
func (c *FS) Type() string {
	return TypeFS
}

// Path implements Container.
func (c *FS) Path() string {
	return c.path
}

// Open opens container file creating it (with all parent directories) if
// it doesn't exist. Read-only containers must exist.
func (c *FS) Open(readOnly bool) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	flags := os.O_RDONLY
	if !readOnly {
		flags = os.O_RDWR | os.O_CREATE

		err := os.MkdirAll(filepath.Dir(c.path), 0o750)
		if err != nil {
			return fmt.Errorf("create container directory: %w", err)
		}
	}

	c.log.Debug("opening container file",
		zap.String("path", c.path),
		zap.Bool("read-only", readOnly),
	)

	f, err := os.OpenFile(c.path, flags, c.perm)
	if err != nil {
		return fmt.Errorf("open container file: %w", err)
	}

	c.f = f
	c.readOnly = readOnly

	return nil
}

// Close closes container file.
func (c *FS) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.f == nil {
		return nil
	}

	err := c.f.Close()
	c.f = nil

	return err
}

func (c *FS) file(write bool) (*os.File, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	if c.f == nil {
		return nil, ErrNotOpened
	}
	if write && c.readOnly {
		return nil, ErrReadOnly
	}
	return c.f, nil
}

// WriteAt implements Container.
func (c *FS) WriteAt(data []byte, off uint64) error {
	f, err := c.file(true)
	if err != nil {
		return err
	}

	_, err = f.WriteAt(data, int64(off))
	if err != nil {
		return err
	}

	return c.sync(f)
}

// ReadAt implements Container.
func (c *FS) ReadAt(off, n uint64) ([]byte, error) {
	f, err := c.file(false)
	if err != nil {
		return nil, err
	}

	size, err := fileSize(f)
	if err != nil {
		return nil, err
	}

	if err := checkRead(off, n, size); err != nil {
		return nil, err
	}

	data := make([]byte, n)

	_, err = f.ReadAt(data, int64(off))
	if err != nil {
		if errors.Is(err, io.EOF) {
			// truncated concurrently
			return nil, ErrNotFound
		}
		return nil, err
	}

	return data, nil
}

// ZeroFill implements Container. Ranges fully inside the file are
// deallocated when the platform supports it, so they read as zeroes while
// consuming no disk space.
func (c *FS) ZeroFill(off, n uint64) error {
	f, err := c.file(true)
	if err != nil {
		return err
	}

	if n == 0 {
		return nil
	}

	size, err := fileSize(f)
	if err != nil {
		return err
	}

	if off+n <= size && !c.noPunch.Load() {
		punched, err := punchHole(f, off, n)
		if err != nil {
			return err
		}
		if punched {
			return c.sync(f)
		}

		c.log.Debug("punching holes is not supported, falling back to writing zeroes")
		c.noPunch.Store(true)
	}

	err = writeZeroes(f, off, n)
	if err != nil {
		return err
	}

	return c.sync(f)
}

// Size implements Container.
func (c *FS) Size() (uint64, error) {
	f, err := c.file(false)
	if err != nil {
		return 0, err
	}

	return fileSize(f)
}

// Truncate implements Container.
func (c *FS) Truncate(size uint64) error {
	f, err := c.file(true)
	if err != nil {
		return err
	}

	err = f.Truncate(int64(size))
	if err != nil {
		return err
	}

	return c.sync(f)
}

// Writable implements Container. Container is writable if it is opened in
// read-write mode and the file is still a writable regular file.
func (c *FS) Writable() bool {
	f, err := c.file(true)
	if err != nil {
		return false
	}

	st, err := f.Stat()
	if err != nil {
		return false
	}

	return st.Mode().IsRegular() && st.Mode().Perm()&0o200 != 0
}

func (c *FS) sync(f *os.File) error {
	if c.noSync {
		return nil
	}
	return f.Sync()
}

func fileSize(f *os.File) (uint64, error) {
	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(st.Size()), nil
}

const zeroChunkSize = 64 * 1024

func writeZeroes(f *os.File, off, n uint64) error {
	chunk := make([]byte, min(n, zeroChunkSize))

	for n > 0 {
		sz := min(n, uint64(len(chunk)))

		_, err := f.WriteAt(chunk[:sz], int64(off))
		if err != nil {
			return err
		}

		off += sz
		n -= sz
	}

	return nil
}
