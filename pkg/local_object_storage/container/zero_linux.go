//go:build linux

package container

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// punchHole deallocates the range keeping file size. Returns false if the
// file system doesn't support the operation.
func punchHole(f *os.File, off, n uint64) (bool, error) {
	err := unix.Fallocate(int(f.Fd()), unix.FALLOC_FL_PUNCH_HOLE|unix.FALLOC_FL_KEEP_SIZE, int64(off), int64(n))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOSYS) {
		return false, nil
	}

	return false, err
}
