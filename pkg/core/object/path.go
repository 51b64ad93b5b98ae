package object

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Separator separates elements of an object path.
const Separator = "/"

// ErrInvalidPath is returned for paths that can not address an object.
var ErrInvalidPath = errors.New("invalid object path")

// NormalizePath canonicalizes absolute object path: it is lower-cased,
// cleaned from duplicated separators and dot elements. Root and relative
// paths are rejected with ErrInvalidPath.
//
// Two paths address the same object iff their canonical forms are equal, so
// the whole canonical path is the object identity, not just its file name.
func NormalizePath(p string) (string, error) {
	if !strings.HasPrefix(p, Separator) {
		return "", fmt.Errorf("%w: %q is not absolute", ErrInvalidPath, p)
	}

	res := path.Clean(strings.ToLower(p))
	if res == Separator {
		return "", fmt.Errorf("%w: %q has no file name", ErrInvalidPath, p)
	}

	return res, nil
}

// FileName returns the last element of the path.
func FileName(p string) string {
	if i := strings.LastIndex(p, Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Depth returns number of directories between the root and the file, e.g.
// "/file" has depth 0 and "/a/b/file" has depth 2.
func Depth(p string) int {
	return strings.Count(strings.Trim(p, Separator), Separator)
}
