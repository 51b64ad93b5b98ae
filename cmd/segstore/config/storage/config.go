package storageconfig

import (
	"io/fs"

	"github.com/nspcc-dev/segstore/cmd/segstore/config"
)

const (
	subsection = "storage"

	// PermDefault is a default permission bits of the container file.
	PermDefault fs.FileMode = 0o640

	// IndexSuffix is appended to the container path to get default index
	// path.
	IndexSuffix = ".index"

	// CheckWorkersDefault is a default number of Check routines.
	CheckWorkersDefault = 4
)

// Path returns the value of "path" config parameter
// from "storage" section.
//
// Returns empty string if the value is missing.
func Path(c *config.Config) string {
	return config.StringSafe(c.Sub(subsection), "path")
}

// Perm returns the value of "perm" config parameter
// from "storage" section.
//
// Returns PermDefault if the value is missing or invalid.
func Perm(c *config.Config) fs.FileMode {
	v := config.FileModeSafe(c.Sub(subsection), "perm")
	if v == 0 {
		return PermDefault
	}

	return v
}

// ReadOnly returns the value of "read_only" config parameter
// from "storage" section.
func ReadOnly(c *config.Config) bool {
	return config.BoolSafe(c.Sub(subsection), "read_only")
}

// NoSync returns the value of "no_sync" config parameter
// from "storage" section.
func NoSync(c *config.Config) bool {
	return config.BoolSafe(c.Sub(subsection), "no_sync")
}

// IndexPath returns the value of "index_path" config parameter
// from "storage" section.
//
// Returns container path with IndexSuffix if the value is missing.
func IndexPath(c *config.Config) string {
	v := config.StringSafe(c.Sub(subsection), "index_path")
	if v != "" {
		return v
	}

	p := Path(c)
	if p == "" {
		return ""
	}

	return p + IndexSuffix
}

// Compress returns the value of "compress" config parameter
// from "storage" section.
func Compress(c *config.Config) bool {
	return config.BoolSafe(c.Sub(subsection), "compress")
}

// UncompressablePaths returns the value of "uncompressable_paths" config
// parameter from "storage" section.
func UncompressablePaths(c *config.Config) []string {
	return config.StringSliceSafe(c.Sub(subsection), "uncompressable_paths")
}

// CacheSize returns the value of "cache_size" config parameter
// from "storage" section.
//
// Returns 0 (no cache) if the value is missing or invalid.
func CacheSize(c *config.Config) int {
	return int(config.UintSafe(c.Sub(subsection), "cache_size"))
}

// CheckWorkers returns the value of "check_workers" config parameter
// from "storage" section.
//
// Returns CheckWorkersDefault if the value is not a positive number.
func CheckWorkers(c *config.Config) int {
	v := config.UintSafe(c.Sub(subsection), "check_workers")
	if v > 0 {
		return int(v)
	}

	return CheckWorkersDefault
}

// MaxObjectSize returns the value of "max_object_size" config parameter
// from "storage" section.
//
// Returns 0 (no limit) if the value is missing or invalid.
func MaxObjectSize(c *config.Config) uint64 {
	return config.SizeInBytesSafe(c.Sub(subsection), "max_object_size")
}
