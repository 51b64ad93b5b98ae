// Package fileservice provides file-like access to the segment store.
package fileservice

import (
	"errors"

	"github.com/nspcc-dev/segstore/pkg/core/object"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore"
	"go.uber.org/zap"
)

// Storage is a segment store serving Service requests.
type Storage interface {
	Save(path string, content []byte) error
	Read(path string) (*object.Object, error)
	Delete(path string) error
	Metrics() segstore.Metrics
	Compact() (segstore.CompactRes, error)
}

// Service implements file operations as compositions of the Storage ones.
type Service struct {
	*cfg

	st Storage
}

// Option is a Service's constructor option.
type Option func(*cfg)

type cfg struct {
	log *zap.Logger
}

func defaultCfg() *cfg {
	return &cfg{
		log: zap.L(),
	}
}

// ErrNilStorage is returned by New when storage is not provided.
var ErrNilStorage = errors.New("storage is nil")

// New creates Service on top of the given storage.
func New(st Storage, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, ErrNilStorage
	}

	c := defaultCfg()

	for i := range opts {
		opts[i](c)
	}

	return &Service{
		cfg: c,
		st:  st,
	}, nil
}

// WithLogger returns option to specify File service's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *cfg) {
		c.log = l.With(zap.String("component", "File service"))
	}
}
