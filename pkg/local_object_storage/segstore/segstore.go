// Package segstore implements file storage on top of a single flat
// container. Serialized objects are appended to the container tail, index
// maps canonical object paths to their byte ranges, and ranges left by
// deleted and overwritten objects are tracked as holes until compaction
// reclaims them.
package segstore

import (
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nspcc-dev/segstore/pkg/core/object"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/compression"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/container"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"go.etcd.io/bbolt"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Store is a segment store instance.
type Store struct {
	*cfg

	// compactMtx is taken exclusively by compaction and shared by all
	// other operations using container offsets.
	compactMtx sync.RWMutex

	id       uuid.UUID
	readOnly bool
	// initialized is set by successful Init, index is persisted on Close
	// only then.
	initialized bool

	// tail is the container offset of the next appended record.
	tail atomic.Uint64
	// order is the allocation order of the next appended record.
	order atomic.Uint64

	index *segment.Index
	free  *segment.FreeSpace

	cache *lru.Cache[string, cachedObject]
	db    *bbolt.DB
}

type cachedObject struct {
	order uint64
	obj   *object.Object
}

// Option is an option of Store constructor.
type Option func(*cfg)

type cfg struct {
	log           *zap.Logger
	container     container.Container
	compression   *compression.Config
	metrics       MetricsWriter
	indexPath     string
	cacheSize     int
	checkWorkers  int
	maxObjectSize uint64
}

const (
	defaultCheckWorkers = 4
	storageType         = "segstore"
)

func defaultCfg() *cfg {
	return &cfg{
		log:          zap.NewNop(),
		compression:  new(compression.Config),
		metrics:      noopMetrics{},
		checkWorkers: defaultCheckWorkers,
	}
}

// New creates new Store. If no container is provided, objects are kept in
// memory. Open and Init must be called before use.
func New(opts ...Option) *Store {
	c := defaultCfg()

	for i := range opts {
		opts[i](c)
	}

	if c.container == nil {
		c.container = container.NewMemory()
	}

	return &Store{
		cfg:   c,
		index: segment.NewIndex(),
		free:  segment.NewFreeSpace(),
	}
}

// WithLogger returns option to specify Store logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *cfg) {
		c.log = l.With(zap.String("component", "SegStore"))
	}
}

// WithContainer returns option to set container keeping serialized objects.
func WithContainer(cnr container.Container) Option {
	return func(c *cfg) {
		c.container = cnr
	}
}

// WithCompression returns option to set record compression settings.
// Config is initialized and closed by the Store.
func WithCompression(cc *compression.Config) Option {
	return func(c *cfg) {
		if cc != nil {
			c.compression = cc
		}
	}
}

// WithMetrics returns option to set metrics writer.
func WithMetrics(m MetricsWriter) Option {
	return func(c *cfg) {
		c.metrics = m
	}
}

// WithIndexPath returns option to persist the index into BoltDB file at the
// given path on Close and restore it on Init. Empty path disables
// persistence: the index lives only in memory.
func WithIndexPath(p string) Option {
	return func(c *cfg) {
		c.indexPath = p
	}
}

// WithCacheSize returns option to keep up to n decoded objects in memory.
// Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(c *cfg) {
		c.cacheSize = n
	}
}

// WithCheckWorkers returns option to set number of routines reading
// records during Check.
func WithCheckWorkers(n int) Option {
	return func(c *cfg) {
		c.checkWorkers = n
	}
}

// WithMaxObjectSize returns option to limit size of a serialized record.
// Zero means no limit.
func WithMaxObjectSize(sz uint64) Option {
	return func(c *cfg) {
		c.maxObjectSize = sz
	}
}

// ID returns Store instance identifier. It is generated on the first Init
// and persisted along with the index.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// Path returns path of the underlying container.
func (s *Store) Path() string {
	return s.container.Path()
}
