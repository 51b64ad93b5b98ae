package common

import (
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/segstore/cmd/segstore/config"
	loggerconfig "github.com/nspcc-dev/segstore/cmd/segstore/config/logger"
	metricsconfig "github.com/nspcc-dev/segstore/cmd/segstore/config/metrics"
	storageconfig "github.com/nspcc-dev/segstore/cmd/segstore/config/storage"
	"github.com/nspcc-dev/segstore/misc"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/compression"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/container"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore"
	"github.com/nspcc-dev/segstore/pkg/metrics"
	"github.com/nspcc-dev/segstore/pkg/services/fileservice"
	"github.com/nspcc-dev/segstore/pkg/util/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// ErrNoContainerPath is returned when container location is not configured.
var ErrNoContainerPath = errors.New("container path is not set, use --path flag or storage.path config value")

// Env groups opened storage and its environment.
type Env struct {
	Config  *config.Config
	Log     *zap.Logger
	Store   *segstore.Store
	Service *fileservice.Service

	// Registry is set if metrics are enabled.
	Registry *prometheus.Registry
}

// OpenStorage reads config and opens the segment store. Storage is opened in
// read-only mode if readOnly is set or config requires so. Env must be
// closed after use.
func OpenStorage(cmd *cobra.Command, readOnly bool) (*Env, error) {
	c, err := ReadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	path := storageconfig.Path(c)
	if path == "" {
		return nil, ErrNoContainerPath
	}

	env := &Env{
		Config: c,
		Log:    log,
	}

	opts := []segstore.Option{
		segstore.WithLogger(log),
		segstore.WithContainer(container.NewFS(
			container.WithPath(path),
			container.WithPerm(storageconfig.Perm(c)),
			container.WithNoSync(storageconfig.NoSync(c)),
			container.WithLogger(log),
		)),
		segstore.WithIndexPath(storageconfig.IndexPath(c)),
		segstore.WithCompression(&compression.Config{
			Enabled:             storageconfig.Compress(c),
			UncompressablePaths: storageconfig.UncompressablePaths(c),
		}),
		segstore.WithCacheSize(storageconfig.CacheSize(c)),
		segstore.WithCheckWorkers(storageconfig.CheckWorkers(c)),
		segstore.WithMaxObjectSize(storageconfig.MaxObjectSize(c)),
	}

	if metricsconfig.Enabled(c) {
		env.Registry = prometheus.NewRegistry()
		opts = append(opts, segstore.WithMetrics(metrics.NewSegStoreMetrics(env.Registry, misc.Version)))
	}

	st := segstore.New(opts...)

	err = st.Open(readOnly || storageconfig.ReadOnly(c))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	err = st.Init()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init storage: %w", err), st.Close())
	}

	env.Store = st
	env.Service, err = fileservice.New(st, fileservice.WithLogger(log))
	if err != nil {
		return nil, errors.Join(err, st.Close())
	}

	return env, nil
}

// Close closes the storage and flushes logs.
func (e *Env) Close() error {
	err := e.Store.Close()
	_ = e.Log.Sync()
	return err
}

func newLogger(c *config.Config) (*zap.Logger, error) {
	var prm logger.Prm

	err := prm.SetLevelString(loggerconfig.Level(c))
	if err != nil {
		return nil, fmt.Errorf("invalid logger level: %w", err)
	}

	err = prm.SetEncoding(loggerconfig.Encoding(c))
	if err != nil {
		return nil, err
	}

	prm.SetTimestamp(term.IsTerminal(int(os.Stderr.Fd())))

	return logger.NewLogger(prm)
}
