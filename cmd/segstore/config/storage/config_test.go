package storageconfig_test

import (
	"testing"

	"github.com/nspcc-dev/segstore/cmd/segstore/config"
	storageconfig "github.com/nspcc-dev/segstore/cmd/segstore/config/storage"
	configtest "github.com/nspcc-dev/segstore/cmd/segstore/config/test"
	"github.com/stretchr/testify/require"
)

func TestStorageSection(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		empty := configtest.EmptyConfig(t)

		require.Empty(t, storageconfig.Path(empty))
		require.Equal(t, storageconfig.PermDefault, storageconfig.Perm(empty))
		require.False(t, storageconfig.ReadOnly(empty))
		require.False(t, storageconfig.NoSync(empty))
		require.Empty(t, storageconfig.IndexPath(empty))
		require.False(t, storageconfig.Compress(empty))
		require.Empty(t, storageconfig.UncompressablePaths(empty))
		require.Zero(t, storageconfig.CacheSize(empty))
		require.Equal(t, storageconfig.CheckWorkersDefault, storageconfig.CheckWorkers(empty))
		require.Zero(t, storageconfig.MaxObjectSize(empty))
	})

	t.Run("index next to container", func(t *testing.T) {
		c := configtest.EmptyConfig(t)
		c.Sub("storage").Set("path", "/data/container")

		require.Equal(t, "/data/container"+storageconfig.IndexSuffix, storageconfig.IndexPath(c))
	})

	const path = "../testdata/config"

	var fileConfigTest = func(c *config.Config) {
		require.Equal(t, "/srv/segstore/container", storageconfig.Path(c))
		require.EqualValues(t, 0o600, storageconfig.Perm(c))
		require.True(t, storageconfig.ReadOnly(c))
		require.True(t, storageconfig.NoSync(c))
		require.Equal(t, "/srv/segstore/index.db", storageconfig.IndexPath(c))
		require.True(t, storageconfig.Compress(c))
		require.Equal(t, []string{"*.jpg", "/media/*"}, storageconfig.UncompressablePaths(c))
		require.Equal(t, 128, storageconfig.CacheSize(c))
		require.Equal(t, 8, storageconfig.CheckWorkers(c))
		require.EqualValues(t, 4<<20, storageconfig.MaxObjectSize(c))
	}

	configtest.ForEachFileType(t, path, fileConfigTest)

	t.Run("ENV", func(t *testing.T) {
		configtest.ForEnvFileType(t, path, fileConfigTest)
	})
}
