package configtest

import (
	"os"
	"strings"
	"testing"

	"github.com/nspcc-dev/segstore/cmd/segstore/config"
	"github.com/stretchr/testify/require"
)

func fromFile(t testing.TB, path string) *config.Config {
	c, err := config.New(config.WithConfigFile(path))
	require.NoError(t, err)

	return c
}

// ForEachFileType passes configs read from next files:
//   - `<pref>.yaml`;
//   - `<pref>.json`.
func ForEachFileType(t testing.TB, pref string, f func(*config.Config)) {
	for _, ext := range []string{".yaml", ".json"} {
		f(fromFile(t, pref+ext))
	}
}

// ForEnvFileType sets ENV variables listed in `<pref>.env` file and passes
// config without any file to f. Variables are unset on test cleanup.
func ForEnvFileType(t *testing.T, pref string, f func(*config.Config)) {
	data, err := os.ReadFile(pref + ".env")
	require.NoError(t, err)

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		k, v, ok := strings.Cut(line, "=")
		require.True(t, ok, "invalid ENV line %q", line)

		t.Setenv(k, strings.Trim(v, `"`))
	}

	f(EmptyConfig(t))
}

// EmptyConfig returns config without any values and sections.
func EmptyConfig(t testing.TB) *config.Config {
	c, err := config.New()
	require.NoError(t, err)

	return c
}
