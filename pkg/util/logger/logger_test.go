package logger_test

import (
	"testing"

	"github.com/nspcc-dev/segstore/pkg/util/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	var prm logger.Prm

	require.Error(t, prm.SetLevelString("loud"))
	require.Error(t, prm.SetEncoding("xml"))

	require.NoError(t, prm.SetLevelString("warn"))
	require.NoError(t, prm.SetEncoding(logger.EncodingJSON))
	prm.SetTimestamp(true)

	l, err := logger.NewLogger(prm)
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zap.InfoLevel))
	require.True(t, l.Core().Enabled(zap.WarnLevel))
}
