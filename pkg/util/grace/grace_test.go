package grace_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/nspcc-dev/segstore/pkg/util/grace"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewGracefulContext(t *testing.T) {
	t.Run("signal", func(t *testing.T) {
		ctx, stop := grace.NewGracefulContext(context.Background(), zaptest.NewLogger(t))
		defer stop()

		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGHUP))

		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("context is not canceled by signal")
		}
	})

	t.Run("stop", func(t *testing.T) {
		ctx, stop := grace.NewGracefulContext(context.Background(), nil)
		stop()
		require.ErrorIs(t, ctx.Err(), context.Canceled)
	})
}
