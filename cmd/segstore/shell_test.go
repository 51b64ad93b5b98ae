package main

import (
	"bytes"
	"testing"

	"github.com/nspcc-dev/segstore/cmd/segstore/internal/common"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore"
	"github.com/nspcc-dev/segstore/pkg/services/fileservice"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newShellEnv(t *testing.T) *common.Env {
	log := zaptest.NewLogger(t)

	st := segstore.New(segstore.WithLogger(log))
	require.NoError(t, st.Open(false))
	require.NoError(t, st.Init())
	t.Cleanup(func() { _ = st.Close() })

	svc, err := fileservice.New(st, fileservice.WithLogger(log))
	require.NoError(t, err)

	return &common.Env{Log: log, Store: st, Service: svc}
}

func TestRunShellLine(t *testing.T) {
	env := newShellEnv(t)

	exec := func(line string) (string, error) {
		var buf bytes.Buffer
		err := runShellLine(env, &buf, line)
		return buf.String(), err
	}

	mustExec := func(line string) string {
		out, err := exec(line)
		require.NoError(t, err, line)
		return out
	}

	require.Empty(t, mustExec("   "))

	mustExec(`write /notes "hello world"`)
	require.Equal(t, "hello world\n", mustExec("read /notes"))

	mustExec(`append /notes "!"`)
	require.Equal(t, "hello world!\n", mustExec("read /notes"))

	mustExec("touch /empty")
	require.Equal(t, "/empty has no content\n", mustExec("read /empty"))

	mustExec("mv /notes /moved")
	_, err := exec("read /notes")
	require.ErrorIs(t, err, segstore.ErrNotFound)

	out := mustExec("ls")
	require.Contains(t, out, "/moved")
	require.Contains(t, out, "/empty")

	mustExec("rm /empty")
	require.Contains(t, mustExec("holes"), "TOTAL")
	require.Contains(t, mustExec("metrics"), "live_segment_count: 1")
	require.Contains(t, mustExec("compact"), "Moved objects:")
	require.Contains(t, mustExec("check"), "Checked objects: 1")

	t.Run("help", func(t *testing.T) {
		out := mustExec("help")
		for name, c := range shellCommands {
			require.Contains(t, out, c.usage, name)
		}
		require.Contains(t, out, "exit")
	})

	t.Run("exit", func(t *testing.T) {
		for _, line := range []string{"exit", "quit"} {
			_, err := exec(line)
			require.ErrorIs(t, err, errExit)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, line := range []string{
			"unknown",
			"read",
			"read /a /b",
			"rm",
			"ls /",
		} {
			_, err := exec(line)
			require.Error(t, err, line)
		}
	})
}
