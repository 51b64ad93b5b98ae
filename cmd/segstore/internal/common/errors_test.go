package common

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrf(t *testing.T) {
	require.NoError(t, Errf("op: %w", nil))

	err := errors.New("cause")
	require.ErrorIs(t, Errf("op: %w", err), err)
}

func TestPrintErr(t *testing.T) {
	var buf bytes.Buffer

	require.Equal(t, 1, printErr(&buf, errors.New("plain")))
	require.Equal(t, "Error: plain\n", buf.String())

	buf.Reset()
	err := fmt.Errorf("wrapped: %w", ExitErr{Code: 2, Cause: errors.New("broken")})
	require.Equal(t, 2, printErr(&buf, err))
	require.Equal(t, "Error: wrapped: broken\n", buf.String())
}
