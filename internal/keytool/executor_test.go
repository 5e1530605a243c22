package keytool

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunnerCapturesOutputAndExitCode(t *testing.T) {
	t.Parallel()

	r := NewRunner(nil)
	res := r.Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2; exit 3"}, "")

	require.Equal(t, 3, res.ExitCode)
	require.Equal(t, "out", res.Stdout)
	require.Equal(t, "err", res.Stderr)
}

func TestRunnerZeroExit(t *testing.T) {
	t.Parallel()

	r := NewRunner(nil)
	res := r.Run(context.Background(), "sh", []string{"-c", "echo ok"}, "")

	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "ok", res.Stdout)
	require.Empty(t, res.Stderr)
}

func TestRunnerFeedsStdin(t *testing.T) {
	t.Parallel()

	r := NewRunner(nil)
	res := r.Run(context.Background(), "sh", []string{"-c", "cat"}, "-----BEGIN CERTIFICATE-----")

	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "-----BEGIN CERTIFICATE-----", res.Stdout)
}

func TestRunnerNeverRaisesOnMissingBinary(t *testing.T) {
	t.Parallel()

	r := NewRunner(nil)
	missing := filepath.Join(t.TempDir(), "no-such-tool")
	res := r.Run(context.Background(), missing, nil, "")

	require.Equal(t, -1, res.ExitCode)
	require.NotEmpty(t, res.Stderr)
}
