package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	content := `
version: "1.0"
keystore:
  path: /tmp/cacerts
  password: changeit
certificates:
  - id: root_ca
    path: /certs/root.pem
    alias: rootCA
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyCommandPropagatesFlags(t *testing.T) {
	manifest := writeTempManifest(t)

	var captured applyOptions
	original := applyCmdRunner
	applyCmdRunner = func(opts applyOptions) error {
		captured = opts
		return nil
	}
	t.Cleanup(func() { applyCmdRunner = original })

	cmd := newRootCmd()
	cmd.SetArgs([]string{"apply", "--config", manifest, "--dry-run", "--verbose"})
	require.NoError(t, cmd.Execute())

	require.Equal(t, manifest, captured.ConfigPath)
	require.True(t, captured.DryRun)
	require.True(t, captured.Verbose)
}

func TestApplyCommandRequiresConfigFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"apply"})
	require.Error(t, cmd.Execute())
}

func TestApplyCommandRejectsMissingManifest(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"apply", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, cmd.Execute())
}

func TestVerifyCommandPropagatesPath(t *testing.T) {
	manifest := writeTempManifest(t)

	var captured verifyOptions
	original := verifyCmdRunner
	verifyCmdRunner = func(opts verifyOptions) error {
		captured = opts
		return nil
	}
	t.Cleanup(func() { verifyCmdRunner = original })

	cmd := newRootCmd()
	cmd.SetArgs([]string{"verify", manifest, "--json"})
	require.NoError(t, cmd.Execute())

	require.Equal(t, manifest, captured.ConfigPath)
	require.True(t, captured.JSON)
}
