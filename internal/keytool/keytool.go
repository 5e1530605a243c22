// Package keytool drives the external keytool binary. Each operation maps to
// one command invocation; keytool's own certificate parsing and validation
// are treated as a black box reachable only through exit codes and output.
package keytool

import (
	"context"
	"fmt"
	"strings"

	"github.com/certfleet/keysync/internal/logger"
	"github.com/certfleet/keysync/internal/proxy"
	keysyncerrors "github.com/certfleet/keysync/pkg/errors"
)

// Keytool exposes the four logical keystore operations: list-by-alias,
// import-certificate, import-from-bundle, and delete-by-alias, plus the
// remote certificate fetch that feeds imports.
type Keytool struct {
	executable string
	runner     Runner
	log        *logger.Logger
}

// New creates a Keytool wrapper around the given executable. An empty
// executable falls back to "keytool" resolved via PATH.
func New(executable string, runner Runner, log *logger.Logger) *Keytool {
	if executable == "" {
		executable = "keytool"
	}
	return &Keytool{executable: executable, runner: runner, log: log}
}

// ImportCertInputs describes one certificate import. Material and File are
// alternatives: remote fetches pipe PEM text on stdin, local imports point
// keytool at the file.
type ImportCertInputs struct {
	KeystorePath string
	StorePass    string
	Alias        string
	TrustCACert  bool
	File         string
	Material     string
}

// ImportBundleInputs describes a cross-keystore copy out of a PKCS12 bundle.
// The destination key password reuses the keystore password.
type ImportBundleInputs struct {
	KeystorePath string
	StorePass    string
	BundlePath   string
	BundlePass   string
	BundleAlias  string
	Alias        string
}

// Available probes that the executable can be invoked at all. keytool with
// no arguments prints usage and exits zero.
func (k *Keytool) Available(ctx context.Context) error {
	res := k.runner.Run(ctx, k.executable, nil, "")
	if res.ExitCode != 0 {
		return keysyncerrors.NewPreconditionError(k.executable,
			fmt.Sprintf("keytool executable is not invocable (exit %d)", res.ExitCode))
	}
	return nil
}

// Present reports whether an alias exists in the keystore. The listing is
// read-only; any non-zero exit is treated as absence.
func (k *Keytool) Present(ctx context.Context, keystorePath, storePass, alias string) bool {
	args := []string{
		"-noprompt", "-list",
		"-keystore", keystorePath,
		"-storepass", storePass,
		"-alias", alias,
	}
	res := k.runner.Run(ctx, k.executable, args, "")
	return res.ExitCode == 0
}

// FetchRemote retrieves the certificate presented by host:port, routed
// through the proxy when one is configured. The returned string is the raw
// PEM text keytool printed.
func (k *Keytool) FetchRemote(ctx context.Context, host string, port int, proxyCfg proxy.Config) (string, error) {
	args := []string{"-printcert", "-rfc"}
	args = append(args, proxyCfg.Args()...)
	args = append(args, "-sslserver", fmt.Sprintf("%s:%d", host, port))

	res := k.runner.Run(ctx, k.executable, args, "")
	if res.ExitCode != 0 {
		return "", k.executionError(args, res)
	}
	return res.Stdout, nil
}

// ImportCert writes one certificate into the keystore under an alias.
func (k *Keytool) ImportCert(ctx context.Context, in ImportCertInputs) (Result, error) {
	args := []string{
		"-importcert", "-noprompt",
		"-keystore", in.KeystorePath,
		"-storepass", in.StorePass,
		"-alias", in.Alias,
	}
	if in.File != "" {
		args = append(args, "-file", in.File)
	}
	if in.TrustCACert {
		args = append(args, "-trustcacerts")
	}

	res := k.runner.Run(ctx, k.executable, args, in.Material)
	if res.ExitCode != 0 {
		return res, k.executionError(args, res)
	}
	return res, nil
}

// ImportBundle copies an entry out of a PKCS12 bundle into the keystore.
func (k *Keytool) ImportBundle(ctx context.Context, in ImportBundleInputs) (Result, error) {
	args := []string{
		"-importkeystore", "-noprompt",
		"-destkeystore", in.KeystorePath,
		"-srcstoretype", "PKCS12",
		"-deststorepass", in.StorePass,
		"-destkeypass", in.StorePass,
		"-srckeystore", in.BundlePath,
		"-srcstorepass", in.BundlePass,
		"-srcalias", in.BundleAlias,
		"-destalias", in.Alias,
	}

	res := k.runner.Run(ctx, k.executable, args, "")
	if res.ExitCode != 0 {
		return res, k.executionError(args, res)
	}
	return res, nil
}

// Delete removes an aliased entry from the keystore.
func (k *Keytool) Delete(ctx context.Context, keystorePath, storePass, alias string) (Result, error) {
	args := []string{
		"-delete",
		"-keystore", keystorePath,
		"-storepass", storePass,
		"-alias", alias,
	}

	res := k.runner.Run(ctx, k.executable, args, "")
	if res.ExitCode != 0 {
		return res, k.executionError(args, res)
	}
	return res, nil
}

// executionError builds the terminal error for a failed invocation, with
// the store passwords redacted from the reported command line.
func (k *Keytool) executionError(args []string, res Result) error {
	return keysyncerrors.NewExecutionError(k.commandLine(args), res.ExitCode, res.Stdout, res.Stderr)
}

func (k *Keytool) commandLine(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, k.executable)
	redactNext := false
	for _, arg := range args {
		if redactNext {
			parts = append(parts, "******")
			redactNext = false
			continue
		}
		switch arg {
		case "-storepass", "-deststorepass", "-destkeypass", "-srcstorepass":
			redactNext = true
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
