package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/certfleet/keysync/internal/config"
	"github.com/certfleet/keysync/internal/keytool"
	"github.com/certfleet/keysync/internal/logger"
	"github.com/certfleet/keysync/internal/model"
	"github.com/certfleet/keysync/internal/proxy"
	"github.com/certfleet/keysync/internal/reconcile"
)

type verifyOptions struct {
	ConfigPath string
	Verbose    bool
	JSON       bool
}

var verifyCmdRunner = runVerify

func newVerifyCmd(root *rootFlags) *cobra.Command {
	opts := verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify <manifest-file>",
		Short: "Report whether keystore contents match the manifest without changing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = args[0]
			opts.Verbose = root.verbose

			return verifyCmdRunner(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output results in JSON format")

	return cmd
}

func runVerify(opts verifyOptions) error {
	manifest, err := config.ParseManifest(opts.ConfigPath)
	if err != nil {
		return err
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: !opts.JSON})
	if err != nil {
		return err
	}

	ctx := context.Background()
	tool := keytool.New(manifest.Keystore.KeytoolExecutable(), keytool.NewRunner(log), log)
	if err := tool.Available(ctx); err != nil {
		return err
	}

	// Verify never mutates, so no proxy configuration is needed; nothing
	// is fetched.
	engine := reconcile.New(tool, proxy.Config{}, log, true)
	return verifyEntries(ctx, engine, manifest, os.Stdout, opts.JSON)
}

// errOutOfSync signals a non-zero exit after the verification report has
// already been rendered; main recognises it and prints nothing further.
var errOutOfSync = errors.New("entries out of sync")

func verifyEntries(ctx context.Context, engine *reconcile.Engine, manifest *config.Manifest, w io.Writer, jsonOutput bool) error {
	out := newRenderer(w)

	results := make([]*model.VerifyResult, 0, len(manifest.Certificates))
	outOfSync := 0
	for i := range manifest.Certificates {
		entry := &manifest.Certificates[i]

		result, err := engine.Verify(ctx, manifest.Keystore, entry)
		if err != nil {
			return err
		}

		results = append(results, result)
		if result.Status != model.StatusSatisfied {
			outOfSync++
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			out.verifyResult(result)
		}
		out.verifySummary(outOfSync, len(results))
	}

	if outOfSync > 0 {
		return errOutOfSync
	}
	return nil
}
