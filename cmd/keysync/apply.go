package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/certfleet/keysync/internal/config"
	"github.com/certfleet/keysync/internal/keytool"
	"github.com/certfleet/keysync/internal/logger"
	"github.com/certfleet/keysync/internal/proxy"
	"github.com/certfleet/keysync/internal/reconcile"
)

type applyOptions struct {
	ConfigPath string
	DryRun     bool
	Verbose    bool
}

var applyCmdRunner = runApply

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile keystore contents with a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbose = root.verbose

			if err := validateManifestPath(opts.ConfigPath); err != nil {
				return err
			}

			return applyCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to manifest file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runApply(opts applyOptions) error {
	manifest, err := config.ParseManifest(opts.ConfigPath)
	if err != nil {
		return err
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	// Proxy settings are snapshotted once here and threaded through every
	// remote fetch; ambient state is never re-read mid-operation.
	proxyCfg, err := proxy.Resolve()
	if err != nil {
		return err
	}

	ctx := context.Background()
	tool := keytool.New(manifest.Keystore.KeytoolExecutable(), keytool.NewRunner(log), log)
	if err := tool.Available(ctx); err != nil {
		return err
	}

	engine := reconcile.New(tool, proxyCfg, log, opts.DryRun)
	return applyEntries(ctx, engine, manifest, os.Stdout, opts.DryRun)
}

// applyEntries reconciles every entry in order, rendering one line per
// outcome. A failure is returned to the caller, which prints it exactly
// once; nothing is written here beyond the outcomes that did complete.
func applyEntries(ctx context.Context, engine *reconcile.Engine, manifest *config.Manifest, w io.Writer, dryRun bool) error {
	out := newRenderer(w)

	changed := 0
	for i := range manifest.Certificates {
		entry := &manifest.Certificates[i]

		outcome, err := engine.Reconcile(ctx, manifest.Keystore, entry)
		if err != nil {
			return err
		}

		out.outcome(outcome)
		if outcome.Changed {
			changed++
		}
	}

	out.applySummary(changed, len(manifest.Certificates), dryRun)
	return nil
}
