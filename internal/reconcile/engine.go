// Package reconcile converges a keystore's contents to declared certificate
// entries by selecting and executing one effect per entry.
package reconcile

import (
	"context"
	"fmt"
	"os"

	"github.com/certfleet/keysync/internal/config"
	"github.com/certfleet/keysync/internal/keytool"
	"github.com/certfleet/keysync/internal/logger"
	"github.com/certfleet/keysync/internal/model"
	"github.com/certfleet/keysync/internal/proxy"
	keysyncerrors "github.com/certfleet/keysync/pkg/errors"
)

// Engine reconciles single certificate entries against one keystore. It is
// strictly sequential: at most one external command is in flight at a time,
// and no locking is performed — the caller is responsible for at-most-one
// writer per keystore file.
type Engine struct {
	tool   *keytool.Keytool
	proxy  proxy.Config
	log    *logger.Logger
	dryRun bool
}

// New creates an Engine. The proxy configuration is snapshotted by the
// caller once per invocation and threaded through every remote fetch.
func New(tool *keytool.Keytool, proxyCfg proxy.Config, log *logger.Logger, dryRun bool) *Engine {
	return &Engine{tool: tool, proxy: proxyCfg, log: log, dryRun: dryRun}
}

// Reconcile drives one entry to its desired state and returns the terminal
// outcome. Validation and preconditions run before any external command;
// the read-only presence check runs even in dry-run mode.
//
// DeleteThenImport is not transactional: if the reimport fails after the
// delete succeeded, the alias is gone and the failure surfaces as an
// ExecutionError. A compensating re-import is impossible because the old
// material was never exported.
func (e *Engine) Reconcile(ctx context.Context, ks config.Keystore, entry *config.Entry) (*model.Outcome, error) {
	if err := config.ValidateEntry(entry, ""); err != nil {
		return nil, err
	}

	if err := checkKeystore(ks); err != nil {
		return nil, err
	}

	present := e.tool.Present(ctx, ks.Path, ks.Password, entry.Alias)
	wantPresent := entry.State != config.StateAbsent

	effect, err := Decide(wantPresent, present, entry.ForceUpdate, entry.Alias)
	if err != nil {
		return nil, err
	}

	e.log.WithFields(map[string]any{
		"entry":   entry.ID,
		"alias":   entry.Alias,
		"present": present,
		"effect":  effect.String(),
	}).Debug("effect selected")

	if e.dryRun {
		return e.simulate(entry, effect, present, wantPresent), nil
	}

	return e.execute(ctx, ks, entry, effect, present, wantPresent)
}

// Verify is the read-only counterpart of Reconcile: it reports whether the
// keystore already matches the entry without issuing a mutating command.
func (e *Engine) Verify(ctx context.Context, ks config.Keystore, entry *config.Entry) (*model.VerifyResult, error) {
	if err := config.ValidateEntry(entry, ""); err != nil {
		return nil, err
	}

	if err := checkKeystore(ks); err != nil {
		return nil, err
	}

	present := e.tool.Present(ctx, ks.Path, ks.Password, entry.Alias)
	wantPresent := entry.State != config.StateAbsent

	result := &model.VerifyResult{EntryID: entry.ID, Alias: entry.Alias}
	switch {
	case wantPresent && !present:
		result.Status = model.StatusMissing
		result.Message = fmt.Sprintf("alias %q is not in the keystore", entry.Alias)
	case wantPresent && entry.ForceUpdate:
		result.Status = model.StatusDrifted
		result.Message = fmt.Sprintf("alias %q would be replaced (force_update)", entry.Alias)
	case !wantPresent && present:
		result.Status = model.StatusDrifted
		result.Message = fmt.Sprintf("alias %q should be absent", entry.Alias)
	default:
		result.Status = model.StatusSatisfied
		result.Message = fmt.Sprintf("alias %q matches the desired state", entry.Alias)
	}

	return result, nil
}

// checkKeystore enforces the existence precondition unless creation is
// permitted, in which case keytool creates the store on first import.
func checkKeystore(ks config.Keystore) error {
	if ks.Create {
		return nil
	}

	info, err := os.Stat(ks.Path)
	if err != nil {
		return keysyncerrors.NewPreconditionError(ks.Path,
			"keystore does not exist and create is disabled")
	}
	if info.IsDir() {
		return keysyncerrors.NewPreconditionError(ks.Path, "keystore path is a directory")
	}

	return nil
}

func (e *Engine) simulate(entry *config.Entry, effect Effect, present, wantPresent bool) *model.Outcome {
	outcome := &model.Outcome{
		EntryID: entry.ID,
		Changed: effect.Mutates(),
		Status:  model.StatusUnchanged,
		Message: fmt.Sprintf("dry-run: %s", effect),
		Diff:    presenceDiff(entry.Alias, present, wantPresent),
	}
	if outcome.Changed {
		outcome.Status = model.StatusWouldChange
	} else {
		outcome.Message = fmt.Sprintf("alias %q already matches the desired state", entry.Alias)
		outcome.Diff = presenceDiff(entry.Alias, present, present)
	}
	return outcome
}

func (e *Engine) execute(ctx context.Context, ks config.Keystore, entry *config.Entry, effect Effect, present, wantPresent bool) (*model.Outcome, error) {
	outcome := &model.Outcome{
		EntryID: entry.ID,
		Diff:    presenceDiff(entry.Alias, present, wantPresent),
	}

	switch effect {
	case EffectNoOp:
		outcome.Status = model.StatusUnchanged
		outcome.Message = fmt.Sprintf("alias %q already matches the desired state", entry.Alias)
		outcome.Diff = presenceDiff(entry.Alias, present, present)
		return outcome, nil

	case EffectDelete:
		res, err := e.tool.Delete(ctx, ks.Path, ks.Password, entry.Alias)
		if err != nil {
			return nil, err
		}
		outcome.Changed = true
		outcome.Status = model.StatusChanged
		outcome.Message = messageOrDefault(res, fmt.Sprintf("alias %q removed", entry.Alias))
		return outcome, nil

	case EffectImport:
		res, err := e.importEntry(ctx, ks, entry)
		if err != nil {
			return nil, err
		}
		outcome.Changed = true
		outcome.Status = model.StatusChanged
		outcome.Message = messageOrDefault(res, fmt.Sprintf("alias %q imported", entry.Alias))
		return outcome, nil

	case EffectDeleteThenImport:
		if _, err := e.tool.Delete(ctx, ks.Path, ks.Password, entry.Alias); err != nil {
			return nil, err
		}
		res, err := e.importEntry(ctx, ks, entry)
		if err != nil {
			return nil, err
		}
		outcome.Changed = true
		outcome.Status = model.StatusChanged
		outcome.Message = messageOrDefault(res, fmt.Sprintf("alias %q replaced", entry.Alias))
		return outcome, nil

	default:
		return nil, keysyncerrors.NewConfigurationError(entry.ID,
			fmt.Sprintf("unknown effect %d", effect), nil)
	}
}

// importEntry dispatches to the source strategy selected by the entry.
func (e *Engine) importEntry(ctx context.Context, ks config.Keystore, entry *config.Entry) (keytool.Result, error) {
	switch {
	case entry.URL != "":
		port := entry.Port
		if port == 0 {
			port = config.DefaultRemotePort
		}
		material, err := e.tool.FetchRemote(ctx, entry.URL, port, e.proxy)
		if err != nil {
			return keytool.Result{}, err
		}
		return e.tool.ImportCert(ctx, keytool.ImportCertInputs{
			KeystorePath: ks.Path,
			StorePass:    ks.Password,
			Alias:        entry.Alias,
			TrustCACert:  entry.TrustCACert,
			Material:     material,
		})

	case entry.Path != "":
		return e.tool.ImportCert(ctx, keytool.ImportCertInputs{
			KeystorePath: ks.Path,
			StorePass:    ks.Password,
			Alias:        entry.Alias,
			TrustCACert:  entry.TrustCACert,
			File:         entry.Path,
		})

	case entry.PKCS12 != nil:
		return e.tool.ImportBundle(ctx, keytool.ImportBundleInputs{
			KeystorePath: ks.Path,
			StorePass:    ks.Password,
			BundlePath:   entry.PKCS12.Path,
			BundlePass:   entry.PKCS12.Password,
			BundleAlias:  entry.PKCS12.Alias,
			Alias:        entry.Alias,
		})

	default:
		return keytool.Result{}, keysyncerrors.NewConfigurationError(entry.ID,
			"no certificate source to import from", nil)
	}
}

// presenceDiff renders the alias presence transition; empty means absent.
func presenceDiff(alias string, before, after bool) model.Diff {
	diff := model.Diff{}
	if before {
		diff.Before = alias
	}
	if after {
		diff.After = alias
	}
	return diff
}

func messageOrDefault(res keytool.Result, fallback string) string {
	if res.Stdout != "" {
		return res.Stdout
	}
	return fallback
}
