package reconcile

import (
	keysyncerrors "github.com/certfleet/keysync/pkg/errors"
)

// Effect is the single mutation (or absence of one) a reconciliation will
// perform against the keystore.
type Effect int

const (
	// EffectNoOp leaves the keystore untouched.
	EffectNoOp Effect = iota
	// EffectImport adds the alias to the keystore.
	EffectImport
	// EffectDelete removes the alias from the keystore.
	EffectDelete
	// EffectDeleteThenImport replaces an existing alias.
	EffectDeleteThenImport
)

func (e Effect) String() string {
	switch e {
	case EffectNoOp:
		return "no-op"
	case EffectImport:
		return "import"
	case EffectDelete:
		return "delete"
	case EffectDeleteThenImport:
		return "delete-then-import"
	default:
		return "unknown"
	}
}

// Mutates reports whether the effect issues any mutating command.
func (e Effect) Mutates() bool {
	return e != EffectNoOp
}

// Decide maps (desired, current, forceUpdate) to an effect. It is pure:
// no command runs here, and the only failure mode is the conflict between
// an already-present alias and forceUpdate being unset. The alias is taken
// solely to label that conflict.
func Decide(wantPresent, currentlyPresent, forceUpdate bool, alias string) (Effect, error) {
	if !wantPresent {
		if currentlyPresent {
			return EffectDelete, nil
		}
		return EffectNoOp, nil
	}

	if !currentlyPresent {
		return EffectImport, nil
	}

	if forceUpdate {
		return EffectDeleteThenImport, nil
	}

	return EffectNoOp, keysyncerrors.NewConflictError(alias)
}
