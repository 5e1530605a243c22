package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	keysyncerrors "github.com/certfleet/keysync/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	entryIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("entry_id", func(fl validator.FieldLevel) bool {
			return entryIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// ValidateManifest performs schema and cross-field validation. Every
// violation surfaces as a ConfigurationError before anything executes.
func ValidateManifest(m *Manifest) error {
	if m == nil {
		return keysyncerrors.NewConfigurationError("manifest", "manifest is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(m); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(m.Certificates))
	for i, entry := range m.Certificates {
		if _, exists := seen[entry.ID]; exists {
			return keysyncerrors.NewConfigurationError(fieldForEntry(i, "id"),
				fmt.Sprintf("duplicate entry id %q", entry.ID), nil)
		}
		seen[entry.ID] = struct{}{}

		if err := ValidateEntry(&m.Certificates[i], fieldForEntry(i, "")); err != nil {
			return err
		}
	}

	return nil
}

// ValidateEntry checks the cross-field desired-state invariants of one
// entry: exactly one source variant and a usable alias. The engine calls
// this again before reconciling, so entries built outside the manifest
// parser get the same guarantees.
func ValidateEntry(e *Entry, field string) error {
	if e == nil {
		return keysyncerrors.NewConfigurationError(field, "entry is nil", nil)
	}
	if field == "" {
		field = e.ID
	}

	switch e.SourceCount() {
	case 1:
	case 0:
		return keysyncerrors.NewConfigurationError(field,
			"exactly one of url, path, pkcs12 must be set", nil)
	default:
		return keysyncerrors.NewConfigurationError(field,
			"url, path, and pkcs12 are mutually exclusive", nil)
	}

	if e.Alias == "" {
		return keysyncerrors.NewConfigurationError(field, "alias is required", nil)
	}

	return nil
}

func fieldForEntry(index int, name string) string {
	if name == "" {
		return fmt.Sprintf("certificates[%d]", index)
	}
	return fmt.Sprintf("certificates[%d].%s", index, name)
}

func convertValidationError(err error) error {
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); !ok || len(verrs) == 0 {
		return keysyncerrors.NewConfigurationError("manifest", err.Error(), err)
	}

	first := verrs[0]
	field := normalizeFieldPath(first.Namespace())
	switch first.Tag() {
	case "required":
		return keysyncerrors.NewConfigurationError(field, "field is required", err)
	case "entry_id":
		return keysyncerrors.NewConfigurationError(field,
			"id may only contain lowercase letters, digits, '_' and '-'", err)
	case "oneof":
		return keysyncerrors.NewConfigurationError(field,
			fmt.Sprintf("must be one of: %s", first.Param()), err)
	default:
		return keysyncerrors.NewConfigurationError(field,
			fmt.Sprintf("failed %q validation", first.Tag()), err)
	}
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = verrs
	return true
}

// normalizeFieldPath strips the root struct name and lowercases the path so
// errors read like manifest keys rather than Go field names.
func normalizeFieldPath(namespace string) string {
	parts := strings.SplitN(namespace, ".", 2)
	if len(parts) == 2 {
		return strings.ToLower(parts[1])
	}
	return strings.ToLower(namespace)
}
