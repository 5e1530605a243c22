package errors

import (
	"fmt"
)

// ConfigurationError captures invalid desired-state input, such as zero or
// multiple certificate sources, or required fields left empty. It is raised
// before any external command executes.
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

// NewConfigurationError constructs a ConfigurationError.
func NewConfigurationError(field, message string, err error) error {
	return &ConfigurationError{Field: field, Message: message, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PreconditionError indicates the environment cannot support reconciliation:
// the keystore file does not exist and creation is not permitted, or the
// external tool is not invocable. Raised before the presence check.
type PreconditionError struct {
	Path    string
	Message string
}

// NewPreconditionError constructs a PreconditionError.
func NewPreconditionError(path, message string) error {
	return &PreconditionError{Path: path, Message: message}
}

func (e *PreconditionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("precondition error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("precondition error: %s", e.Message)
}

// ConflictError signals that an alias is already present in the keystore and
// force_update was not set. The message carries the remediation hint.
type ConflictError struct {
	Alias string
}

// NewConflictError constructs a ConflictError for the given alias.
func NewConflictError(alias string) error {
	return &ConflictError{Alias: alias}
}

func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("certificate alias %q is already present; retry with force_update to overwrite", e.Alias)
}

// ExecutionError represents a non-zero exit from the external tool. It keeps
// the exact command line and raw output so callers can surface them verbatim.
type ExecutionError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

// NewExecutionError constructs an ExecutionError from one command invocation.
func NewExecutionError(command string, exitCode int, stdout, stderr string) error {
	return &ExecutionError{Command: command, ExitCode: exitCode, Stdout: stdout, Stderr: stderr}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	output := e.Stderr
	if output == "" {
		output = e.Stdout
	}
	if output != "" {
		return fmt.Sprintf("execution error: %s: exit %d: %s", e.Command, e.ExitCode, output)
	}
	return fmt.Sprintf("execution error: %s: exit %d", e.Command, e.ExitCode)
}
