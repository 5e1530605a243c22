package keytool

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/certfleet/keysync/internal/logger"
)

// Result is the raw record of one external command invocation. The executor
// never interprets it as success or failure; callers branch on ExitCode.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes a single external command to completion, capturing its
// output. Implementations block until the process exits; no timeout is
// applied beyond whatever deadline rides on the context.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin string) Result
}

type execRunner struct {
	log *logger.Logger
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner(log *logger.Logger) Runner {
	return &execRunner{log: log}
}

// Run never returns an error: a process that cannot be started at all is
// reported as exit code -1 with the launch failure in stderr, so every
// outcome flows through the same Result shape.
func (r *execRunner) Run(ctx context.Context, name string, args []string, stdin string) Result {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	r.log.WithFields(map[string]any{"command": name, "args": args}).Debug("running external command")

	err := cmd.Run()

	result := Result{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}

	switch {
	case err == nil:
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			if result.Stderr == "" {
				result.Stderr = err.Error()
			}
		}
	}

	r.log.WithFields(map[string]any{"command": name, "exit_code": result.ExitCode}).Debug("external command finished")

	return result
}
