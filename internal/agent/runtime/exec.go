package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ExecRuntime runs payloads as raw OS processes with the host's
// interpreters. Primarily used for development and testing; production
// agents should prefer the Docker runtime for isolation.
type ExecRuntime struct{}

// NewExecRuntime creates a new process-based runtime.
func NewExecRuntime() *ExecRuntime {
	return &ExecRuntime{}
}

// Run implements Runtime.Run using os/exec.
func (e *ExecRuntime) Run(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp("", "gridpay-job-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workdir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(spec.Filename))
	if err := os.WriteFile(path, []byte(spec.Code), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write payload: %w", err)
	}

	cmd := exec.CommandContext(ctx, Interpreter(spec.Lang), path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		// A non-zero exit is a job result, not a runtime failure.
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("failed to run payload: %w", err)
	}

	return result, nil
}
