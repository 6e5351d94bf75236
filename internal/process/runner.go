package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/giantswarm/composeenv/internal/sentinel"
)

// ErrEmptyPath is returned by Run when the spec has no command path.
const ErrEmptyPath = sentinel.Error("command path must not be empty")

// ErrTimeoutNotPositive is returned by Run when the spec has a non-positive timeout.
const ErrTimeoutNotPositive = sentinel.Error("command timeout must be positive")

// waitDelay is the grace period between context cancellation and forcible
// termination of the command. It also bounds how long Run waits for the
// command's I/O pipes to drain after the process exits, preventing a stuck
// descendant process that inherited the pipes from blocking Run forever.
const waitDelay = 5 * time.Second

// Spec describes one bounded external command invocation.
type Spec struct {
	// Path is the command to run, resolved via exec.LookPath semantics.
	Path string
	// Args are the command arguments, not including the command itself.
	Args []string
	// Dir is the working directory. Empty means the caller's directory.
	Dir string
	// Env is appended to the current process environment as KEY=VALUE pairs.
	Env []string
	// Timeout bounds the total execution time. Must be positive.
	Timeout time.Duration
}

// Result holds the outcome of a completed command.
type Result struct {
	// ExitCode is the command's exit code. -1 when the command was killed
	// by a signal (including timeout enforcement).
	ExitCode int
	// Stdout is the captured standard output, verbatim.
	Stdout string
	// Stderr is the captured standard error, verbatim.
	Stderr string
	// TimedOut reports whether the timeout expired before the command finished.
	TimedOut bool
}

// Run executes the command described by spec and waits for it to finish.
//
// A non-zero exit code is not an error: the caller inspects Result.ExitCode
// and decides. Run returns an error only when the command could not be
// executed at all (bad spec, binary not found) or the context/timeout fired;
// in the timeout case Result.TimedOut is set and whatever output was captured
// so far is still returned.
func Run(ctx context.Context, spec Spec) (Result, error) {
	if spec.Path == "" {
		return Result{}, ErrEmptyPath
	}
	if spec.Timeout <= 0 {
		return Result{}, fmt.Errorf("run %s: %w", spec.Path, ErrTimeoutNotPositive)
	}

	runCtx, cancel := context.WithTimeout(ctx, spec.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// WaitDelay guarantees Wait returns even if a descendant process keeps
	// the output pipes open after the command itself exits.
	cmd.WaitDelay = waitDelay
	configureSysProcAttr(cmd)
	cmd.Cancel = terminate(cmd)

	err := cmd.Run()

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runCtx.Err() != nil && ctx.Err() == nil {
		res.TimedOut = true
		res.ExitCode = -1
		return res, fmt.Errorf("run %s: timed out after %s", spec.Path, spec.Timeout)
	}
	if ctx.Err() != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("run %s: %w", spec.Path, ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		// The command never ran (e.g. binary not found).
		res.ExitCode = -1
		return res, fmt.Errorf("run %s: %w", spec.Path, err)
	}

	return res, nil
}
