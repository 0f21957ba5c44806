package execute

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ToolError is returned when the external tool ran but did not succeed.
type ToolError struct {
	Bin      string
	ExitCode int
	TimedOut bool
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("%s timed out and was killed", e.Bin)
	}
	return fmt.Sprintf("%s exited with code %d: %v", e.Bin, e.ExitCode, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// SpawnError is returned when the external tool could not be started at all.
type SpawnError struct {
	Bin string
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Bin, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// newToolError classifies a Wait error, using ctx to tell timeouts apart.
func newToolError(ctx context.Context, bin string, err error, out Output) *ToolError {
	te := &ToolError{
		Bin:      bin,
		ExitCode: -1,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Err:      err,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		te.TimedOut = true
		te.Err = ctx.Err()
	}
	return te
}
