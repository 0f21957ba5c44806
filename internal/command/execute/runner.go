// Package execute runs the external fetch tool as a child process, never through a shell.
package execute

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"
	"time"

	"movvify/internal/domain/command"
	"movvify/internal/domain/consts"
	"movvify/internal/utils/logging"
)

// Output is the captured output of a completed run.
type Output struct {
	Stdout string
	Stderr string
}

// Runner spawns the external tool.
type Runner struct {
	Bin       string
	WaitDelay time.Duration
}

// NewRunner returns a runner for the given executable (yt-dlp if empty).
func NewRunner(bin string) *Runner {
	if bin == "" {
		bin = command.YTDLP
	}
	return &Runner{
		Bin:       bin,
		WaitDelay: consts.ProcessWaitDelay,
	}
}

// command builds the child process in its own process group, so cancelling
// ctx also kills anything the tool spawned (e.g. ffmpeg merges).
func (r *Runner) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.Bin, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = r.WaitDelay
	return cmd
}

// Run executes the tool to completion and returns its captured output.
//
// A non-zero exit returns *ToolError with stderr attached, a failed start returns
// *SpawnError. If timeout is positive, the process group is killed once it elapses.
func (r *Runner) Run(ctx context.Context, timeout time.Duration, args ...string) (Output, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, args)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.D(1, "Executing command: %s", cmd.String())
	if err := cmd.Start(); err != nil {
		return Output{}, &SpawnError{Bin: r.Bin, Err: err}
	}

	err := cmd.Wait()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		return out, newToolError(ctx, r.Bin, err, out)
	}
	return out, nil
}
