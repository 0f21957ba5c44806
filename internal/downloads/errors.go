package downloads

import (
	"context"
	"errors"
	"fmt"

	"movvify/internal/blocking"
	"movvify/internal/command/execute"
	"movvify/internal/utils/logging"
)

var (
	// ErrUpstreamBlocked means the site rejected the request as automated.
	ErrUpstreamBlocked = errors.New("upstream blocked the request")
	// ErrToolFailed covers every other failed tool run, spawn failures included.
	ErrToolFailed = errors.New("download tool failed")
	// ErrParse means the tool's output could not be decoded.
	ErrParse = errors.New("could not parse tool output")
)

// classify logs a failed run and maps it onto the package sentinels.
// Raw tool output is logged here and never returned to callers.
func classify(url string, err error) error {
	var spawnErr *execute.SpawnError
	if errors.As(err, &spawnErr) {
		logging.E("Could not start %s for %q: %v", spawnErr.Bin, url, spawnErr.Err)
		return fmt.Errorf("%w: %w", ErrToolFailed, err)
	}

	var toolErr *execute.ToolError
	if errors.As(err, &toolErr) {
		logging.E("%s failed for %q (exit %d, timed out: %v):\n%s",
			toolErr.Bin, url, toolErr.ExitCode, toolErr.TimedOut, toolErr.Stderr)

		if blocking.IsBotDetection(toolErr.Stderr) {
			return fmt.Errorf("%w: %w", ErrUpstreamBlocked, err)
		}
		return fmt.Errorf("%w: %w", ErrToolFailed, err)
	}

	if errors.Is(err, context.Canceled) {
		logging.W("Request for %q was cancelled", url)
	} else {
		logging.E("Unexpected failure for %q: %v", url, err)
	}
	return fmt.Errorf("%w: %w", ErrToolFailed, err)
}
