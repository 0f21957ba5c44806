package execute

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"

	"movvify/internal/utils/logging"
)

const (
	maxLineBytes   = 1 << 20
	maxStderrBytes = 64 << 10
)

// StreamKind says which output stream a chunk came from.
type StreamKind int

const (
	Stdout StreamKind = iota
	Stderr
)

func (k StreamKind) String() string {
	if k == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Chunk is one line of tool output.
type Chunk struct {
	Stream StreamKind
	Text   string
}

// Process is a running tool invocation whose output is consumed incrementally.
//
// Callers must either drain Chunks until it closes or call Kill before Wait.
type Process struct {
	bin    string
	cmd    *exec.Cmd
	ctx    context.Context
	cancel context.CancelFunc

	chunks  chan Chunk
	readers sync.WaitGroup

	stderrMu sync.Mutex
	stderr   strings.Builder

	waitOnce sync.Once
	waitErr  error
}

// Start spawns the tool and begins relaying its stdout and stderr lines,
// in arrival order, on a single channel. Cancelling ctx kills the process.
func (r *Runner) Start(ctx context.Context, args ...string) (*Process, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := r.command(ctx, args)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, &SpawnError{Bin: r.Bin, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, &SpawnError{Bin: r.Bin, Err: err}
	}

	logging.D(1, "Executing streaming command: %s", cmd.String())
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, &SpawnError{Bin: r.Bin, Err: err}
	}

	p := &Process{
		bin:    r.Bin,
		cmd:    cmd,
		ctx:    ctx,
		cancel: cancel,
		chunks: make(chan Chunk, 64),
	}

	p.readers.Add(2)
	go p.scan(stdout, Stdout)
	go p.scan(stderr, Stderr)
	go func() {
		p.readers.Wait()
		close(p.chunks)
	}()

	return p, nil
}

// Chunks returns the ordered output channel. It closes once both streams end.
func (p *Process) Chunks() <-chan Chunk {
	return p.chunks
}

// Kill terminates the process group. Safe to call more than once.
func (p *Process) Kill() {
	p.cancel()
}

// Wait blocks until the process exits. A non-zero exit returns *ToolError
// carrying the captured stderr.
func (p *Process) Wait() error {
	p.waitOnce.Do(func() {
		p.readers.Wait()
		if err := p.cmd.Wait(); err != nil {
			p.stderrMu.Lock()
			out := Output{Stderr: p.stderr.String()}
			p.stderrMu.Unlock()
			p.waitErr = newToolError(p.ctx, p.bin, err, out)
		}
		p.cancel()
	})
	return p.waitErr
}

// scan reads one stream line by line until EOF or cancellation.
func (p *Process) scan(r io.Reader, kind StreamKind) {
	defer p.readers.Done()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	sc.Split(scanLines)

	for sc.Scan() {
		text := sc.Text()
		if text == "" {
			continue
		}
		if kind == Stderr {
			p.captureStderr(text)
		}

		select {
		case p.chunks <- Chunk{Stream: kind, Text: text}:
		case <-p.ctx.Done():
			return
		}
	}

	if err := sc.Err(); err != nil {
		logging.D(1, "Stopped reading %s of %s: %v", kind, p.bin, err)
		io.Copy(io.Discard, r)
	}
}

func (p *Process) captureStderr(line string) {
	p.stderrMu.Lock()
	defer p.stderrMu.Unlock()
	if p.stderr.Len() < maxStderrBytes {
		p.stderr.WriteString(line)
		p.stderr.WriteByte('\n')
	}
}

// scanLines splits on \n or \r, since progress lines may be redrawn in place.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
