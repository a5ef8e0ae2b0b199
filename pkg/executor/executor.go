package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// stopGrace is how long Stop waits after an interrupt before killing.
const stopGrace = 3 * time.Second

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Include stderr in error message for debugging
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderrStr)
		}
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}

	return stdout.String(), nil
}

// Start launches a long-running command and exposes its stdout as a stream.
func (e *implExecutor) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = stopGrace

	// exec copies into the pipe writer; Wait returns only after the copy
	// finished, so closing the writer then yields a clean EOF to readers.
	pr, pw := io.Pipe()
	cmd.Stdout = pw

	p := &implProcess{cmd: cmd, stdout: pr, done: make(chan struct{})}
	cmd.Stderr = &p.stderr

	if err := cmd.Start(); err != nil {
		pw.Close()
		return nil, fmt.Errorf("command '%s' failed to start: %w", name, err)
	}

	go func() {
		p.waitErr = cmd.Wait()
		pw.Close()
		close(p.done)
	}()

	return p, nil
}

type implProcess struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr syncBuffer

	done     chan struct{}
	waitErr  error
	stopOnce sync.Once
	stopErr  error
}

func (p *implProcess) Stdout() io.Reader     { return p.stdout }
func (p *implProcess) Done() <-chan struct{} { return p.done }
func (p *implProcess) Stderr() string        { return strings.TrimSpace(p.stderr.String()) }

func (p *implProcess) Stop() error {
	p.stopOnce.Do(func() {
		select {
		case <-p.done:
		default:
			_ = p.cmd.Process.Signal(os.Interrupt)
			select {
			case <-p.done:
			case <-time.After(stopGrace):
				_ = p.cmd.Process.Kill()
				<-p.done
			}
		}

		// An interrupted process exits non-zero; that is the expected outcome.
		var exitErr *exec.ExitError
		if p.waitErr != nil && !errors.As(p.waitErr, &exitErr) {
			p.stopErr = p.waitErr
		}
	})
	return p.stopErr
}

// syncBuffer guards a bytes.Buffer written by exec and read by callers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
