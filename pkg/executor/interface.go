package executor

import (
	"context"
	"io"
)

// Executor defines the interface for executing external commands
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// Process is a running command whose stdout is consumed as a stream.
type Process interface {
	Stdout() io.Reader
	// Done is closed once the process has exited.
	Done() <-chan struct{}
	// Stop asks the process to exit gracefully, then waits for it.
	Stop() error
	// Stderr returns what the process wrote to stderr so far.
	Stderr() string
}
