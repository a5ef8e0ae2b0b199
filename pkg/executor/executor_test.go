package executor

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestExecute(t *testing.T) {
	requireBinary(t, "echo")
	out, err := New().Execute(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("Execute() = %q, want hello", out)
	}
}

func TestExecuteFailureIncludesStderr(t *testing.T) {
	requireBinary(t, "sh")
	_, err := New().Execute(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not include stderr", err)
	}
}

func TestStartStreamsStdout(t *testing.T) {
	requireBinary(t, "sh")
	p, err := New().Start(context.Background(), "sh", "-c", "printf abc")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	data, err := io.ReadAll(p.Stdout())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("stdout = %q, want abc", data)
	}

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}
	if err := p.Stop(); err != nil {
		t.Errorf("Stop() after exit error = %v", err)
	}
}

func TestStopInterruptsLongRunningProcess(t *testing.T) {
	requireBinary(t, "sleep")
	p, err := New().Start(context.Background(), "sleep", "30")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	go io.Copy(io.Discard, p.Stdout())

	if err := p.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	select {
	case <-p.Done():
	default:
		t.Error("Done() not closed after Stop()")
	}
}
