package main

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestShutdownWaitsForWatcher(t *testing.T) {
	watcherDone := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- shutdown(context.Background(), &http.Server{}, watcherDone)
	}()

	select {
	case err := <-result:
		t.Fatalf("shutdown() returned %v before the watcher finished", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(watcherDone)
	select {
	case err := <-result:
		if err != nil {
			t.Errorf("shutdown() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("shutdown() did not return after the watcher finished")
	}
}

func TestShutdownGivesUpOnDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := shutdown(ctx, &http.Server{}, make(chan struct{}))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("shutdown() error = %v, want context.DeadlineExceeded", err)
	}
}
