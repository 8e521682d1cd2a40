package main

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatchFileRerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "live.plot", "WALK 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() error {
			calls <- struct{}{}
			return nil
		})
	}()

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not run fn at start")
	}

	// Other files in the directory are ignored.
	writeFile(t, dir, "other.plot", "WALK 2\n")
	if err := os.WriteFile(path, []byte("WALK 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not rerun after the file changed")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchFile returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not stop after cancel")
	}
}

func TestRunWatchNeedsFile(t *testing.T) {
	err := dispatch([]string{"run", "-watch", "-i", "-"}, nil, nil)
	if err == nil {
		t.Fatal("expected error for -watch on stdin")
	}
}
