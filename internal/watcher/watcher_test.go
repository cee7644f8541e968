// internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *eventRecorder) waitFor(t *testing.T, n int, timeout time.Duration) []Event {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		evs := r.snapshot()
		if len(evs) >= n {
			return evs
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", n, len(r.snapshot()))
	return nil
}

func TestWatcher_DocumentCreateDelivered(t *testing.T) {
	dir := t.TempDir()
	rec := &eventRecorder{}

	w, err := New(dir, 50*time.Millisecond, rec.record)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	path := filepath.Join(dir, "shot.ssce")
	if err := os.WriteFile(path, []byte(`{"version":1}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	evs := rec.waitFor(t, 1, 2*time.Second)
	if evs[0].Path != path {
		t.Errorf("event path = %q, want %q", evs[0].Path, path)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &eventRecorder{}

	w, err := New(dir, 30*time.Millisecond, rec.record)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if evs := rec.snapshot(); len(evs) != 0 {
		t.Errorf("expected no events for non-document file, got %v", evs)
	}
}

func TestWatcher_DebouncesWriteBursts(t *testing.T) {
	dir := t.TempDir()
	rec := &eventRecorder{}

	w, err := New(dir, 100*time.Millisecond, rec.record)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	path := filepath.Join(dir, "burst.ssce")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec.waitFor(t, 1, 2*time.Second)
	time.Sleep(300 * time.Millisecond)

	if evs := rec.snapshot(); len(evs) != 1 {
		t.Errorf("expected burst to coalesce into 1 event, got %d", len(evs))
	}
}

func TestWatcher_StartAfterCloseFails(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, time.Millisecond, func(Event) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Start(); err == nil {
		t.Error("Start after Close should fail")
	}
}

func TestWatcher_DoubleCloseIsSafe(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, time.Millisecond, func(Event) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
