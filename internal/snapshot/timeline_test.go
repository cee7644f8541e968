// internal/snapshot/timeline_test.go
package snapshot

import "testing"

func TestTimeline_AppendAndAt(t *testing.T) {
	tl := NewTimeline(nil)

	if tl.Len() != 0 {
		t.Fatalf("Expected empty timeline, got %d", tl.Len())
	}
	if _, ok := tl.At(0); ok {
		t.Error("At on empty timeline should report false")
	}

	first := New("data:image/png;base64,a", 800, 600, "Before edits", "")
	second := New("data:image/png;base64,b", 800, 600, "After crop", "tighter framing")
	tl.Append(first)
	tl.Append(second)

	if tl.Len() != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", tl.Len())
	}
	got, ok := tl.At(1)
	if !ok || got.ID != second.ID {
		t.Errorf("At(1): expected %s, got %s (ok=%v)", second.ID, got.ID, ok)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Snapshot should carry a creation timestamp")
	}
	if first.ID == second.ID {
		t.Error("Snapshots should get distinct ids")
	}
}

func TestTimeline_Remove(t *testing.T) {
	tl := NewTimeline(nil)
	a := New("a", 10, 10, "", "")
	b := New("b", 10, 10, "", "")
	tl.Append(a)
	tl.Append(b)

	if tl.Remove(5) || tl.Remove(-1) {
		t.Error("Remove out of range should report false")
	}
	if !tl.Remove(0) {
		t.Fatal("Remove(0) should succeed")
	}
	got, _ := tl.At(0)
	if got.ID != b.ID {
		t.Errorf("Expected remaining snapshot %s, got %s", b.ID, got.ID)
	}
}

func TestTimeline_SeededAndAllAreIsolated(t *testing.T) {
	seed := []Snapshot{New("a", 1, 1, "", ""), New("b", 1, 1, "", "")}
	tl := NewTimeline(seed)

	all := tl.All()
	if len(all) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(all))
	}

	// Mutating the returned copy must not affect the timeline.
	all[0].Title = "changed"
	got, _ := tl.At(0)
	if got.Title == "changed" {
		t.Error("All should return an isolated copy")
	}
}
