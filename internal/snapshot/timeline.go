// internal/snapshot/timeline.go
package snapshot

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is a user-captured, flattened checkpoint of the canvas. It is
// independent of the undo/redo stacks and is persisted verbatim with the
// document. Once appended it is never mutated.
type Snapshot struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"` // rendered capture as a data URL
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Title     string    `json:"title,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// New builds a snapshot from a rendered capture.
func New(image string, width, height int, title, summary string) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Image:     image,
		Width:     width,
		Height:    height,
		Title:     title,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
}

// Timeline is the ordered list of snapshots for one document. It only grows
// during a session, except for explicit user deletion; the navigation
// controller only reads it.
type Timeline struct {
	snapshots []Snapshot
}

// NewTimeline creates a timeline, seeded with persisted snapshots when a
// document is loaded.
func NewTimeline(snapshots []Snapshot) *Timeline {
	t := &Timeline{}
	t.snapshots = append(t.snapshots, snapshots...)
	return t
}

// Len returns the number of snapshots.
func (t *Timeline) Len() int { return len(t.snapshots) }

// At returns the snapshot at index i.
func (t *Timeline) At(i int) (Snapshot, bool) {
	if i < 0 || i >= len(t.snapshots) {
		return Snapshot{}, false
	}
	return t.snapshots[i], true
}

// Append adds a snapshot to the end of the timeline.
func (t *Timeline) Append(s Snapshot) {
	t.snapshots = append(t.snapshots, s)
}

// Remove deletes the snapshot at index i (user delete action).
func (t *Timeline) Remove(i int) bool {
	if i < 0 || i >= len(t.snapshots) {
		return false
	}
	t.snapshots = append(t.snapshots[:i:i], t.snapshots[i+1:]...)
	return true
}

// All returns a copy of the timeline for persistence.
func (t *Timeline) All() []Snapshot {
	out := make([]Snapshot, len(t.snapshots))
	copy(out, t.snapshots)
	return out
}
