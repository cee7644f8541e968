// internal/editor/session_test.go
package editor

import (
	"fmt"
	"testing"

	"snapmark/internal/document"
)

// fakeCanvas records rendering-surface calls so tests can assert the
// engine's side effects without a webview.
type fakeCanvas struct {
	width   int
	height  int
	renders int
	resizes int
	capture string
	fail    bool
}

func (c *fakeCanvas) Size() (int, int) { return c.width, c.height }

func (c *fakeCanvas) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.resizes++
}

func (c *fakeCanvas) Render() { c.renders++ }

func (c *fakeCanvas) ToDataURL(format string, quality float64) (string, error) {
	if c.fail {
		return "", fmt.Errorf("capture failed")
	}
	if c.capture != "" {
		return c.capture, nil
	}
	return fmt.Sprintf("data:%s;base64,capture-%dx%d", format, c.width, c.height), nil
}

func newTestSession() (*Session, *fakeCanvas) {
	canvas := &fakeCanvas{width: 800, height: 600}
	s := NewSession(canvas, 800, 600, 0)
	return s, canvas
}

func arrowLayer(x float64) document.Layer {
	return document.Layer{
		Kind:  document.KindArrow,
		Arrow: &document.ArrowLayer{X1: x, Y1: 0, X2: x + 10, Y2: 10, Color: "#f00", Width: 2},
	}
}

func layerIDs(s *Session) []int {
	out := []int{}
	for _, l := range s.Document().Layers() {
		out = append(out, l.ID)
	}
	return out
}

func TestSession_AddLayerPushesOneFrame(t *testing.T) {
	s, canvas := newTestSession()

	s.SetBaseImage("base", 800, 600)
	if s.CanUndo() {
		t.Error("Setting the base image should leave nothing to undo")
	}

	id := s.AddLayer(arrowLayer(0))
	if id <= 0 {
		t.Errorf("Expected positive layer id, got %d", id)
	}
	if !s.CanUndo() {
		t.Error("AddLayer should push a history frame")
	}
	if !s.Dirty() {
		t.Error("AddLayer should mark the document dirty")
	}
	if canvas.renders == 0 {
		t.Error("AddLayer should re-render")
	}
}

func TestSession_RejectedMutationLeavesHistoryUntouched(t *testing.T) {
	s, _ := newTestSession()
	s.SetBaseImage("base", 800, 600)
	s.AddLayer(arrowLayer(0))

	before := layerIDs(s)

	if s.RemoveLayer(0) {
		t.Error("Removing the base layer should be rejected")
	}
	if s.MoveLayerToFront(0) || s.MoveLayerToBack(1) || s.MoveLayerForward(1) || s.MoveLayerBackward(1) {
		t.Error("Base-layer and at-extreme moves should be rejected")
	}
	if s.RemoveLayers([]int{0, -1, 99}) {
		t.Error("RemoveLayers with only invalid indices should be rejected")
	}

	after := layerIDs(s)
	if len(after) != len(before) {
		t.Fatalf("Rejected mutations changed the document: %v -> %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("Rejected mutations changed the document: %v -> %v", before, after)
		}
	}

	// One frame from AddLayer; the rejections must not have added more.
	s.Undo()
	if s.CanUndo() {
		t.Error("Expected exactly one history frame")
	}
}

func TestSession_UndoRedoRoundTrip(t *testing.T) {
	s, _ := newTestSession()
	s.SetBaseImage("base", 800, 600)

	const n = 5
	for i := 0; i < n; i++ {
		s.AddLayer(arrowLayer(float64(i * 10)))
	}
	want := layerIDs(s)
	wantW, wantH := s.Document().Size()

	for i := 0; i < n; i++ {
		if !s.Undo() {
			t.Fatalf("Undo %d failed", i)
		}
	}
	if got := s.Document().Len(); got != 1 {
		t.Fatalf("Expected base layer only after undos, got %d layers", got)
	}

	for i := 0; i < n; i++ {
		if !s.Redo() {
			t.Fatalf("Redo %d failed", i)
		}
	}

	got := layerIDs(s)
	if len(got) != len(want) {
		t.Fatalf("Round trip lost layers: expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Round trip reordered layers: expected %v, got %v", want, got)
		}
	}
	w, h := s.Document().Size()
	if w != wantW || h != wantH {
		t.Errorf("Round trip changed dimensions: expected %dx%d, got %dx%d", wantW, wantH, w, h)
	}
}

func TestSession_NewEditDiscardsRedo(t *testing.T) {
	s, _ := newTestSession()
	s.SetBaseImage("base", 800, 600)
	s.AddLayer(arrowLayer(0))
	s.AddLayer(arrowLayer(10))

	s.Undo()
	if !s.CanRedo() {
		t.Fatal("Undo should populate redo")
	}

	s.AddLayer(arrowLayer(20))
	if s.CanRedo() {
		t.Error("A fresh edit should discard the redo branch")
	}
}

func TestSession_UndoRestoresDimensionsAndResizesCanvas(t *testing.T) {
	s, canvas := newTestSession()
	s.SetBaseImage("base", 800, 600)

	if !s.Resize(1024, 768) {
		t.Fatal("Resize should succeed")
	}
	if canvas.width != 1024 || canvas.height != 768 {
		t.Fatalf("Canvas not resized: %dx%d", canvas.width, canvas.height)
	}
	if s.Resize(1024, 768) {
		t.Error("Resize to the current size should be a no-op")
	}

	resizesBefore := canvas.resizes
	s.Undo()
	if canvas.resizes == resizesBefore {
		t.Error("Undo across a dimension change should resize the canvas")
	}
	w, h := s.Document().Size()
	if w != 800 || h != 600 {
		t.Errorf("Expected 800x600 after undo, got %dx%d", w, h)
	}
}

func TestSession_CombineImageIsOneUndoStep(t *testing.T) {
	s, canvas := newTestSession()
	s.SetBaseImage("base", 800, 600)
	s.AddLayer(arrowLayer(50))

	if !s.CombineImage("data:image/png;base64,inc", 400, 200, document.EdgeTop) {
		t.Fatal("CombineImage should succeed")
	}

	w, h := s.Document().Size()
	if w != 800 || h != 800 {
		t.Errorf("Expected 800x800 canvas, got %dx%d", w, h)
	}
	if canvas.width != 800 || canvas.height != 800 {
		t.Errorf("Canvas not resized to %dx%d", canvas.width, canvas.height)
	}

	// Existing annotation shifted down to make room.
	arrow := s.Document().Layers()[1].Arrow
	if arrow.Y1 != 200 {
		t.Errorf("Expected existing layer shifted by 200, got Y1=%v", arrow.Y1)
	}
	// Incoming image placed at the top.
	combined := s.Document().Layers()[2].Image
	if combined.X != 0 || combined.Y != 0 {
		t.Errorf("Expected incoming image at origin, got (%v,%v)", combined.X, combined.Y)
	}

	// One undo reverts the whole combine: size, offset, and new layer.
	s.Undo()
	w, h = s.Document().Size()
	if w != 800 || h != 600 {
		t.Errorf("Expected 800x600 after undo, got %dx%d", w, h)
	}
	if s.Document().Len() != 2 {
		t.Errorf("Expected 2 layers after undo, got %d", s.Document().Len())
	}
	if got := s.Document().Layers()[1].Arrow.Y1; got != 0 {
		t.Errorf("Expected annotation back at Y1=0, got %v", got)
	}

	if s.CombineImage("", 10, 10, document.EdgeTop) {
		t.Error("CombineImage without a decoded source should be rejected")
	}
}

func TestSession_CaptureSnapshotAppendsToTimeline(t *testing.T) {
	s, canvas := newTestSession()
	s.SetBaseImage("base", 800, 600)

	snap, err := s.CaptureSnapshot("First pass", "before color tweaks")
	if err != nil {
		t.Fatalf("CaptureSnapshot failed: %v", err)
	}
	if snap.Width != 800 || snap.Height != 600 {
		t.Errorf("Expected 800x600 capture, got %dx%d", snap.Width, snap.Height)
	}
	if s.Timeline().Len() != 1 {
		t.Errorf("Expected 1 snapshot, got %d", s.Timeline().Len())
	}

	canvas.fail = true
	if _, err := s.CaptureSnapshot("broken", ""); err == nil {
		t.Error("Expected error when the canvas capture fails")
	}
	if s.Timeline().Len() != 1 {
		t.Error("Failed capture must not append to the timeline")
	}
}

func TestSession_LoadResetsEverything(t *testing.T) {
	s, _ := newTestSession()
	s.SetBaseImage("base", 800, 600)
	s.AddLayer(arrowLayer(0))
	s.CaptureSnapshot("old", "")
	s.HandleUndo() // leave some history and cursor state behind

	layers := []document.Layer{
		{ID: 3, Kind: document.KindImage, Image: &document.ImageLayer{Width: 640, Height: 480, Source: "loaded"}},
	}
	s.Load(layers, 640, 480, nil)

	if s.Dirty() {
		t.Error("Freshly loaded document should not be dirty")
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("Load should clear history")
	}
	if s.SnapshotIndex() != -1 {
		t.Errorf("Load should reset the cursor, got %d", s.SnapshotIndex())
	}
	if s.Timeline().Len() != 0 {
		t.Errorf("Load should replace the timeline, got %d snapshots", s.Timeline().Len())
	}
	if s.UndoEnabled() {
		t.Error("Nothing should be undoable right after load")
	}
}
