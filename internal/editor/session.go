// internal/editor/session.go
package editor

import (
	"fmt"

	"snapmark/internal/document"
	"snapmark/internal/history"
	"snapmark/internal/snapshot"
)

// Session owns everything that lives for exactly one open document: the
// layer stack, the undo/redo history, the snapshot timeline, and the
// navigation cursor. Loading or creating a document discards and
// reconstructs all of them.
//
// The session is single-writer by contract: every mutation runs
// synchronously to completion inside one UI event, and the app layer
// serializes calls. There is no locking here.
type Session struct {
	doc      *document.Document
	history  *history.Stack
	timeline *snapshot.Timeline
	canvas   Canvas

	// navigation cursor: -1 means live edit mode. savedLive bridges the
	// live state that existed when the user first stepped into the
	// snapshot timeline, so redo can return to it.
	snapshotIndex int
	savedLive     *history.Frame

	dirty bool
}

// NewSession creates a session over an empty document with the given
// default canvas size.
func NewSession(canvas Canvas, defaultWidth, defaultHeight, maxHistory int) *Session {
	return &Session{
		doc:           document.New(defaultWidth, defaultHeight),
		history:       history.NewStack(maxHistory),
		timeline:      snapshot.NewTimeline(nil),
		canvas:        canvas,
		snapshotIndex: -1,
	}
}

// Document returns the session's document.
func (s *Session) Document() *document.Document { return s.doc }

// Timeline returns the session's snapshot timeline.
func (s *Session) Timeline() *snapshot.Timeline { return s.timeline }

// Dirty reports whether the document has unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the dirty flag after a successful save.
func (s *Session) MarkSaved() { s.dirty = false }

// MarkDirty flags unsaved changes that bypass the history, such as
// front-matter edits owned by the frontend.
func (s *Session) MarkDirty() { s.dirty = true }

// frame captures the current document state as a history frame.
func (s *Session) frame() history.Frame {
	layers, w, h := s.doc.Snapshot()
	return history.Frame{Layers: layers, Width: w, Height: h}
}

// mutate is the single history-coupled mutation path. It captures the
// pre-mutation frame, applies op, and saves the frame only when op reports
// a change. Every structural mutator funnels through here, so exactly one
// frame is recorded per successful mutation and a rejected mutation leaves
// history untouched.
func (s *Session) mutate(op func() bool) bool {
	frame := s.frame()
	if !op() {
		return false
	}
	s.history.Save(frame)
	s.dirty = true
	s.canvas.Render()
	return true
}

// AddLayer appends a fully-formed layer produced by a drawing tool and
// returns its assigned id.
func (s *Session) AddLayer(layer document.Layer) int {
	var id int
	s.mutate(func() bool {
		id = s.doc.Append(layer)
		return true
	})
	return id
}

// ReplaceLayer swaps the layer at index i for an edited replacement,
// keeping its id. The base layer may be replaced (cropping the base image
// is an edit, not a reorder).
func (s *Session) ReplaceLayer(i int, layer document.Layer) bool {
	return s.mutate(func() bool {
		layers := s.doc.Layers()
		if i < 0 || i >= len(layers) {
			return false
		}
		layer.ID = layers[i].ID
		replaced, w, h := s.doc.Snapshot()
		replaced[i] = layer
		s.doc.Restore(replaced, w, h)
		return true
	})
}

// RemoveLayer deletes the layer at index i. The base layer is protected.
func (s *Session) RemoveLayer(i int) bool {
	return s.mutate(func() bool { return s.doc.RemoveAt(i) })
}

// RemoveLayers deletes multiple layers in one undo step.
func (s *Session) RemoveLayers(indices []int) bool {
	return s.mutate(func() bool { return s.doc.RemoveAll(indices) })
}

// MoveLayerToFront moves the layer at index i to the top of the stack.
func (s *Session) MoveLayerToFront(i int) bool {
	return s.mutate(func() bool { return s.doc.MoveToFront(i) })
}

// MoveLayerToBack moves the layer at index i to just above the base layer.
func (s *Session) MoveLayerToBack(i int) bool {
	return s.mutate(func() bool { return s.doc.MoveToBack(i) })
}

// MoveLayerForward swaps the layer at index i with the one above it.
func (s *Session) MoveLayerForward(i int) bool {
	return s.mutate(func() bool { return s.doc.MoveForward(i) })
}

// MoveLayerBackward swaps the layer at index i with the one below it.
func (s *Session) MoveLayerBackward(i int) bool {
	return s.mutate(func() bool { return s.doc.MoveBackward(i) })
}

// Resize changes the canvas dimensions in one undo step.
func (s *Session) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	return s.mutate(func() bool {
		w, h := s.doc.Size()
		if w == width && h == height {
			return false
		}
		s.doc.SetSize(width, height)
		s.canvas.SetSize(width, height)
		return true
	})
}

// CombineImage expands the canvas at the given edge to fit an already
// decoded image and places it there as a new layer, all in one undo step.
// The image dimensions come from the decode callback on the frontend; the
// document is untouched if the decode never resolved.
func (s *Session) CombineImage(source string, width, height int, edge document.Edge) bool {
	if width <= 0 || height <= 0 || source == "" {
		return false
	}
	return s.mutate(func() bool {
		origin := s.doc.ExpandForCombine(width, height, edge)
		s.doc.Append(document.NewImageLayer(origin.X, origin.Y, float64(width), float64(height), source))
		w, h := s.doc.Size()
		s.canvas.SetSize(w, h)
		return true
	})
}

// SetBaseImage starts a fresh document around a decoded image: clears the
// layer stack and both history stacks, sizes the canvas to the image, and
// inserts it as the sole base layer with nothing to undo to.
func (s *Session) SetBaseImage(source string, width, height int) bool {
	if width <= 0 || height <= 0 || source == "" {
		return false
	}
	s.clear()
	s.doc.SetSize(width, height)
	s.canvas.SetSize(width, height)
	s.doc.Append(document.NewImageLayer(0, 0, float64(width), float64(height), source))
	s.dirty = true
	s.canvas.Render()
	return true
}

// clear empties the document and wipes both history stacks. This is the
// only operation that discards history.
func (s *Session) clear() {
	s.doc.Clear()
	s.history.Clear()
}

// CaptureSnapshot renders the canvas and appends the capture to the
// snapshot timeline. Returns the new snapshot.
func (s *Session) CaptureSnapshot(title, summary string) (snapshot.Snapshot, error) {
	image, err := s.canvas.ToDataURL("image/png", 1)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("capture canvas: %w", err)
	}
	w, h := s.doc.Size()
	snap := snapshot.New(image, w, h, title, summary)
	s.timeline.Append(snap)
	s.dirty = true
	return snap, nil
}

// DeleteSnapshot removes a snapshot from the timeline. The cursor keeps
// tracking the content on the canvas: deleting strictly before the viewed
// position shifts the cursor down with the timeline, and deleting the
// viewed snapshot itself drops back to live mode.
func (s *Session) DeleteSnapshot(i int) bool {
	if !s.timeline.Remove(i) {
		return false
	}
	switch {
	case s.snapshotIndex == i:
		s.snapshotIndex = -1
	case s.snapshotIndex > i:
		s.snapshotIndex--
	}
	s.dirty = true
	return true
}

// Load replaces the whole session state with persisted content. The
// navigation cursor resets unconditionally.
func (s *Session) Load(layers []document.Layer, width, height int, snapshots []snapshot.Snapshot) {
	s.doc.Load(layers, width, height)
	s.history.Clear()
	s.timeline = snapshot.NewTimeline(snapshots)
	s.snapshotIndex = -1
	s.savedLive = nil
	s.dirty = false
	s.canvas.SetSize(width, height)
	s.canvas.Render()
}

// Reset returns the session to an empty document, as for File > New.
func (s *Session) Reset() {
	s.clear()
	s.timeline = snapshot.NewTimeline(nil)
	s.snapshotIndex = -1
	s.savedLive = nil
	s.dirty = false
	w, h := s.doc.Size()
	s.canvas.SetSize(w, h)
	s.canvas.Render()
}

// applyFrame restores document state from a history frame, resizing the
// canvas first when the dimensions changed.
func (s *Session) applyFrame(frame history.Frame) {
	w, h := s.doc.Size()
	if frame.Width != w || frame.Height != h {
		s.canvas.SetSize(frame.Width, frame.Height)
	}
	s.doc.Restore(frame.Layers, frame.Width, frame.Height)
	s.dirty = true
	s.canvas.Render()
}

// Undo performs a plain history-stack undo, swapping the current state onto
// the redo stack. Silent no-op when there is nothing to undo.
func (s *Session) Undo() bool {
	frame, ok := s.history.Undo(s.frame())
	if !ok {
		return false
	}
	s.applyFrame(frame)
	return true
}

// Redo performs a plain history-stack redo. Silent no-op when empty.
func (s *Session) Redo() bool {
	frame, ok := s.history.Redo(s.frame())
	if !ok {
		return false
	}
	s.applyFrame(frame)
	return true
}

// CanUndo reports whether the history undo stack is non-empty.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether the history redo stack is non-empty.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }
