// internal/editor/navigation.go
package editor

import "snapmark/internal/document"

// Hybrid undo/redo navigation. One pair of Undo/Redo actions traverses
// first the live edit history, then the persisted snapshot timeline, then
// bridges back to the live state, as one continuous backward/forward
// gesture.
//
// Three states, expressed by the cursor plus history occupancy:
//
//	live      snapshotIndex == -1; undo/redo act on the history stack
//	viewing   snapshotIndex in [0, len-1]; the document holds one
//	          snapshot flattened to a single base layer, history empty
//	bridged   savedLive != nil; holds the live state from the moment the
//	          user first stepped out of live mode, so redo can return
//
// A plain history undo/redo drops back to live mode and discards any stale
// bridge state, so a "return to loaded state" redo never outlives the
// navigation gesture that created it.

// HandleUndo routes the user's Undo action. Returns whether any state
// changed; callers gate the UI with UndoEnabled but the engine tolerates
// being called regardless.
func (s *Session) HandleUndo() bool {
	if s.history.CanUndo() {
		s.Undo()
		s.snapshotIndex = -1
		s.savedLive = nil
		return true
	}
	if s.timeline.Len() == 0 {
		return false
	}
	switch {
	case s.snapshotIndex == -1:
		// First step out of live mode: save the bridge, land on the
		// newest snapshot.
		frame := s.frame()
		s.savedLive = &frame
		return s.restoreSnapshot(s.timeline.Len() - 1)
	case s.snapshotIndex > 0:
		return s.restoreSnapshot(s.snapshotIndex - 1)
	default:
		// Already at the oldest snapshot.
		return false
	}
}

// HandleRedo routes the user's Redo action, the forward leg of the same
// gesture.
func (s *Session) HandleRedo() bool {
	if s.history.CanRedo() {
		s.Redo()
		s.snapshotIndex = -1
		s.savedLive = nil
		return true
	}
	if s.snapshotIndex < 0 {
		return false
	}
	if s.snapshotIndex < s.timeline.Len()-1 {
		return s.restoreSnapshot(s.snapshotIndex + 1)
	}
	if s.savedLive != nil {
		s.restoreLive()
		return true
	}
	return false
}

// restoreSnapshot loads a snapshot's flattened content as the sole base
// layer: wipes both history stacks, resizes the canvas to the snapshot
// image, inserts the image with no history push (there is no history left
// to pair with), and points the cursor at it.
func (s *Session) restoreSnapshot(index int) bool {
	snap, ok := s.timeline.At(index)
	if !ok {
		return false
	}
	s.clear()
	s.doc.SetSize(snap.Width, snap.Height)
	s.canvas.SetSize(snap.Width, snap.Height)
	s.doc.Append(document.NewImageLayer(0, 0, float64(snap.Width), float64(snap.Height), snap.Image))
	s.snapshotIndex = index
	s.dirty = true
	s.canvas.Render()
	return true
}

// restoreLive steps forward past the newest snapshot, back to the live
// state captured when the user first entered the timeline. Consumes the
// bridge.
func (s *Session) restoreLive() {
	frame := *s.savedLive
	s.clear()
	s.applyFrame(frame)
	s.snapshotIndex = -1
	s.savedLive = nil
}

// UndoEnabled reports whether a HandleUndo call would change state.
// Derived, never stored.
func (s *Session) UndoEnabled() bool {
	if s.history.CanUndo() {
		return true
	}
	return s.timeline.Len() > 0 && (s.snapshotIndex == -1 || s.snapshotIndex > 0)
}

// RedoEnabled reports whether a HandleRedo call would change state.
func (s *Session) RedoEnabled() bool {
	if s.history.CanRedo() {
		return true
	}
	if s.snapshotIndex >= 0 && s.snapshotIndex < s.timeline.Len()-1 {
		return true
	}
	return s.snapshotIndex >= 0 && s.snapshotIndex == s.timeline.Len()-1 && s.savedLive != nil
}

// SnapshotIndex returns the cursor position: -1 in live mode, otherwise the
// index of the snapshot currently on the canvas.
func (s *Session) SnapshotIndex() int { return s.snapshotIndex }
