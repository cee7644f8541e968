// internal/history/stack.go
package history

import "snapmark/internal/document"

// Frame is a full copy of the document state for one undo step: a shallow
// copy of the layer slice plus the canvas dimensions. The id counter is
// deliberately excluded so restored frames never reuse layer ids.
type Frame struct {
	Layers []document.Layer
	Width  int
	Height int
}

// Stack holds the undo and redo frame stacks for one editing session.
// Every successful structural mutation saves exactly one frame; a new edit
// discards the whole redo branch.
type Stack struct {
	undo     []Frame
	redo     []Frame
	maxDepth int
}

// NewStack creates a history stack. maxDepth caps the undo depth, evicting
// the oldest frame when exceeded; zero means unlimited.
func NewStack(maxDepth int) *Stack {
	return &Stack{maxDepth: maxDepth}
}

// Save pushes the pre-mutation frame onto the undo stack and clears redo.
func (s *Stack) Save(frame Frame) {
	if s.maxDepth > 0 && len(s.undo) >= s.maxDepth {
		s.undo = s.undo[1:]
	}
	s.undo = append(s.undo, frame)
	s.redo = s.redo[:0]
}

// Undo pops the most recent undo frame, pushing the caller's current state
// onto the redo stack. Returns false, leaving both stacks untouched, when
// there is nothing to undo.
func (s *Stack) Undo(current Frame) (Frame, bool) {
	if len(s.undo) == 0 {
		return Frame{}, false
	}
	frame := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, current)
	return frame, true
}

// Redo pops the most recent redo frame, pushing the caller's current state
// onto the undo stack. Returns false when there is nothing to redo.
func (s *Stack) Redo(current Frame) (Frame, bool) {
	if len(s.redo) == 0 {
		return Frame{}, false
	}
	frame := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, current)
	return frame, true
}

// CanUndo reports whether the undo stack is non-empty.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// Clear discards both stacks.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
}
