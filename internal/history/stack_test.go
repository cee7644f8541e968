// internal/history/stack_test.go
package history

import (
	"testing"

	"snapmark/internal/document"
)

func frameWith(width int) Frame {
	return Frame{
		Layers: []document.Layer{{ID: 1, Kind: document.KindText, Text: &document.TextLayer{Text: "x"}}},
		Width:  width,
		Height: 100,
	}
}

func TestStack_UndoRedoRoundTrip(t *testing.T) {
	s := NewStack(0)

	// Three mutations, each saving the pre-mutation state.
	for i := 1; i <= 3; i++ {
		s.Save(frameWith(i * 100))
	}

	current := frameWith(400)
	for i := 3; i >= 1; i-- {
		frame, ok := s.Undo(current)
		if !ok {
			t.Fatalf("Undo %d failed", i)
		}
		if frame.Width != i*100 {
			t.Errorf("Undo %d: expected width %d, got %d", i, i*100, frame.Width)
		}
		current = frame
	}

	if s.CanUndo() {
		t.Error("Undo stack should be exhausted")
	}

	for i := 2; i <= 4; i++ {
		frame, ok := s.Redo(current)
		if !ok {
			t.Fatalf("Redo to width %d failed", i*100)
		}
		if frame.Width != i*100 {
			t.Errorf("Redo: expected width %d, got %d", i*100, frame.Width)
		}
		current = frame
	}

	if s.CanRedo() {
		t.Error("Redo stack should be exhausted")
	}
	if current.Width != 400 {
		t.Errorf("Round trip should restore width 400, got %d", current.Width)
	}
}

func TestStack_EmptyStacksAreNoOps(t *testing.T) {
	s := NewStack(0)

	if _, ok := s.Undo(frameWith(1)); ok {
		t.Error("Undo on empty stack should report false")
	}
	if _, ok := s.Redo(frameWith(1)); ok {
		t.Error("Redo on empty stack should report false")
	}
	// The failed calls must not have pushed anything either.
	if s.CanUndo() || s.CanRedo() {
		t.Error("Failed calls must leave both stacks empty")
	}
}

func TestStack_SaveDiscardsRedoBranch(t *testing.T) {
	s := NewStack(0)
	s.Save(frameWith(100))
	s.Save(frameWith(200))

	if _, ok := s.Undo(frameWith(300)); !ok {
		t.Fatal("Undo failed")
	}
	if !s.CanRedo() {
		t.Fatal("Undo should populate redo")
	}

	// A fresh edit discards the redo branch.
	s.Save(frameWith(250))
	if s.CanRedo() {
		t.Error("Save should clear the redo stack")
	}
}

func TestStack_MaxDepthEvictsOldest(t *testing.T) {
	s := NewStack(2)
	s.Save(frameWith(100))
	s.Save(frameWith(200))
	s.Save(frameWith(300))

	frame, _ := s.Undo(frameWith(400))
	if frame.Width != 300 {
		t.Errorf("Expected width 300, got %d", frame.Width)
	}
	frame, _ = s.Undo(frame)
	if frame.Width != 200 {
		t.Errorf("Expected width 200, got %d", frame.Width)
	}
	if s.CanUndo() {
		t.Error("Oldest frame should have been evicted")
	}
}

func TestStack_Clear(t *testing.T) {
	s := NewStack(0)
	s.Save(frameWith(100))
	s.Undo(frameWith(200))

	s.Clear()

	if s.CanUndo() || s.CanRedo() {
		t.Error("Clear should wipe both stacks")
	}
}
