// internal/document/document_test.go
package document

import "testing"

func buildDocument(t *testing.T, annotations int) *Document {
	t.Helper()
	doc := New(800, 600)
	doc.Append(NewImageLayer(0, 0, 800, 600, "data:image/png;base64,base"))
	for i := 0; i < annotations; i++ {
		doc.Append(Layer{
			Kind:  KindArrow,
			Arrow: &ArrowLayer{X1: float64(i), Y1: 0, X2: float64(i) + 10, Y2: 10, Color: "#f00", Width: 2},
		})
	}
	return doc
}

func TestDocument_AppendAssignsMonotonicIDs(t *testing.T) {
	doc := buildDocument(t, 3)

	last := 0
	for _, layer := range doc.Layers() {
		if layer.ID <= last {
			t.Errorf("Expected strictly increasing ids, got %d after %d", layer.ID, last)
		}
		last = layer.ID
	}
}

func TestDocument_RemoveAtProtectsBaseLayer(t *testing.T) {
	doc := buildDocument(t, 2)

	for _, i := range []int{-1, 0, 3, 10} {
		if doc.RemoveAt(i) {
			t.Errorf("RemoveAt(%d) should be rejected", i)
		}
	}
	if doc.Len() != 3 {
		t.Errorf("Expected 3 layers after rejected removals, got %d", doc.Len())
	}

	if !doc.RemoveAt(1) {
		t.Fatal("RemoveAt(1) should succeed")
	}
	if doc.Len() != 2 {
		t.Errorf("Expected 2 layers, got %d", doc.Len())
	}
}

func TestDocument_RemoveAllDeletesHighestFirst(t *testing.T) {
	doc := buildDocument(t, 4)
	ids := []int{}
	for _, l := range doc.Layers() {
		ids = append(ids, l.ID)
	}

	// Indices given out of order and with a duplicate and the base layer.
	if !doc.RemoveAll([]int{1, 3, 3, 0}) {
		t.Fatal("RemoveAll should report a removal")
	}
	if doc.Len() != 3 {
		t.Fatalf("Expected 3 layers, got %d", doc.Len())
	}
	want := []int{ids[0], ids[2], ids[4]}
	for i, l := range doc.Layers() {
		if l.ID != want[i] {
			t.Errorf("Layer %d: expected id %d, got %d", i, want[i], l.ID)
		}
	}

	if doc.RemoveAll([]int{0, -2, 99}) {
		t.Error("RemoveAll with only invalid indices should report no removal")
	}
}

func TestDocument_MoveRejectsBaseAndExtremes(t *testing.T) {
	doc := buildDocument(t, 3) // base + 3, indices 0..3

	cases := []struct {
		name string
		op   func(int) bool
		idx  int
	}{
		{"MoveToFront base", doc.MoveToFront, 0},
		{"MoveToFront already front", doc.MoveToFront, 3},
		{"MoveForward base", doc.MoveForward, 0},
		{"MoveForward already front", doc.MoveForward, 3},
		{"MoveToBack base", doc.MoveToBack, 0},
		{"MoveToBack already back", doc.MoveToBack, 1},
		{"MoveBackward base", doc.MoveBackward, 0},
		{"MoveBackward already back", doc.MoveBackward, 1},
	}
	for _, tc := range cases {
		if tc.op(tc.idx) {
			t.Errorf("%s: expected rejection", tc.name)
		}
	}
}

func TestDocument_MoveReorders(t *testing.T) {
	doc := buildDocument(t, 3)
	base := doc.Layers()[0].ID
	a, b, c := doc.Layers()[1].ID, doc.Layers()[2].ID, doc.Layers()[3].ID

	order := func() []int {
		out := []int{}
		for _, l := range doc.Layers() {
			out = append(out, l.ID)
		}
		return out
	}
	check := func(name string, want []int) {
		got := order()
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: expected order %v, got %v", name, want, got)
			}
		}
	}

	if !doc.MoveToFront(1) {
		t.Fatal("MoveToFront(1) should succeed")
	}
	check("MoveToFront", []int{base, b, c, a})

	if !doc.MoveToBack(3) {
		t.Fatal("MoveToBack(3) should succeed")
	}
	check("MoveToBack", []int{base, a, b, c})

	if !doc.MoveForward(1) {
		t.Fatal("MoveForward(1) should succeed")
	}
	check("MoveForward", []int{base, b, a, c})

	if !doc.MoveBackward(2) {
		t.Fatal("MoveBackward(2) should succeed")
	}
	check("MoveBackward", []int{base, a, b, c})
}

func TestDocument_OffsetAllTranslatesEveryVariant(t *testing.T) {
	doc := New(400, 300)
	doc.Append(NewImageLayer(0, 0, 400, 300, "base"))
	doc.Append(Layer{Kind: KindArrow, Arrow: &ArrowLayer{X1: 1, Y1: 2, X2: 3, Y2: 4}})
	doc.Append(Layer{Kind: KindLine, Line: &LineLayer{X1: 1, Y1: 2, X2: 3, Y2: 4}})
	doc.Append(Layer{Kind: KindText, Text: &TextLayer{X: 5, Y: 6, Text: "hi"}})
	doc.Append(Layer{Kind: KindStep, Step: &StepLayer{X: 7, Y: 8, Number: 1}})
	doc.Append(Layer{Kind: KindSymbol, Symbol: &SymbolLayer{X: 9, Y: 10, Symbol: "check"}})
	doc.Append(Layer{Kind: KindShape, Shape: &ShapeLayer{X: 11, Y: 12, Width: 5, Height: 5}})
	doc.Append(Layer{Kind: KindHighlight, Highlight: &HighlightLayer{X: 13, Y: 14, Width: 5, Height: 5}})

	before, _, _ := doc.Snapshot()
	doc.OffsetAll(10, 20)

	got := doc.Layers()
	if got[0].Image.X != 10 || got[0].Image.Y != 20 {
		t.Errorf("image not offset: %+v", got[0].Image)
	}
	if got[1].Arrow.X1 != 11 || got[1].Arrow.Y2 != 24 {
		t.Errorf("arrow not offset: %+v", got[1].Arrow)
	}
	if got[2].Line.X2 != 13 {
		t.Errorf("line not offset: %+v", got[2].Line)
	}
	if got[3].Text.X != 15 || got[3].Text.Y != 26 {
		t.Errorf("text not offset: %+v", got[3].Text)
	}
	if got[4].Step.X != 17 {
		t.Errorf("step not offset: %+v", got[4].Step)
	}
	if got[5].Symbol.Y != 30 {
		t.Errorf("symbol not offset: %+v", got[5].Symbol)
	}
	if got[6].Shape.X != 21 {
		t.Errorf("shape not offset: %+v", got[6].Shape)
	}
	if got[7].Highlight.Y != 34 {
		t.Errorf("highlight not offset: %+v", got[7].Highlight)
	}

	// Layers captured before the offset are untouched (replacement, not
	// mutation), so history frames stay valid.
	if before[1].Arrow.X1 != 1 {
		t.Errorf("offset mutated a captured layer: %+v", before[1].Arrow)
	}
	if before[0].Image.X != 0 {
		t.Errorf("offset mutated the captured base layer: %+v", before[0].Image)
	}
}

func TestDocument_ClearResetsToDefaultSize(t *testing.T) {
	doc := buildDocument(t, 2)
	doc.SetSize(1920, 1080)

	doc.Clear()

	if doc.Len() != 0 {
		t.Errorf("Expected empty document, got %d layers", doc.Len())
	}
	w, h := doc.Size()
	if w != 800 || h != 600 {
		t.Errorf("Expected default 800x600, got %dx%d", w, h)
	}

	// Ids keep increasing after a clear.
	id := doc.Append(NewImageLayer(0, 0, 1, 1, "x"))
	if id < 4 {
		t.Errorf("Expected id counter to survive Clear, got %d", id)
	}
}

func TestDocument_SnapshotIsIsolatedCopy(t *testing.T) {
	doc := buildDocument(t, 2)
	layers, w, h := doc.Snapshot()

	doc.RemoveAt(1)
	doc.SetSize(10, 10)

	if len(layers) != 3 {
		t.Errorf("Snapshot changed after mutation: %d layers", len(layers))
	}
	if w != 800 || h != 600 {
		t.Errorf("Expected snapshot dims 800x600, got %dx%d", w, h)
	}
}

func TestDocument_LoadBumpsIDCounter(t *testing.T) {
	doc := New(800, 600)
	doc.Load([]Layer{
		{ID: 7, Kind: KindImage, Image: &ImageLayer{Width: 10, Height: 10}},
		{ID: 12, Kind: KindText, Text: &TextLayer{Text: "note"}},
	}, 640, 480)

	if id := doc.Append(Layer{Kind: KindText, Text: &TextLayer{Text: "new"}}); id != 13 {
		t.Errorf("Expected next id 13, got %d", id)
	}
	w, h := doc.Size()
	if w != 640 || h != 480 {
		t.Errorf("Expected 640x480, got %dx%d", w, h)
	}
}
