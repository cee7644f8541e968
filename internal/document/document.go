// internal/document/document.go
package document

// Document owns the ordered layer stack and canvas dimensions for one open
// file. Index 0, once present, is the base layer: it is never removed and
// never reordered, and every index-based mutator rejects it.
//
// All mutators return whether they changed anything; a false return means
// the document is untouched. None of them record history: history frames
// are pushed one level up, by the editing session, exactly once per
// successful mutation.
type Document struct {
	layers []Layer
	width  int
	height int
	nextID int

	defaultWidth  int
	defaultHeight int
}

// New creates an empty document with the given default canvas size. Clear
// returns the canvas to this size.
func New(defaultWidth, defaultHeight int) *Document {
	return &Document{
		width:         defaultWidth,
		height:        defaultHeight,
		nextID:        1,
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
	}
}

// Layers returns the layer stack in z-order. The slice is shared; callers
// must not modify it.
func (d *Document) Layers() []Layer { return d.layers }

// Len returns the number of layers.
func (d *Document) Len() int { return len(d.layers) }

// Size returns the canvas dimensions.
func (d *Document) Size() (width, height int) { return d.width, d.height }

// SetSize sets the canvas dimensions.
func (d *Document) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Append adds a layer on top of the stack, assigning it the next monotonic
// id, and returns the assigned id.
func (d *Document) Append(layer Layer) int {
	layer.ID = d.nextID
	d.nextID++
	d.layers = append(d.layers, layer)
	return layer.ID
}

// RemoveAt deletes the layer at index i. The base layer (index 0) and
// out-of-range indices are rejected.
func (d *Document) RemoveAt(i int) bool {
	if i <= 0 || i >= len(d.layers) {
		return false
	}
	d.layers = append(d.layers[:i:i], d.layers[i+1:]...)
	return true
}

// RemoveAll deletes the layers at the given indices, highest first so the
// remaining indices stay stable. Invalid indices are skipped; returns
// whether any layer was removed.
func (d *Document) RemoveAll(indices []int) bool {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] > sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	removed := false
	last := -1
	for _, i := range sorted {
		if i == last {
			continue
		}
		last = i
		if d.RemoveAt(i) {
			removed = true
		}
	}
	return removed
}

// MoveToFront moves the layer at index i to the top of the stack.
func (d *Document) MoveToFront(i int) bool {
	if i <= 0 || i >= len(d.layers) || i == len(d.layers)-1 {
		return false
	}
	layer := d.layers[i]
	d.layers = append(d.layers[:i:i], d.layers[i+1:]...)
	d.layers = append(d.layers, layer)
	return true
}

// MoveToBack moves the layer at index i to just above the base layer.
// Position 1 is already at the back for annotation layers.
func (d *Document) MoveToBack(i int) bool {
	if i <= 1 || i >= len(d.layers) {
		return false
	}
	layer := d.layers[i]
	rest := append(d.layers[:i:i], d.layers[i+1:]...)
	d.layers = make([]Layer, 0, len(rest)+1)
	d.layers = append(d.layers, rest[0], layer)
	d.layers = append(d.layers, rest[1:]...)
	return true
}

// MoveForward swaps the layer at index i with the one above it.
func (d *Document) MoveForward(i int) bool {
	if i <= 0 || i >= len(d.layers)-1 {
		return false
	}
	d.layers[i], d.layers[i+1] = d.layers[i+1], d.layers[i]
	return true
}

// MoveBackward swaps the layer at index i with the one below it, never
// displacing the base layer.
func (d *Document) MoveBackward(i int) bool {
	if i <= 1 || i >= len(d.layers) {
		return false
	}
	d.layers[i], d.layers[i-1] = d.layers[i-1], d.layers[i]
	return true
}

// OffsetAll translates every layer by (dx, dy), replacing each layer value.
// Used as a sub-step of canvas resizing; the caller owns the history frame.
func (d *Document) OffsetAll(dx, dy float64) {
	for i, layer := range d.layers {
		d.layers[i] = layer.Offset(dx, dy)
	}
}

// Clear empties the layer stack and resets the canvas to the default size.
// The id counter is not reset; ids stay unique for the document lifetime.
func (d *Document) Clear() {
	d.layers = nil
	d.width = d.defaultWidth
	d.height = d.defaultHeight
}

// Snapshot returns a shallow copy of the layer slice plus the current
// dimensions, suitable as a history frame. Layer payloads are shared, which
// is safe because layers are replaced, never mutated in place.
func (d *Document) Snapshot() (layers []Layer, width, height int) {
	layers = make([]Layer, len(d.layers))
	copy(layers, d.layers)
	return layers, d.width, d.height
}

// Restore replaces the layer stack and dimensions from a history frame.
// The frame's slice is copied so later edits cannot alias into it.
func (d *Document) Restore(layers []Layer, width, height int) {
	d.layers = make([]Layer, len(layers))
	copy(d.layers, layers)
	d.width = width
	d.height = height
}

// Load replaces the whole document with persisted content and bumps the id
// counter past every loaded layer id.
func (d *Document) Load(layers []Layer, width, height int) {
	d.Restore(layers, width, height)
	for _, layer := range layers {
		if layer.ID >= d.nextID {
			d.nextID = layer.ID + 1
		}
	}
}
