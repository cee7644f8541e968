// internal/document/resize.go
package document

// Edge selects which side of the canvas an incoming image is combined onto.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// Point is a placement origin on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ExpandForCombine grows the canvas to fit an incoming image of the given
// size placed at one of the four edges, and returns the origin where the
// incoming image belongs. Combining above or to the left shifts the existing
// layers first, so their geometry is correct against the new origin.
//
// This is a structural mutation but records no history of its own: the
// caller must have captured a frame before invoking it.
func (d *Document) ExpandForCombine(incomingWidth, incomingHeight int, edge Edge) Point {
	width, height := d.width, d.height

	switch edge {
	case EdgeTop:
		d.OffsetAll(0, float64(incomingHeight))
		d.width = max(width, incomingWidth)
		d.height = height + incomingHeight
		return Point{X: 0, Y: 0}
	case EdgeBottom:
		d.width = max(width, incomingWidth)
		d.height = height + incomingHeight
		return Point{X: 0, Y: float64(height)}
	case EdgeLeft:
		d.OffsetAll(float64(incomingWidth), 0)
		d.width = width + incomingWidth
		d.height = max(height, incomingHeight)
		return Point{X: 0, Y: 0}
	default: // EdgeRight
		d.width = width + incomingWidth
		d.height = max(height, incomingHeight)
		return Point{X: float64(width), Y: 0}
	}
}
