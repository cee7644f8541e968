// internal/document/layer.go
package document

import "fmt"

// Kind identifies the variant of an annotation layer.
type Kind uint8

const (
	KindImage Kind = iota
	KindArrow
	KindLine
	KindText
	KindStep
	KindSymbol
	KindShape
	KindHighlight
)

var kindNames = map[Kind]string{
	KindImage:     "image",
	KindArrow:     "arrow",
	KindLine:      "line",
	KindText:      "text",
	KindStep:      "step",
	KindSymbol:    "symbol",
	KindShape:     "shape",
	KindHighlight: "highlight",
}

// String returns the serialized name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText serializes the kind by name so document files stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown layer kind %d", k)
	}
	return []byte(name), nil
}

// UnmarshalText parses a kind from its serialized name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown layer kind %q", string(text))
}

// Layer is one addressable visual element in z-order: the base image or a
// single annotation. Exactly one payload pointer is set, matching Kind.
// Layers are immutable once constructed; an edit produces a replacement
// Layer, so history frames holding shallow copies of the layer slice remain
// valid snapshots.
type Layer struct {
	ID   int  `json:"id"`
	Kind Kind `json:"kind"`

	Image     *ImageLayer     `json:"image,omitempty"`
	Arrow     *ArrowLayer     `json:"arrow,omitempty"`
	Line      *LineLayer      `json:"line,omitempty"`
	Text      *TextLayer      `json:"text,omitempty"`
	Step      *StepLayer      `json:"step,omitempty"`
	Symbol    *SymbolLayer    `json:"symbol,omitempty"`
	Shape     *ShapeLayer     `json:"shape,omitempty"`
	Highlight *HighlightLayer `json:"highlight,omitempty"`
}

// ImageLayer is a placed bitmap, the base layer or a combined/pasted image.
// Source is a data URL; the engine never decodes it.
type ImageLayer struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Source string  `json:"source"`
}

// ArrowLayer is a straight arrow from tail (X1,Y1) to head (X2,Y2).
type ArrowLayer struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// LineLayer is a straight line segment.
type LineLayer struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Dashed bool    `json:"dashed"`
}

// TextLayer is a text annotation anchored at its top-left corner.
type TextLayer struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	Color    string  `json:"color"`
	FontSize float64 `json:"fontSize"`
}

// StepLayer is a numbered circular step marker.
type StepLayer struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Number int     `json:"number"`
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
}

// SymbolLayer is a glyph stamp (check mark, cross, etc.).
type SymbolLayer struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Symbol string  `json:"symbol"`
	Size   float64 `json:"size"`
	Color  string  `json:"color"`
}

// ShapeLayer is a rectangle or ellipse outline or fill.
type ShapeLayer struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Shape       string  `json:"shape"` // "rect" or "ellipse"
	Stroke      string  `json:"stroke"`
	Fill        string  `json:"fill"`
	StrokeWidth float64 `json:"strokeWidth"`
	Filled      bool    `json:"filled"`
}

// HighlightLayer is a translucent rectangle overlay.
type HighlightLayer struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Offset returns a replacement layer translated by (dx, dy). The payload is
// copied, never mutated, so layers held by history frames are unaffected.
func (l Layer) Offset(dx, dy float64) Layer {
	out := l
	switch l.Kind {
	case KindImage:
		p := *l.Image
		p.X += dx
		p.Y += dy
		out.Image = &p
	case KindArrow:
		p := *l.Arrow
		p.X1 += dx
		p.Y1 += dy
		p.X2 += dx
		p.Y2 += dy
		out.Arrow = &p
	case KindLine:
		p := *l.Line
		p.X1 += dx
		p.Y1 += dy
		p.X2 += dx
		p.Y2 += dy
		out.Line = &p
	case KindText:
		p := *l.Text
		p.X += dx
		p.Y += dy
		out.Text = &p
	case KindStep:
		p := *l.Step
		p.X += dx
		p.Y += dy
		out.Step = &p
	case KindSymbol:
		p := *l.Symbol
		p.X += dx
		p.Y += dy
		out.Symbol = &p
	case KindShape:
		p := *l.Shape
		p.X += dx
		p.Y += dy
		out.Shape = &p
	case KindHighlight:
		p := *l.Highlight
		p.X += dx
		p.Y += dy
		out.Highlight = &p
	}
	return out
}

// NewImageLayer builds an unassigned image layer (ID is set on append).
func NewImageLayer(x, y, width, height float64, source string) Layer {
	return Layer{
		Kind:  KindImage,
		Image: &ImageLayer{X: x, Y: y, Width: width, Height: height, Source: source},
	}
}
