// internal/editor/canvas.go
package editor

// Canvas is the rendering surface the engine draws through. The frontend
// webview implements it; the engine treats it as write-only (SetSize,
// Render) plus the capture read (ToDataURL) and owns no pixel state.
type Canvas interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// SetSize resizes the surface. Called whenever restored document
	// dimensions differ from the current surface.
	SetSize(width, height int)

	// Render repaints the surface from the current document. Called after
	// every structural mutation.
	Render()

	// ToDataURL captures the composited surface as an image data URL.
	// format is a MIME type such as "image/png"; quality applies to lossy
	// formats only.
	ToDataURL(format string, quality float64) (string, error)
}
