package editor

// Zoom bounds. Rendering below MinZoom is meaningless and would make the
// inverse transform blow up, so factors are clamped.
const (
	MinZoom = 0.05
	MaxZoom = 4.0
)

// ZoomLevels are the discrete zoom factors offered by the editor UI.
var ZoomLevels = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

// Point is a position in either coordinate space.
type Point struct {
	X float64
	Y float64
}

// Transform converts between screen space (pixels relative to the
// rendered page surface, top-left origin, y down, scaled by zoom) and
// document space (zoom-independent page units, bottom-left origin, y up).
//
// The y-up convention is applied uniformly: storage, rendering and
// hit-testing all agree that document y grows toward the top of the page.
type Transform struct {
	Zoom           float64
	ViewportWidth  float64
	ViewportHeight float64
}

// NewTransform builds a transform for a rendered page surface of the
// given pixel dimensions at the given zoom factor.
func NewTransform(zoom, viewportWidth, viewportHeight float64) Transform {
	return Transform{
		Zoom:           ClampZoom(zoom),
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
	}
}

// ToDocument maps a screen point to document space.
func (t Transform) ToDocument(p Point) Point {
	return Point{
		X: p.X / t.Zoom,
		Y: (t.ViewportHeight - p.Y) / t.Zoom,
	}
}

// ToScreen maps a document point to screen space. Exact inverse of
// ToDocument up to floating-point tolerance.
func (t Transform) ToScreen(p Point) Point {
	return Point{
		X: p.X * t.Zoom,
		Y: t.ViewportHeight - p.Y*t.Zoom,
	}
}

// PageWidth returns the page width in document units.
func (t Transform) PageWidth() float64 {
	return t.ViewportWidth / t.Zoom
}

// PageHeight returns the page height in document units.
func (t Transform) PageHeight() float64 {
	return t.ViewportHeight / t.Zoom
}

// ClampZoom forces a zoom factor into the supported range.
func ClampZoom(zoom float64) float64 {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}
