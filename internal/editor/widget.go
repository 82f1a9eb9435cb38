package editor

// Rect is a screen-space rectangle, top-left origin, in pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// HandlePosition names a resize handle by its screen-space corner.
type HandlePosition string

const (
	HandleTopLeft     HandlePosition = "top-left"
	HandleTopRight    HandlePosition = "top-right"
	HandleBottomLeft  HandlePosition = "bottom-left"
	HandleBottomRight HandlePosition = "bottom-right"
)

// handleHitSize is the edge length of a resize handle's hit region, in
// screen pixels.
const handleHitSize = 10.0

// Handle is one corner resize affordance of the selected widget.
type Handle struct {
	Position HandlePosition
	Rect     Rect
}

// Widget is the drawable, screen-space projection of one visible field.
// Hosts draw the frame filled with BackgroundColor at Opacity, the text
// in Color/FontFamily at FontSize (already zoom-scaled), and the handles
// for the selected widget.
type Widget struct {
	FieldID         string
	Frame           Rect
	Text            string
	FontSize        float64
	FontFamily      string
	Color           string
	BackgroundColor string
	Opacity         float64
	Multiline       bool
	Selected        bool
	Locked          bool
	Editing         bool
	Handles         []Handle
}

func cornerHandles(frame Rect) []Handle {
	half := handleHitSize / 2
	at := func(pos HandlePosition, x, y float64) Handle {
		return Handle{Position: pos, Rect: Rect{X: x - half, Y: y - half, Width: handleHitSize, Height: handleHitSize}}
	}
	return []Handle{
		at(HandleTopLeft, frame.X, frame.Y),
		at(HandleTopRight, frame.X+frame.Width, frame.Y),
		at(HandleBottomLeft, frame.X, frame.Y+frame.Height),
		at(HandleBottomRight, frame.X+frame.Width, frame.Y+frame.Height),
	}
}
