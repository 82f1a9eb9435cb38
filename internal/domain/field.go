package domain

import (
	"github.com/google/uuid"
)

// FieldType identifies what a field renders as.
type FieldType string

const (
	FieldTypeText  FieldType = "text"
	FieldTypeImage FieldType = "image"
)

// Default field geometry and style, in document units. Document
// coordinates are zoom independent with a bottom-left origin (y up),
// matching the PDF page coordinate system.
const (
	DefaultFieldWidth      = 180.0
	DefaultFieldHeight     = 40.0
	DefaultMultilineHeight = 96.0
	DefaultImageHeight     = 120.0

	DefaultFontSize        = 14.0
	DefaultColor           = "#1a1a1a"
	DefaultBackgroundColor = "#ffffff"
	DefaultFontFamily      = "standard:roboto"

	DefaultTextLabel  = "New text"
	DefaultImageLabel = "Image"

	// MinFieldSize is the smallest width/height a resize gesture may
	// produce, in document units.
	MinFieldSize = 8.0
)

// Field is one placeable annotation on a template page. X/Y anchor the
// field's bottom-left corner in document coordinates.
type Field struct {
	ID              string    `json:"id"`
	Type            FieldType `json:"type"`
	X               float64   `json:"x"`
	Y               float64   `json:"y"`
	Width           float64   `json:"width"`
	Height          float64   `json:"height"`
	MapField        string    `json:"mapField"`
	FontSize        float64   `json:"fontSize"`
	Color           string    `json:"color"`
	FontFamily      string    `json:"fontFamily"`
	Opacity         float64   `json:"opacity"`
	BackgroundColor string    `json:"backgroundColor"`
	Locked          bool      `json:"locked"`
	Hidden          bool      `json:"hidden"`
	Value           *string   `json:"value"`
	Multiline       bool      `json:"multiline,omitempty"`
}

// NewField builds a field of the given type with default geometry and
// style at the given document position.
func NewField(fieldType FieldType, x, y float64) Field {
	field := Field{
		ID:              uuid.NewString(),
		Type:            fieldType,
		X:               x,
		Y:               y,
		Width:           DefaultFieldWidth,
		Height:          DefaultFieldHeight,
		MapField:        DefaultTextLabel,
		FontSize:        DefaultFontSize,
		Color:           DefaultColor,
		FontFamily:      DefaultFontFamily,
		Opacity:         1,
		BackgroundColor: DefaultBackgroundColor,
	}
	if fieldType == FieldTypeImage {
		field.MapField = DefaultImageLabel
		field.Height = DefaultImageHeight
	}
	return field
}

// DisplayText returns the text shown for the field: the user-typed value
// override when present, otherwise the bound label.
func (f *Field) DisplayText() string {
	if f.Value != nil {
		return *f.Value
	}
	return f.MapField
}

// SetValue records a literal text override typed during inline editing.
func (f *Field) SetValue(text string) {
	f.Value = &text
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	clone := f
	if f.Value != nil {
		value := *f.Value
		clone.Value = &value
	}
	return clone
}

// Normalize repairs invariant violations in place: empty ids get a fresh
// uuid, non-positive sizes fall back to type defaults, opacity is clamped
// to [0,1] and blank style attributes get defaults. Malformed imports go
// through here rather than being rejected field by field.
func (f *Field) Normalize() {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Type != FieldTypeImage {
		f.Type = FieldTypeText
	}
	if f.Width <= 0 {
		f.Width = DefaultFieldWidth
	}
	if f.Height <= 0 {
		f.Height = defaultHeightFor(f.Type, f.Multiline)
	}
	if f.MapField == "" {
		f.MapField = DefaultTextLabel
		if f.Type == FieldTypeImage {
			f.MapField = DefaultImageLabel
		}
	}
	if f.FontSize <= 0 {
		f.FontSize = DefaultFontSize
	}
	if f.Color == "" {
		f.Color = DefaultColor
	}
	if f.FontFamily == "" {
		f.FontFamily = DefaultFontFamily
	}
	if f.BackgroundColor == "" {
		f.BackgroundColor = DefaultBackgroundColor
	}
	if f.Opacity == 0 {
		// Zero means the attribute was absent, not an invisible field.
		f.Opacity = 1
	}
	f.Opacity = clamp(f.Opacity, 0, 1)
}

// ClampTo moves and shrinks the field as needed so it lies entirely
// within a page of the given document-space dimensions.
func (f *Field) ClampTo(pageWidth, pageHeight float64) {
	if f.Width > pageWidth && pageWidth > 0 {
		f.Width = pageWidth
	}
	if f.Height > pageHeight && pageHeight > 0 {
		f.Height = pageHeight
	}
	f.X = clamp(f.X, 0, max(0.0, pageWidth-f.Width))
	f.Y = clamp(f.Y, 0, max(0.0, pageHeight-f.Height))
}

func defaultHeightFor(fieldType FieldType, multiline bool) float64 {
	switch {
	case fieldType == FieldTypeImage:
		return DefaultImageHeight
	case multiline:
		return DefaultMultilineHeight
	default:
		return DefaultFieldHeight
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
