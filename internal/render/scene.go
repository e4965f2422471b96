// Package render turns a template surface plus a draft's field values into
// proof artifacts: a raster PNG and a vector SVG.
package render

import (
	"b2b-print-designer/internal/geometry"
	"b2b-print-designer/internal/template"
)

// Text is one positioned run of user text, fully resolved to pixel space.
type Text struct {
	Key        string
	Value      string
	Box        geometry.Rect
	FontFamily string
	FontPx     float64
	Color      string
	Bold       bool
	Italic     bool
	Align      string
}

// Guides are the printer's marks drawn on previews but never on exports.
type Guides struct {
	Bleed geometry.Rect
	Trim  geometry.Rect
	Safe  geometry.Rect
}

// Scene is a resolved drawing plan at a fixed pixel scale. Rendering a scene
// twice yields identical output.
type Scene struct {
	Width      int
	Height     int
	Background string // filesystem path of the surface background, optional
	Guides     *Guides
	Texts      []Text
}

// Truncate caps a value at max runes. Values are truncated, never rejected,
// so a proof always renders.
func Truncate(value string, max int) string {
	if max <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

// BuildScene resolves a surface and its field values into a Scene at the
// given pixel scale. Font sizes are authored against the editor's display
// scale, so they grow proportionally when exporting at print resolution.
func BuildScene(s template.Surface, values map[string]string, scale float64, withGuides bool) Scene {
	shape := s.Geometry()
	layout := geometry.Layout(shape, s.FieldBoxes(), scale)
	displayScale := geometry.FitScale(shape, geometry.MaxDisplayWidth)
	ratio := 1.0
	if displayScale > 0 {
		ratio = scale / displayScale
	}

	scene := Scene{
		Width:      layout.TotalWidth,
		Height:     layout.TotalHeight,
		Background: s.BGImage,
	}
	if withGuides {
		scene.Guides = &Guides{
			Bleed: layout.BleedGuide,
			Trim:  layout.TrimGuide,
			Safe:  layout.SafeGuide,
		}
	}

	for _, box := range layout.FieldBoxes {
		field, ok := s.Field(box.Key)
		if !ok {
			continue
		}
		value := Truncate(values[box.Key], field.MaxChars)
		if value == "" {
			continue
		}
		scene.Texts = append(scene.Texts, Text{
			Key:        box.Key,
			Value:      value,
			Box:        box.Rect,
			FontFamily: field.FontFamily,
			FontPx:     field.FontSize * ratio,
			Color:      field.Color,
			Bold:       field.Bold,
			Italic:     field.Italic,
			Align:      field.Align,
		})
	}
	return scene
}
