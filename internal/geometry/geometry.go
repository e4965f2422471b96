// Package geometry converts a surface's physical print dimensions (inches)
// into pixel-space layout for a given scale. It is pure: same input, same
// output, no I/O.
package geometry

import "math"

const (
	// MaxDisplayWidth caps the interactive editor canvas.
	MaxDisplayWidth = 980.0

	// Interactive handles become unusable below these floors.
	minFieldWidthPx  = 18.0
	minFieldHeightPx = 14.0
)

// Surface carries the physical dimensions the engine needs, all in inches.
// Bleed and safe margins are uniform on all sides.
type Surface struct {
	TrimW float64
	TrimH float64
	Bleed float64
	Safe  float64
}

// Box is a field bounding box in inches, measured from the trim's top-left
// corner (bleed excluded; it is added at layout time).
type Box struct {
	Key    string
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Rect is a pixel-space rectangle.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FieldBox is a field's pixel box keyed for lookup.
type FieldBox struct {
	Key string `json:"key"`
	Rect
}

// SurfaceLayout is the complete pixel layout for one surface at one scale.
type SurfaceLayout struct {
	TotalWidth  int        `json:"total_width"`
	TotalHeight int        `json:"total_height"`
	BleedGuide  Rect       `json:"bleed_guide"`
	TrimGuide   Rect       `json:"trim_guide"`
	SafeGuide   Rect       `json:"safe_guide"`
	FieldBoxes  []FieldBox `json:"field_boxes"`
}

// FitScale derives pixels-per-inch from a target display width. The width is
// capped at MaxDisplayWidth to keep the interactive canvas manageable.
func FitScale(s Surface, displayWidth float64) float64 {
	if displayWidth <= 0 || displayWidth > MaxDisplayWidth {
		displayWidth = MaxDisplayWidth
	}
	total := s.TrimW + 2*s.Bleed
	if total <= 0 {
		return 0
	}
	return displayWidth / total
}

// Layout maps the surface and its field boxes to pixel space at the given
// scale (pixels per inch).
func Layout(s Surface, boxes []Box, scale float64) SurfaceLayout {
	totalW := math.Round((s.TrimW + 2*s.Bleed) * scale)
	totalH := math.Round((s.TrimH + 2*s.Bleed) * scale)

	bleedPx := s.Bleed * scale

	out := SurfaceLayout{
		TotalWidth:  int(totalW),
		TotalHeight: int(totalH),
		BleedGuide:  Rect{Left: 0, Top: 0, Width: totalW, Height: totalH},
		TrimGuide: Rect{
			Left:   math.Round(bleedPx),
			Top:    math.Round(bleedPx),
			Width:  math.Round(s.TrimW * scale),
			Height: math.Round(s.TrimH * scale),
		},
		SafeGuide: Rect{
			Left:   math.Round((s.Bleed + s.Safe) * scale),
			Top:    math.Round((s.Bleed + s.Safe) * scale),
			Width:  math.Max(0, math.Round((s.TrimW-2*s.Safe)*scale)),
			Height: math.Max(0, math.Round((s.TrimH-2*s.Safe)*scale)),
		},
	}

	for _, b := range boxes {
		out.FieldBoxes = append(out.FieldBoxes, FieldBox{
			Key: b.Key,
			Rect: Rect{
				Left:   math.Round((s.Bleed + b.Left) * scale),
				Top:    math.Round((s.Bleed + b.Top) * scale),
				Width:  math.Max(minFieldWidthPx, math.Round(b.Width*scale)),
				Height: math.Max(minFieldHeightPx, math.Round(b.Height*scale)),
			},
		})
	}
	return out
}

// BoxToInches reverse-maps a pixel rect back to inches from the trim origin,
// rounded to 3 decimal places. Used when the admin builder repositions a box.
func BoxToInches(r Rect, scale, bleed float64) Box {
	return Box{
		Left:   round3(r.Left/scale - bleed),
		Top:    round3(r.Top/scale - bleed),
		Width:  round3(r.Width / scale),
		Height: round3(r.Height / scale),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
