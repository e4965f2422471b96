package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"b2b-print-designer/internal/geometry"
)

// ExportPNG draws a scene into a PNG. A panic inside the drawing libraries is
// converted to an error so one bad surface cannot take down a whole save.
func ExportPNG(scene Scene, fonts *FontCache) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("raster render panicked: %v", r)
		}
	}()

	if scene.Width <= 0 || scene.Height <= 0 {
		return nil, fmt.Errorf("raster render: empty scene %dx%d", scene.Width, scene.Height)
	}

	dc := gg.NewContext(scene.Width, scene.Height)
	dc.SetColor(color.White)
	dc.Clear()

	if scene.Background != "" {
		img, err := imaging.Open(scene.Background)
		if err != nil {
			return nil, fmt.Errorf("open background: %w", err)
		}
		// backgrounds are pre-cropped to the bleed box, so stretch to fill
		filled := imaging.Resize(img, scene.Width, scene.Height, imaging.Lanczos)
		dc.DrawImage(filled, 0, 0)
	}

	for _, t := range scene.Texts {
		dc.SetFontFace(fonts.Face(t.FontFamily, t.Bold, t.Italic, t.FontPx))
		dc.SetColor(parseHexColor(t.Color))

		ax, x := anchorFor(t)
		y := t.Box.Top + t.Box.Height/2
		dc.DrawStringAnchored(t.Value, x, y, ax, 0.35)
	}

	if scene.Guides != nil {
		drawGuide(dc, scene.Guides.Trim, color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
		drawGuide(dc, scene.Guides.Safe, color.RGBA{R: 0x2e, G: 0x8b, B: 0x57, A: 0xff})
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func anchorFor(t Text) (ax, x float64) {
	switch t.Align {
	case "center":
		return 0.5, t.Box.Left + t.Box.Width/2
	case "right":
		return 1.0, t.Box.Left + t.Box.Width
	default:
		return 0.0, t.Box.Left
	}
}

func drawGuide(dc *gg.Context, r geometry.Rect, c color.Color) {
	dc.SetColor(c)
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	dc.DrawRectangle(r.Left, r.Top, r.Width, r.Height)
	dc.Stroke()
	dc.SetDash()
}

// parseHexColor accepts #rgb and #rrggbb, defaulting to black on anything
// malformed.
func parseHexColor(s string) color.Color {
	var r, g, b uint8
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return color.Black
		}
	case 4:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x", &r, &g, &b); err != nil {
			return color.Black
		}
		r *= 17
		g *= 17
		b *= 17
	default:
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
