package render

import (
	"bytes"
	"fmt"
	"strings"

	"b2b-print-designer/internal/geometry"
)

const svgFontFallbacks = `, 'Helvetica Neue', Arial, sans-serif`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// RenderSVG emits a scene as a standalone SVG document. Text stays text, so
// the vector proof remains editable by prepress tooling.
func RenderSVG(scene Scene) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		scene.Width, scene.Height, scene.Width, scene.Height)

	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%d" fill="#ffffff"/>`+"\n",
		scene.Width, scene.Height)

	if scene.Background != "" {
		fmt.Fprintf(&buf, `  <image xlink:href="%s" x="0" y="0" width="%d" height="%d" preserveAspectRatio="none"/>`+"\n",
			xmlEscaper.Replace(scene.Background), scene.Width, scene.Height)
	}

	for _, t := range scene.Texts {
		anchor, x := svgAnchorFor(t)
		y := t.Box.Top + t.Box.Height/2
		style := ""
		if t.Bold {
			style += ` font-weight="bold"`
		}
		if t.Italic {
			style += ` font-style="italic"`
		}
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="%s" dominant-baseline="central" font-family="%s%s" font-size="%.1f" fill="%s"%s>%s</text>`+"\n",
			x, y, anchor,
			xmlEscaper.Replace(t.FontFamily), svgFontFallbacks,
			t.FontPx, xmlEscaper.Replace(t.Color), style,
			xmlEscaper.Replace(t.Value))
	}

	if scene.Guides != nil {
		writeGuideRect(&buf, scene.Guides.Trim, "#333333")
		writeGuideRect(&buf, scene.Guides.Safe, "#2e8b57")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func svgAnchorFor(t Text) (anchor string, x float64) {
	switch t.Align {
	case "center":
		return "middle", t.Box.Left + t.Box.Width/2
	case "right":
		return "end", t.Box.Left + t.Box.Width
	default:
		return "start", t.Box.Left
	}
}

func writeGuideRect(buf *bytes.Buffer, r geometry.Rect, colorHex string) {
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="1" stroke-dasharray="4 4"/>`+"\n",
		r.Left, r.Top, r.Width, r.Height, colorHex)
}
