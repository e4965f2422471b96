package proofstore

import (
	"fmt"
	"strings"
)

// svgBlocklist covers the constructs that let an uploaded SVG execute code
// in a viewer's browser. Matching is case-insensitive on a lowered copy.
var svgBlocklist = []string{
	"<script",
	"javascript:",
	"<foreignobject",
	"onload=",
	"onerror=",
	"onclick=",
	"onmouseover=",
}

// SanitizeSVG rejects uploaded SVG content carrying active content. The
// renderer's own SVG output never contains these, so this only guards
// user-supplied background art.
func SanitizeSVG(data []byte) error {
	lowered := strings.ToLower(string(data))
	if !strings.Contains(lowered, "<svg") {
		return fmt.Errorf("not an svg document")
	}
	for _, marker := range svgBlocklist {
		if strings.Contains(lowered, marker) {
			return fmt.Errorf("svg contains disallowed content: %s", strings.Trim(marker, "<="))
		}
	}
	return nil
}
