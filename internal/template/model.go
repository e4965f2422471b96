package template

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"b2b-print-designer/internal/geometry"
)

// validate backs the normalization checks that go beyond simple clamping.
var validate = validator.New()

const (
	defaultTrimW    = 3.5
	defaultTrimH    = 2.0
	defaultBleed    = 0.125
	defaultSafe     = 0.125
	defaultDPI      = 300
	defaultFontSize = 16
	defaultMaxChars = 60

	minDPI, maxDPI           = 72, 1200
	minFontSize, maxFontSize = 6, 200
	minMaxChars, maxMaxChars = 1, 500
)

// Template is a locked brand design administrators define and end users fill
// in. OrgID 0 means global (visible to every organization).
type Template struct {
	ID         uint64     `json:"id"`
	Title      string     `json:"title"`
	OrgID      uint64     `json:"org_id"`
	ProductIDs string     `json:"product_ids"` // normalized comma-separated list
	Surfaces   SurfaceMap `json:"surfaces" gorm:"type:jsonb;serializer:json"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SurfaceMap maps surface key ("front", "back") to its definition.
type SurfaceMap map[string]Surface

// Surface is one printable face with physical dimensions in inches.
type Surface struct {
	Label   string  `json:"label"`
	TrimW   float64 `json:"trim_w_in"`
	TrimH   float64 `json:"trim_h_in"`
	Bleed   float64 `json:"bleed_in"`
	Safe    float64 `json:"safe_in"`
	DPI     int     `json:"dpi"`
	BGImage string  `json:"bg_url"`
	Fields  []Field `json:"fields"`
}

// Field is a designer-defined editable text region. Box coordinates are
// inches from the trim's top-left corner, bleed excluded.
type Field struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Required   bool    `json:"required"`
	Left       float64 `json:"left_in"`
	Top        float64 `json:"top_in"`
	Width      float64 `json:"width_in"`
	Height     float64 `json:"height_in"`
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
	Color      string  `json:"color"`
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
	Align      string  `json:"align"`
	MaxChars   int     `json:"max_chars"`
}

// AppliesTo reports whether the template is usable with the given product.
func (t *Template) AppliesTo(productID uint64) bool {
	for _, id := range t.ProductIDList() {
		if id == productID {
			return true
		}
	}
	return false
}

// ProductIDList parses the normalized comma-separated product id string.
func (t *Template) ProductIDList() []uint64 {
	var out []uint64
	for _, part := range strings.Split(t.ProductIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseUint(part, 10, 64); err == nil && id > 0 {
			out = append(out, id)
		}
	}
	return out
}

// Geometry adapts the surface for the geometry engine.
func (s Surface) Geometry() geometry.Surface {
	return geometry.Surface{TrimW: s.TrimW, TrimH: s.TrimH, Bleed: s.Bleed, Safe: s.Safe}
}

// FieldBoxes adapts the field list for the geometry engine.
func (s Surface) FieldBoxes() []geometry.Box {
	boxes := make([]geometry.Box, 0, len(s.Fields))
	for _, f := range s.Fields {
		boxes = append(boxes, geometry.Box{
			Key: f.Key, Left: f.Left, Top: f.Top, Width: f.Width, Height: f.Height,
		})
	}
	return boxes
}

// Field looks up a field definition by key.
func (s Surface) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

var keyPattern = regexp.MustCompile(`[^a-z0-9_-]+`)

// SanitizeKey lowercases and strips everything outside [a-z0-9_-], the only
// characters allowed in surface and field keys (they become file names).
func SanitizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return keyPattern.ReplaceAllString(key, "")
}

// NormalizeProductIDs cleans a free-form product id string into the canonical
// comma-separated form.
func NormalizeProductIDs(raw string) string {
	var parts []string
	seen := map[uint64]bool{}
	for _, p := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' || r == ';' }) {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		parts = append(parts, strconv.FormatUint(id, 10))
	}
	return strings.Join(parts, ",")
}

// Normalize produces the canonical surface map: sanitized keys, defaults
// applied, numeric ranges clamped, out-of-bounds boxes pulled back inside the
// trim. Everything downstream of the storage boundary assumes this shape and
// never re-checks it.
func Normalize(raw SurfaceMap) SurfaceMap {
	clean := make(SurfaceMap, len(raw))
	for key, s := range raw {
		key = SanitizeKey(key)
		if key == "" {
			continue
		}
		clean[key] = normalizeSurface(s)
	}
	return clean
}

func normalizeSurface(s Surface) Surface {
	if s.TrimW <= 0 {
		s.TrimW = defaultTrimW
	}
	if s.TrimH <= 0 {
		s.TrimH = defaultTrimH
	}
	if s.Bleed < 0 {
		s.Bleed = defaultBleed
	}
	if s.Safe < 0 {
		s.Safe = defaultSafe
	}
	s.DPI = clampInt(s.DPI, minDPI, maxDPI, defaultDPI)

	fields := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		f.Key = SanitizeKey(f.Key)
		if f.Key == "" {
			continue
		}
		fields = append(fields, normalizeField(f, s))
	}
	s.Fields = fields
	return s
}

func normalizeField(f Field, s Surface) Field {
	if f.Label == "" {
		f.Label = f.Key
	}
	if f.Width <= 0 {
		f.Width = 1.0
	}
	if f.Height <= 0 {
		f.Height = 0.25
	}
	if f.FontFamily == "" {
		f.FontFamily = "Arial"
	}
	if f.FontSize == 0 {
		f.FontSize = defaultFontSize
	}
	f.FontSize = clampFloat(f.FontSize, minFontSize, maxFontSize)
	if validate.Var(f.Color, "hexcolor") != nil {
		f.Color = "#000000"
	}
	switch f.Align {
	case "left", "center", "right":
	default:
		f.Align = "left"
	}
	f.MaxChars = clampInt(f.MaxChars, minMaxChars, maxMaxChars, defaultMaxChars)

	// Defensive clamp: keep the box inside the trim without failing the save.
	f.Left = clampFloat(f.Left, 0, s.TrimW)
	f.Top = clampFloat(f.Top, 0, s.TrimH)
	if f.Left+f.Width > s.TrimW {
		f.Width = s.TrimW - f.Left
	}
	if f.Top+f.Height > s.TrimH {
		f.Height = s.TrimH - f.Top
	}
	return f
}

func clampInt(v, min, max, def int) int {
	if v == 0 {
		v = def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
