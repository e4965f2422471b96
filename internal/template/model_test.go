package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Front", "front"},
		{"  back  ", "back"},
		{"Name (Line 1)", "nameline1"},
		{"first_name-2", "first_name-2"},
		{"<script>", "script"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeKey(tt.in))
	}
}

func TestNormalizeProductIDs(t *testing.T) {
	assert.Equal(t, "100,200,300", NormalizeProductIDs("100, 200;300"))
	assert.Equal(t, "100", NormalizeProductIDs("100,100,abc,0"))
	assert.Equal(t, "", NormalizeProductIDs("none"))
}

func TestAppliesTo(t *testing.T) {
	tpl := Template{ProductIDs: "100,200"}
	assert.True(t, tpl.AppliesTo(100))
	assert.True(t, tpl.AppliesTo(200))
	assert.False(t, tpl.AppliesTo(300))
	assert.False(t, tpl.AppliesTo(0))
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	out := Normalize(SurfaceMap{
		"Front!": {Fields: []Field{{Key: "Name"}}},
	})

	surface, ok := out["front"]
	require.True(t, ok)
	assert.Equal(t, 3.5, surface.TrimW)
	assert.Equal(t, 2.0, surface.TrimH)
	assert.Equal(t, 300, surface.DPI)

	require.Len(t, surface.Fields, 1)
	field := surface.Fields[0]
	assert.Equal(t, "name", field.Key)
	assert.Equal(t, "name", field.Label)
	assert.Equal(t, 16.0, field.FontSize)
	assert.Equal(t, "#000000", field.Color)
	assert.Equal(t, "Arial", field.FontFamily)
	assert.Equal(t, "left", field.Align)
	assert.Equal(t, 60, field.MaxChars)
}

func TestNormalizeClampsRanges(t *testing.T) {
	out := Normalize(SurfaceMap{
		"front": {
			DPI: 5000,
			Fields: []Field{{
				Key: "big", FontSize: 900, MaxChars: 9999,
				Color: "not-a-color", Align: "justify",
			}},
		},
	})

	surface := out["front"]
	assert.Equal(t, 1200, surface.DPI)
	field := surface.Fields[0]
	assert.Equal(t, 200.0, field.FontSize)
	assert.Equal(t, 500, field.MaxChars)
	assert.Equal(t, "#000000", field.Color)
	assert.Equal(t, "left", field.Align)
}

func TestNormalizeKeepsValidHexColor(t *testing.T) {
	out := Normalize(SurfaceMap{
		"front": {Fields: []Field{{Key: "name", Color: "#1a2b3c"}}},
	})
	assert.Equal(t, "#1a2b3c", out["front"].Fields[0].Color)
}

func TestNormalizeClampsBoxIntoTrim(t *testing.T) {
	out := Normalize(SurfaceMap{
		"front": {
			TrimW: 3.5, TrimH: 2.0,
			Fields: []Field{{Key: "edge", Left: 3.0, Top: 1.8, Width: 2.0, Height: 1.0}},
		},
	})

	field := out["front"].Fields[0]
	assert.Equal(t, 3.0, field.Left)
	assert.InDelta(t, 0.5, field.Width, 1e-9)
	assert.InDelta(t, 0.2, field.Height, 1e-9)
}

func TestNormalizeDropsEmptyKeys(t *testing.T) {
	out := Normalize(SurfaceMap{
		"!!!":   {},
		"front": {Fields: []Field{{Key: "???"}, {Key: "ok"}}},
	})

	require.Len(t, out, 1)
	require.Len(t, out["front"].Fields, 1)
	assert.Equal(t, "ok", out["front"].Fields[0].Key)
}

func TestNormalizeLowDPIClampsUp(t *testing.T) {
	out := Normalize(SurfaceMap{"front": {DPI: 10}})
	assert.Equal(t, 72, out["front"].DPI)
}
