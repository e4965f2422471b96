package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Standard business card: 3.5×2.0in trim, 0.125in bleed, 0.125in safe.
func card() Surface {
	return Surface{TrimW: 3.5, TrimH: 2.0, Bleed: 0.125, Safe: 0.125}
}

func TestLayoutGoldenValues(t *testing.T) {
	boxes := []Box{{Key: "name", Left: 0.25, Top: 1.2, Width: 3.0, Height: 0.35}}
	l := Layout(card(), boxes, 300)

	assert.Equal(t, 1125, l.TotalWidth)
	assert.Equal(t, 675, l.TotalHeight)

	assert.Equal(t, Rect{Left: 0, Top: 0, Width: 1125, Height: 675}, l.BleedGuide)
	assert.Equal(t, Rect{Left: 38, Top: 38, Width: 1050, Height: 600}, l.TrimGuide)
	assert.Equal(t, Rect{Left: 75, Top: 75, Width: 975, Height: 525}, l.SafeGuide)

	assert.Len(t, l.FieldBoxes, 1)
	fb := l.FieldBoxes[0]
	assert.Equal(t, "name", fb.Key)
	assert.Equal(t, Rect{Left: 113, Top: 398, Width: 900, Height: 105}, fb.Rect)
}

func TestLayoutDeterministic(t *testing.T) {
	boxes := []Box{
		{Key: "name", Left: 0.25, Top: 1.2, Width: 3.0, Height: 0.35},
		{Key: "phone", Left: 0.25, Top: 1.55, Width: 3.0, Height: 0.30},
	}
	a := Layout(card(), boxes, 262.4)
	b := Layout(card(), boxes, 262.4)
	assert.Equal(t, a, b)
}

func TestGuideContainment(t *testing.T) {
	surfaces := []Surface{
		card(),
		{TrimW: 8.5, TrimH: 11, Bleed: 0.25, Safe: 0.5},
		{TrimW: 2.0, TrimH: 3.5, Bleed: 0.0625, Safe: 0.1},
	}
	for _, s := range surfaces {
		l := Layout(s, nil, 150)

		// trim strictly inside bleed
		assert.Greater(t, l.TrimGuide.Left, l.BleedGuide.Left)
		assert.Greater(t, l.TrimGuide.Top, l.BleedGuide.Top)
		assert.Less(t, l.TrimGuide.Left+l.TrimGuide.Width, l.BleedGuide.Left+l.BleedGuide.Width+1)
		assert.Less(t, l.TrimGuide.Height, l.BleedGuide.Height)

		// safe strictly inside trim
		assert.Greater(t, l.SafeGuide.Left, l.TrimGuide.Left)
		assert.Less(t, l.SafeGuide.Width, l.TrimGuide.Width)
		assert.Less(t, l.SafeGuide.Height, l.TrimGuide.Height)

		// never negative
		assert.GreaterOrEqual(t, l.SafeGuide.Width, 0.0)
		assert.GreaterOrEqual(t, l.SafeGuide.Height, 0.0)
	}
}

func TestSafeGuideClampedNotNegative(t *testing.T) {
	// pathological safe margin larger than half the trim
	s := Surface{TrimW: 1.0, TrimH: 0.5, Bleed: 0.125, Safe: 0.6}
	l := Layout(s, nil, 300)
	assert.Equal(t, 0.0, l.SafeGuide.Width)
	assert.Equal(t, 0.0, l.SafeGuide.Height)
}

func TestFieldBoxFloors(t *testing.T) {
	// a sliver of a field still gets a usable handle
	boxes := []Box{{Key: "tiny", Left: 0.1, Top: 0.1, Width: 0.01, Height: 0.01}}
	l := Layout(card(), boxes, 100)
	assert.Equal(t, 18.0, l.FieldBoxes[0].Width)
	assert.Equal(t, 14.0, l.FieldBoxes[0].Height)
}

func TestRoundTripInchesPixelsInches(t *testing.T) {
	const scale, bleed = 200.0, 0.125
	orig := Box{Left: 0.25, Top: 1.2, Width: 3.0, Height: 0.35}

	px := Rect{
		Left:   (bleed + orig.Left) * scale,
		Top:    (bleed + orig.Top) * scale,
		Width:  orig.Width * scale,
		Height: orig.Height * scale,
	}
	back := BoxToInches(px, scale, bleed)

	assert.InDelta(t, orig.Left, back.Left, 0.001)
	assert.InDelta(t, orig.Top, back.Top, 0.001)
	assert.InDelta(t, orig.Width, back.Width, 0.001)
	assert.InDelta(t, orig.Height, back.Height, 0.001)
}

func TestBoxToInchesRounding(t *testing.T) {
	b := BoxToInches(Rect{Left: 112.7, Top: 397.3, Width: 899.9, Height: 105.2}, 300, 0.125)
	assert.Equal(t, 0.251, b.Left)
	assert.Equal(t, 1.199, b.Top)
	assert.Equal(t, 3.0, b.Width)
	assert.Equal(t, 0.351, b.Height)
}

func TestFitScale(t *testing.T) {
	s := card() // total width 3.75in
	assert.InDelta(t, 980.0/3.75, FitScale(s, 0), 1e-9)
	assert.InDelta(t, 980.0/3.75, FitScale(s, 5000), 1e-9, "capped at max display width")
	assert.InDelta(t, 820.0/3.75, FitScale(s, 820), 1e-9)
}
