package game

// Layout holds the obstacle parameters for one round. Later rounds get
// more rings, tighter gaps, and faster scripted motion; every field is a
// monotonic function of the round index so the curve is testable on its own.
type Layout struct {
	Rings         int
	GapDegrees    float64
	RotateSpeed   float64 // degrees per step
	OscillateAmp  float64 // degrees; 0 disables oscillating rings
	OscillatePrd  int     // steps per oscillation
	PauseAfterSec float64 // celebration hold once the round is decided
}

// LayoutForRound is the explicit difficulty curve: a pure function from
// round index (0-based) to ring-layout parameters.
func LayoutForRound(idx int) Layout {
	if idx < 0 {
		idx = 0
	}

	gap := 75.0 - float64(idx)*5.0
	if gap < 35 {
		gap = 35
	}

	l := Layout{
		Rings:         5 + idx,
		GapDegrees:    gap,
		RotateSpeed:   0.6 + float64(idx)*0.1,
		PauseAfterSec: 0.7,
	}

	// Oscillating rings join the mix from the third round onward and swing
	// wider as the match progresses.
	if idx >= 2 {
		l.OscillateAmp = 30 + float64(idx-2)*10
		l.OscillatePrd = 240
	}
	return l
}

// BuildRings realizes a layout into concrete rings. Gap spawn angles come
// from the round's rng so layouts differ between seeds but never between
// replays of the same seed.
func BuildRings(t Tuning, l Layout, randAngle func() float64) []*Ring {
	rings := make([]*Ring, 0, l.Rings)
	thickness := t.RingThickness()
	spacing := t.RingSpacing()

	for i := 0; i < l.Rings; i++ {
		// Index 0 is the innermost ring; radius grows outward.
		radius := t.BaseRadius() + float64(i+1)*(thickness+spacing)

		behavior := Behavior{Kind: Rotating, RotateSpeed: l.RotateSpeed}
		switch {
		case l.OscillateAmp > 0 && i%3 == 2:
			behavior = Behavior{Kind: Oscillating, Amplitude: l.OscillateAmp, Period: l.OscillatePrd}
		case i == 0:
			// The innermost ring holds still so every round opens readable.
			behavior = Behavior{Kind: Static}
		}

		rings = append(rings, NewRing(
			i,
			radius,
			thickness,
			randAngle(),
			l.GapDegrees,
			behavior,
			ringPalette[i%len(ringPalette)],
			t.RingHP,
		))
	}
	return rings
}

// ringPalette cycles innermost to outermost, violet through orange.
var ringPalette = []RGB{
	{140, 70, 255},
	{110, 120, 255},
	{70, 150, 255},
	{20, 200, 230},
	{30, 210, 180},
	{50, 220, 110},
	{250, 200, 20},
	{255, 130, 30},
}
