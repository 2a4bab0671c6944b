package game

import (
	"math"
	"testing"
)

func TestInGapWrapsAroundZero(t *testing.T) {
	// Gap spanning 350..10 degrees straddles the zero crossing.
	r := NewRing(0, 200, 15, 350, 20, Behavior{Kind: Static}, RGB{255, 255, 255}, 3)

	for _, angle := range []float64{350, 355, 0, 5, 10} {
		if !r.InGap(angle) {
			t.Errorf("angle %.0f should be inside the wrapped gap", angle)
		}
	}
	for _, angle := range []float64{11, 90, 180, 270, 349} {
		if r.InGap(angle) {
			t.Errorf("angle %.0f should be outside the gap", angle)
		}
	}
}

func TestStaticRingNeverRotates(t *testing.T) {
	r := NewRing(0, 200, 15, 30, 40, Behavior{Kind: Static}, RGB{255, 255, 255}, 3)
	for step := 1; step <= 500; step++ {
		r.Advance(step)
	}
	if r.Rotation() != 0 {
		t.Errorf("static ring rotated to %.4f", r.Rotation())
	}
}

func TestRotatingRingAdvancesPerStep(t *testing.T) {
	r := NewRing(0, 200, 15, 0, 40, Behavior{Kind: Rotating, RotateSpeed: 0.5}, RGB{255, 255, 255}, 3)
	for step := 1; step <= 100; step++ {
		r.Advance(step)
	}
	if got := r.Rotation(); math.Abs(got-50) > 1e-9 {
		t.Errorf("rotation after 100 steps = %.4f, want 50", got)
	}

	// Rotation stays normalized after a full lap.
	for step := 101; step <= 800; step++ {
		r.Advance(step)
	}
	if got := r.Rotation(); got < 0 || got >= 360 {
		t.Errorf("rotation %.4f left the [0,360) range", got)
	}
}

func TestOscillatingRingStaysWithinAmplitude(t *testing.T) {
	r := NewRing(0, 200, 15, 0, 40, Behavior{Kind: Oscillating, Amplitude: 40, Period: 240}, RGB{255, 255, 255}, 3)

	var min, max float64
	for step := 1; step <= 960; step++ {
		r.Advance(step)
		rot := r.Rotation()
		if rot < min {
			min = rot
		}
		if rot > max {
			max = rot
		}
	}

	if max > 40+1e-9 || min < -40-1e-9 {
		t.Errorf("oscillation range [%.2f, %.2f] exceeds amplitude 40", min, max)
	}
	// The gap must actually swing both ways, not sit still.
	if max < 30 || min > -30 {
		t.Errorf("oscillation range [%.2f, %.2f] never reached the swing extremes", min, max)
	}
}

func TestDamageShattersAtZeroHP(t *testing.T) {
	r := NewRing(0, 200, 15, 0, 40, Behavior{Kind: Static}, RGB{255, 255, 255}, 3)

	if r.Damage() {
		t.Error("ring shattered on first hit with 3 hp")
	}
	if r.Damage() {
		t.Error("ring shattered on second hit with 3 hp")
	}
	if !r.Damage() {
		t.Error("ring survived the third hit")
	}
	if r.Alive {
		t.Error("shattered ring still alive")
	}
	if r.HP != 0 {
		t.Errorf("shattered ring hp = %d, want 0", r.HP)
	}
}

func TestDeadRingIgnoresHits(t *testing.T) {
	r := NewRing(0, 200, 15, 0, 40, Behavior{Kind: Static}, RGB{255, 255, 255}, 1)
	r.Damage()

	center := NewVec2(0, 0)
	pos := NewVec2(200, 0) // squarely at ring distance
	if hit := r.CheckHit(pos, 15, center, 10); hit != HitNone {
		t.Errorf("dead ring returned hit kind %d", hit)
	}
}

func TestCheckHitDistinguishesGapFromBand(t *testing.T) {
	// Gap at 0..40 degrees. +X axis angle 20 is in the gap, angle 180 is band.
	r := NewRing(0, 200, 15, 0, 40, Behavior{Kind: Static}, RGB{255, 255, 255}, 3)
	center := NewVec2(0, 0)

	onBand := r.Radius - r.Thickness/2
	inGap := NewVec2(onBand*math.Cos(20*math.Pi/180), onBand*math.Sin(20*math.Pi/180))
	if hit := r.CheckHit(inGap, 10, center, 10); hit != HitGap {
		t.Errorf("marble in the gap got hit kind %d, want HitGap", hit)
	}

	onBandPos := NewVec2(-onBand, 0)
	if hit := r.CheckHit(onBandPos, 10, center, 20); hit != HitBounce {
		t.Errorf("marble on the band got hit kind %d, want HitBounce", hit)
	}

	// Refractory window: the same contact must not register next step.
	if hit := r.CheckHit(onBandPos, 10, center, 21); hit != HitNone {
		t.Errorf("bounce registered again inside the refractory window, got %d", hit)
	}

	farAway := NewVec2(50, 0)
	if hit := r.CheckHit(farAway, 10, center, 40); hit != HitNone {
		t.Errorf("marble far from the ring got hit kind %d, want HitNone", hit)
	}
}

func TestFadedColorTracksHP(t *testing.T) {
	r := NewRing(0, 200, 15, 0, 40, Behavior{Kind: Static}, RGB{200, 100, 50}, 2)

	if got := r.FadedColor(); got != r.Color {
		t.Errorf("full hp ring faded to %v", got)
	}
	r.Damage()
	faded := r.FadedColor()
	if faded[0] != 100 || faded[1] != 50 || faded[2] != 25 {
		t.Errorf("half hp fade = %v, want {100 50 25}", faded)
	}
}
