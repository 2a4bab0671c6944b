package game

import (
	"math"
	"math/rand"
)

// RGB is a red/green/blue triple. The renderer owns the conversion to
// whatever pixel format the encoder wants.
type RGB [3]uint8

// Rival is one of the two competing entities in a match.
type Rival struct {
	Name  string `json:"name"`
	Color RGB    `json:"color"`
	// Query is the image search text used to skin this rival's marble.
	Query string `json:"query,omitempty"`
}

// Marble is a rival's token inside one round. Created at round start,
// removed from the active set on elimination or round end.
type Marble struct {
	Rival     string
	Color     RGB
	Position  Vec2
	Velocity  Vec2
	Radius    float64
	BaseSpeed float64

	Eliminated bool

	// Trail keeps the last few positions for the renderer.
	Trail []Vec2

	// bounce bookkeeping
	bounceCounts map[int]int
	cooldowns    map[int]int
	boosted      bool
	maxTrail     int
}

// NewMarble places a rival's marble with the given initial heading.
func NewMarble(rival Rival, pos Vec2, angleRad float64, t Tuning) *Marble {
	speed := t.MarbleSpeed()
	vel := NewVec2(math.Cos(angleRad)*speed, math.Sin(angleRad)*speed)
	return &Marble{
		Rival:        rival.Name,
		Color:        rival.Color,
		Position:     pos,
		Velocity:     vel,
		Radius:       t.MarbleRadius(),
		BaseSpeed:    speed,
		Trail:        make([]Vec2, 0, t.TrailLength),
		bounceCounts: make(map[int]int),
		cooldowns:    make(map[int]int),
		maxTrail:     t.TrailLength,
	}
}

// move integrates one step: gravity, position, speed clamp, trail, cooldowns.
func (m *Marble) move(t Tuning) {
	if t.Gravity != 0 {
		m.Velocity = m.Velocity.Plus(NewVec2(0, t.Gravity))
	}

	m.Position = m.Position.Plus(m.Velocity)
	m.clampSpeed(t.MaxSpeed)

	m.Trail = append(m.Trail, m.Position)
	if len(m.Trail) > m.maxTrail {
		m.Trail = m.Trail[1:]
	}

	for idx := range m.cooldowns {
		m.cooldowns[idx]--
		if m.cooldowns[idx] <= 0 {
			delete(m.cooldowns, idx)
		}
	}
}

// clampSpeed caps speed at max. This is the instability recovery: runaway
// energy from stacked bounces is clamped locally and never propagated.
func (m *Marble) clampSpeed(max float64) {
	speed := m.Velocity.Magnitude()
	if speed > max {
		m.Velocity = m.Velocity.Times(max / speed)
	}
}

// bounce reflects velocity about the unit normal, scaled by restitution,
// with a small seeded jitter so two marbles never settle into a perfect loop.
func (m *Marble) bounce(normal Vec2, restitution, jitter float64, rng *rand.Rand) {
	dot := m.Velocity.Dot(normal)
	m.Velocity = m.Velocity.Minus(normal.Times(2 * dot)).Times(restitution)
	if jitter > 0 {
		noise := (rng.Float64()*2 - 1) * jitter
		m.Velocity = m.Velocity.Rotate(noise * 180 / math.Pi)
	}
}

// onCooldown reports whether the marble recently bounced off the given ring.
func (m *Marble) onCooldown(ringIndex int) bool {
	return m.cooldowns[ringIndex] > 0
}

// recordBounce tracks repeat bounces against one ring; five in a row earns
// a speed boost so stuck marbles punch through.
func (m *Marble) recordBounce(ringIndex, cooldownSteps int) {
	m.bounceCounts[ringIndex]++
	m.cooldowns[ringIndex] = cooldownSteps
	if m.bounceCounts[ringIndex] >= 5 && !m.boosted {
		m.boosted = true
		speed := m.Velocity.Magnitude()
		if speed > 0 {
			m.Velocity = m.Velocity.Times(m.BaseSpeed * 1.4 / speed)
		}
	}
}

// resetBoost returns the marble to base speed after it slips a gap.
func (m *Marble) resetBoost(ringIndex int) {
	delete(m.bounceCounts, ringIndex)
	if !m.boosted {
		return
	}
	m.boosted = false
	speed := m.Velocity.Magnitude()
	if speed > 0 {
		m.Velocity = m.Velocity.Times(m.BaseSpeed / speed)
	}
}

// Boosted reports whether the marble currently carries a speed boost.
func (m *Marble) Boosted() bool {
	return m.boosted
}

// Speed returns the current speed in px/step.
func (m *Marble) Speed() float64 {
	return m.Velocity.Magnitude()
}

// SpeedRatio is current speed over base speed, capped at 2. Drives bounce
// cue volume and screen shake.
func (m *Marble) SpeedRatio() float64 {
	if m.BaseSpeed <= 0 {
		return 1
	}
	r := m.Speed() / m.BaseSpeed
	if r > 2 {
		return 2
	}
	return r
}
