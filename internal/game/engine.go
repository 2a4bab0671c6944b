package game

import "math/rand"

// Engine advances marble and ring state one fixed step at a time. Given
// the same seed, tuning, and initial state it produces an identical event
// sequence on every run.
type Engine struct {
	tuning Tuning
	center Vec2
	rng    *rand.Rand
	step   int

	Marbles []*Marble
	Rings   []*Ring

	// Events is the full trigger log for the round, in emission order.
	Events []TriggerEvent

	escapeRadius float64
	floorY       float64
}

// NewEngine wires up a round's entities. The rng must be owned by exactly
// one engine; sharing it across rounds breaks replay determinism.
func NewEngine(t Tuning, rng *rand.Rand, marbles []*Marble, rings []*Ring) *Engine {
	outermost := t.BaseRadius()
	for _, r := range rings {
		if r.Radius > outermost {
			outermost = r.Radius
		}
	}
	return &Engine{
		tuning:       t,
		center:       t.Center(),
		rng:          rng,
		Marbles:      marbles,
		Rings:        rings,
		Events:       make([]TriggerEvent, 0, 256),
		escapeRadius: outermost + t.EscapeMargin,
		floorY:       float64(t.Height) + t.MarbleRadius(),
	}
}

// Step advances the simulation one fixed time step and returns the trigger
// events emitted during it. The returned slice aliases the engine's log.
func (e *Engine) Step() []TriggerEvent {
	e.step++
	mark := len(e.Events)

	for _, r := range e.Rings {
		if r.Alive {
			r.Advance(e.step)
		}
	}

	for _, m := range e.Marbles {
		if m.Eliminated {
			continue
		}
		m.move(e.tuning)
	}

	for _, m := range e.Marbles {
		if !m.Eliminated {
			e.collideRings(m)
		}
	}
	e.collideMarbles()

	e.eliminate()

	return e.Events[mark:]
}

// StepCount is the number of steps taken so far.
func (e *Engine) StepCount() int {
	return e.step
}

// Center is the arena center point.
func (e *Engine) Center() Vec2 {
	return e.center
}

// AliveCount returns the number of marbles still in play.
func (e *Engine) AliveCount() int {
	n := 0
	for _, m := range e.Marbles {
		if !m.Eliminated {
			n++
		}
	}
	return n
}

// Survivor returns the sole remaining marble, or nil if zero or both remain.
func (e *Engine) Survivor() *Marble {
	var last *Marble
	for _, m := range e.Marbles {
		if m.Eliminated {
			continue
		}
		if last != nil {
			return nil
		}
		last = m
	}
	return last
}

// RingsDown reports whether every ring has shattered.
func (e *Engine) RingsDown() bool {
	for _, r := range e.Rings {
		if r.Alive {
			return false
		}
	}
	return true
}

// collideRings tests the marble against each ring, innermost outward, and
// resolves at most one contact per step.
func (e *Engine) collideRings(m *Marble) {
	for _, ring := range e.Rings {
		if !ring.Alive || m.onCooldown(ring.Index) {
			continue
		}

		switch ring.CheckHit(m.Position, m.Radius, e.center, e.step) {
		case HitGap:
			shattered := ring.Damage()
			m.resetBoost(ring.Index)
			// Cooldown long enough to clear the band, so one pass deals
			// one point of damage.
			m.cooldowns[ring.Index] = 2 * e.tuning.CooldownSteps

			e.emit(TriggerEvent{Step: e.step, Kind: EventBreak, Rival: m.Rival, Ring: ring.Index, Speed: m.Speed()})
			if shattered {
				e.emit(TriggerEvent{Step: e.step, Kind: EventShatter, Rival: m.Rival, Ring: ring.Index})
			}
			return
		case HitBounce:
			normal := ring.Normal(m.Position, e.center)
			// Hitting the band from outside reflects inward.
			dist := m.Position.Minus(e.center).Magnitude()
			if dist > ring.Radius-ring.Thickness/2 {
				normal = normal.Times(-1)
			}
			m.bounce(normal, e.tuning.Restitution, e.tuning.BounceJitter, e.rng)
			m.Position = m.Position.Plus(normal.Times(-e.tuning.Pushback))
			m.clampSpeed(e.tuning.MaxSpeed)
			m.recordBounce(ring.Index, e.tuning.CooldownSteps)
			e.emit(TriggerEvent{Step: e.step, Kind: EventBounce, Rival: m.Rival, Ring: ring.Index, Speed: m.Speed()})
			return
		}
	}
}

// collideMarbles resolves marble-on-marble contact by exchanging the
// normal velocity components, scaled by restitution.
func (e *Engine) collideMarbles() {
	for i := 0; i < len(e.Marbles); i++ {
		for j := i + 1; j < len(e.Marbles); j++ {
			a, b := e.Marbles[i], e.Marbles[j]
			if a.Eliminated || b.Eliminated {
				continue
			}

			sep := b.Position.Minus(a.Position)
			dist := sep.Magnitude()
			minDist := a.Radius + b.Radius
			if dist >= minDist || dist == 0 {
				continue
			}
			n := sep.Normalize()

			// Only resolve converging pairs; separating marbles that still
			// overlap were handled last step.
			relVel := a.Velocity.Minus(b.Velocity)
			if relVel.Dot(n) <= 0 {
				continue
			}

			rest := e.tuning.Restitution
			aNormal := n.Times(a.Velocity.Dot(n))
			bNormal := n.Times(b.Velocity.Dot(n))
			aTangent := a.Velocity.Minus(aNormal)
			bTangent := b.Velocity.Minus(bNormal)

			a.Velocity = aTangent.Plus(bNormal.Times(rest).Plus(aNormal.Times(1 - rest)))
			b.Velocity = bTangent.Plus(aNormal.Times(rest).Plus(bNormal.Times(1 - rest)))

			// Separate so they do not re-collide next step.
			overlap := minDist - dist
			a.Position = a.Position.Minus(n.Times(overlap/2 + 1))
			b.Position = b.Position.Plus(n.Times(overlap/2 + 1))

			a.clampSpeed(e.tuning.MaxSpeed)
			b.clampSpeed(e.tuning.MaxSpeed)

			e.emit(TriggerEvent{Step: e.step, Kind: EventClash, Rival: a.Rival, Speed: relVel.Magnitude()})
		}
	}
}

// eliminate removes marbles that left the playable bounds this step. All
// departures within one step are collected before any outcome decision so
// a same-step double elimination reads as exactly two elimination events.
func (e *Engine) eliminate() {
	for _, m := range e.Marbles {
		if m.Eliminated {
			continue
		}
		dist := m.Position.Minus(e.center).Magnitude()
		if dist > e.escapeRadius || m.Position.Y > e.floorY {
			m.Eliminated = true
			e.emit(TriggerEvent{Step: e.step, Kind: EventElimination, Rival: m.Rival, Speed: m.Speed()})
		}
	}
}

func (e *Engine) emit(ev TriggerEvent) {
	e.Events = append(e.Events, ev)
}
