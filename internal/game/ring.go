package game

import "math"

// BehaviorKind selects how a ring's gap moves over the round.
type BehaviorKind int

const (
	Static BehaviorKind = iota
	Rotating
	Oscillating
)

func (k BehaviorKind) String() string {
	switch k {
	case Rotating:
		return "rotating"
	case Oscillating:
		return "oscillating"
	default:
		return "static"
	}
}

// Behavior is the tagged scripted-motion variant for a ring. Only the
// fields for the active kind are meaningful.
type Behavior struct {
	Kind BehaviorKind

	// Rotating: gap angle advances by this many degrees per step.
	RotateSpeed float64

	// Oscillating: gap swings Amplitude degrees either side of its spawn
	// angle over Period steps.
	Amplitude float64
	Period    int
}

// HitKind is the result of a marble/ring proximity test.
type HitKind int

const (
	HitNone HitKind = iota
	HitGap
	HitBounce
)

// Ring is a concentric obstacle with an angular gap and hit points.
// Geometry is immutable per round; only rotation and HP change.
type Ring struct {
	Index     int
	Radius    float64
	Thickness float64
	GapAngle  float64 // spawn angle of the gap start, degrees
	GapSize   float64 // degrees
	Behavior  Behavior
	Color     RGB

	HP    int
	MaxHP int
	Alive bool

	rotation    float64
	lastHitStep int
}

// NewRing builds a live ring with full hit points.
func NewRing(index int, radius, thickness, gapAngle, gapSize float64, behavior Behavior, color RGB, hp int) *Ring {
	return &Ring{
		Index:       index,
		Radius:      radius,
		Thickness:   thickness,
		GapAngle:    gapAngle,
		GapSize:     gapSize,
		Behavior:    behavior,
		Color:       color,
		HP:          hp,
		MaxHP:       hp,
		Alive:       true,
		lastHitStep: -999,
	}
}

// Advance applies one step of scripted motion, dispatched by variant.
func (r *Ring) Advance(step int) {
	switch r.Behavior.Kind {
	case Static:
		// nothing moves
	case Rotating:
		r.rotation = normDeg(r.rotation + r.Behavior.RotateSpeed)
	case Oscillating:
		period := r.Behavior.Period
		if period <= 0 {
			period = 1
		}
		phase := 2 * math.Pi * float64(step) / float64(period)
		r.rotation = r.Behavior.Amplitude * math.Sin(phase)
	}
}

// Rotation is the current gap offset from the spawn angle, degrees.
func (r *Ring) Rotation() float64 {
	return r.rotation
}

// InGap reports whether the given polar angle (degrees, arena-centered)
// falls inside the ring's gap at its current rotation.
func (r *Ring) InGap(angleDeg float64) bool {
	angleDeg = normDeg(angleDeg)
	gapStart := normDeg(r.GapAngle + r.rotation)
	gapEnd := normDeg(gapStart + r.GapSize)
	if gapStart < gapEnd {
		return angleDeg >= gapStart && angleDeg <= gapEnd
	}
	return angleDeg >= gapStart || angleDeg <= gapEnd
}

// CheckHit tests a marble against the ring band. Returns HitGap when the
// marble is at ring distance but inside the gap, HitBounce when it struck
// the band, HitNone otherwise. A short refractory window after each bounce
// stops one contact from registering on consecutive steps.
func (r *Ring) CheckHit(pos Vec2, marbleRadius float64, center Vec2, step int) HitKind {
	if !r.Alive {
		return HitNone
	}
	if step-r.lastHitStep < 3 {
		return HitNone
	}

	d := pos.Minus(center)
	dist := d.Magnitude()

	inner := r.Radius - r.Thickness
	outer := r.Radius
	margin := marbleRadius * 1.2

	atInner := dist > inner-margin && dist < inner+margin
	atOuter := dist > outer-margin && dist < outer+margin
	if !atInner && !atOuter {
		return HitNone
	}

	if r.InGap(d.AngleDeg()) {
		return HitGap
	}
	r.lastHitStep = step
	return HitBounce
}

// Normal is the outward unit normal at the marble's position.
func (r *Ring) Normal(pos, center Vec2) Vec2 {
	n := pos.Minus(center)
	if n.IsZero() {
		return NewVec2(0, -1)
	}
	return n.Normalize()
}

// Damage removes one hit point and reports whether the ring shattered.
func (r *Ring) Damage() bool {
	r.HP--
	if r.HP <= 0 {
		r.HP = 0
		r.Alive = false
		return true
	}
	return false
}

// FadedColor dims the ring color as it loses hit points.
func (r *Ring) FadedColor() RGB {
	if r.MaxHP == 0 {
		return r.Color
	}
	fade := float64(r.HP) / float64(r.MaxHP)
	return RGB{
		uint8(float64(r.Color[0]) * fade),
		uint8(float64(r.Color[1]) * fade),
		uint8(float64(r.Color[2]) * fade),
	}
}
