package effects

import (
	"math"
	"math/rand"

	"github.com/marbleduel/backend/internal/game"
)

const (
	maxExplosionParticles = 60
	maxConfetti           = 200
)

// Particle is one transient dot. Life counts down in seconds; renderers fade
// size and color by Life/MaxLife.
type Particle struct {
	Pos      game.Vec2
	Vel      game.Vec2
	Color    game.RGB
	Life     float64
	MaxLife  float64
	Size     float64
	Rotation float64
	Spin     float64
}

// System holds the three particle pools: explosion sparks, short-lived trail
// glow, and round-end confetti. All randomness comes from the injected rng
// so replays of the same seed spawn identical bursts.
type System struct {
	Sparks   []Particle
	Glow     []Particle
	Confetti []Particle

	rng *rand.Rand
}

func NewSystem(rng *rand.Rand) *System {
	return &System{rng: rng}
}

// AddExplosion spawns a radial burst at pos.
func (s *System) AddExplosion(pos game.Vec2, color game.RGB, count int, scale float64) {
	if count > maxExplosionParticles {
		count = maxExplosionParticles
	}
	for i := 0; i < count; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		speed := (2 + s.rng.Float64()*6) * scale
		life := 0.4 + s.rng.Float64()*0.5
		s.Sparks = append(s.Sparks, Particle{
			Pos:     pos,
			Vel:     game.NewVec2(math.Cos(angle)*speed, math.Sin(angle)*speed),
			Color:   color,
			Life:    life,
			MaxLife: life,
			Size:    (2 + s.rng.Float64()*4) * scale,
		})
	}
}

// AddGlow drops one stationary glow dot, used for marble trails.
func (s *System) AddGlow(pos game.Vec2, color game.RGB, scale float64) {
	s.Glow = append(s.Glow, Particle{
		Pos:     pos,
		Color:   color,
		Life:    0.15,
		MaxLife: 0.15,
		Size:    (2 + s.rng.Float64()*3) * scale,
	})
}

var confettiPalette = []game.RGB{
	{255, 71, 87},
	{251, 191, 36},
	{52, 211, 153},
	{168, 85, 247},
	{236, 72, 153},
	{58, 134, 255},
}

// AddConfetti fires celebration confetti upward from pos.
func (s *System) AddConfetti(pos game.Vec2, count int) {
	if count > maxConfetti {
		count = maxConfetti
	}
	for i := 0; i < count; i++ {
		// Launch cone points up.
		angle := -math.Pi*0.25 - s.rng.Float64()*math.Pi*0.5
		speed := 6 + s.rng.Float64()*10
		life := 2 + s.rng.Float64()*2
		s.Confetti = append(s.Confetti, Particle{
			Pos:      pos,
			Vel:      game.NewVec2(math.Cos(angle)*speed, math.Sin(angle)*speed),
			Color:    confettiPalette[s.rng.Intn(len(confettiPalette))],
			Life:     life,
			MaxLife:  life,
			Size:     4 + s.rng.Float64()*5,
			Rotation: s.rng.Float64() * 360,
			Spin:     s.rng.Float64()*20 - 10,
		})
	}
}

// Update ticks every pool by dt seconds and drops expired particles.
func (s *System) Update(dt float64) {
	s.Sparks = updatePool(s.Sparks, dt, func(p *Particle) {
		p.Pos = p.Pos.Plus(p.Vel)
		p.Vel = p.Vel.Plus(game.NewVec2(0, 0.25))
	})
	s.Glow = updatePool(s.Glow, dt, nil)
	s.Confetti = updatePool(s.Confetti, dt, func(p *Particle) {
		p.Pos = p.Pos.Plus(p.Vel)
		p.Vel = game.NewVec2(p.Vel.X*0.99, p.Vel.Y+0.35)
		p.Rotation += p.Spin
	})
}

func updatePool(pool []Particle, dt float64, tick func(*Particle)) []Particle {
	alive := pool[:0]
	for i := range pool {
		p := &pool[i]
		if tick != nil {
			tick(p)
		}
		p.Life -= dt
		if p.Life > 0 {
			alive = append(alive, *p)
		}
	}
	return alive
}

// Count is the total number of live particles across all pools.
func (s *System) Count() int {
	return len(s.Sparks) + len(s.Glow) + len(s.Confetti)
}
