package effects

import "math/rand"

const (
	shakeIntensity = 0.4
	shakeDecay     = 0.90
)

// ScreenShake converts accumulated trauma into a per-frame camera offset.
// Trauma is squared so small hits barely move the camera while big ones
// whip it around.
type ScreenShake struct {
	trauma  float64
	offsetX float64
	offsetY float64
	rng     *rand.Rand
}

func NewScreenShake(rng *rand.Rand) *ScreenShake {
	return &ScreenShake{rng: rng}
}

// AddTrauma bumps the shake amount, saturating at 1.
func (s *ScreenShake) AddTrauma(amount float64) {
	s.trauma += amount
	if s.trauma > 1 {
		s.trauma = 1
	}
}

// Update decays trauma and rolls a fresh offset for this frame.
func (s *ScreenShake) Update() {
	if s.trauma <= 0.01 {
		s.trauma = 0
		s.offsetX = 0
		s.offsetY = 0
		return
	}
	shake := s.trauma * s.trauma
	s.offsetX = (s.rng.Float64() - 0.5) * 2 * shake * shakeIntensity * 10
	s.offsetY = (s.rng.Float64() - 0.5) * 2 * shake * shakeIntensity * 10
	s.trauma *= shakeDecay
}

// Offset is the current camera displacement in pixels.
func (s *ScreenShake) Offset() (int, int) {
	return int(s.offsetX), int(s.offsetY)
}

// Trauma exposes the current trauma level.
func (s *ScreenShake) Trauma() float64 {
	return s.trauma
}
