package game

import "fmt"

// Tuning is the immutable simulation configuration passed into a Match at
// construction. All knobs live here; nothing reads ambient process state.
type Tuning struct {
	// Arena
	Width  int
	Height int
	FPS    int

	// Match
	Rounds     int
	StepBudget int // steps per round before the round is scored a draw

	// Sizes as ratios of arena height (vertical video, height dominates)
	MarbleRadiusRatio  float64
	BaseRadiusRatio    float64
	RingThicknessRatio float64
	RingSpacingRatio   float64
	MarbleSpeedRatio   float64

	// Physics
	Gravity       float64 // px/step², 0 = free-drift arena
	MaxSpeed      float64 // hard clamp, px/step
	Restitution   float64 // velocity kept on bounce
	Pushback      float64 // px a marble is pushed off a ring after a bounce
	CooldownSteps int     // steps a marble ignores the ring it just hit
	BounceJitter  float64 // radians of random deflection to break loops

	// Rings
	RingHP int

	// Presentation state carried by the engine for the renderer
	TrailLength int

	// Elimination: how far past the outermost ring a marble may drift
	// before it is out of play.
	EscapeMargin float64
}

// DefaultTuning mirrors the production vertical-short setup: 720x1280 at
// 60 fps, best of 5, 60 seconds per round.
func DefaultTuning() Tuning {
	return Tuning{
		Width:  720,
		Height: 1280,
		FPS:    60,

		Rounds:     5,
		StepBudget: 3600,

		MarbleRadiusRatio:  0.022,
		BaseRadiusRatio:    0.12,
		RingThicknessRatio: 0.018,
		RingSpacingRatio:   0.014,
		MarbleSpeedRatio:   0.0085,

		Gravity:       0,
		MaxSpeed:      25.0,
		Restitution:   0.96,
		Pushback:      4.0,
		CooldownSteps: 6,
		BounceJitter:  0.05,

		RingHP: 3,

		TrailLength: 15,

		EscapeMargin: 100.0,
	}
}

// Validate rejects configurations the simulator cannot run. Called once
// before any round starts; a failure here is fatal to the match.
func (t Tuning) Validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("invalid arena size %dx%d", t.Width, t.Height)
	}
	if t.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", t.FPS)
	}
	if t.Rounds < 1 {
		return fmt.Errorf("round count must be at least 1, got %d", t.Rounds)
	}
	if t.StepBudget <= 0 {
		return fmt.Errorf("step budget must be positive, got %d", t.StepBudget)
	}
	if t.MaxSpeed <= 0 {
		return fmt.Errorf("max speed must be positive, got %f", t.MaxSpeed)
	}
	if t.Restitution <= 0 || t.Restitution > 1 {
		return fmt.Errorf("restitution must be in (0, 1], got %f", t.Restitution)
	}
	if t.RingHP < 1 {
		return fmt.Errorf("ring hp must be at least 1, got %d", t.RingHP)
	}
	return nil
}

// Derived pixel sizes. The ratios scale everything off arena height so the
// same tuning works at any output resolution.

func (t Tuning) MarbleRadius() float64 {
	return float64(t.Height) * t.MarbleRadiusRatio
}

func (t Tuning) BaseRadius() float64 {
	return float64(t.Height) * t.BaseRadiusRatio
}

func (t Tuning) RingThickness() float64 {
	return float64(t.Height) * t.RingThicknessRatio
}

func (t Tuning) RingSpacing() float64 {
	return float64(t.Height) * t.RingSpacingRatio
}

func (t Tuning) MarbleSpeed() float64 {
	return float64(t.Height) * t.MarbleSpeedRatio
}

func (t Tuning) Center() Vec2 {
	return NewVec2(float64(t.Width)/2, float64(t.Height)/2)
}
