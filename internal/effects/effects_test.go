package effects

import (
	"math/rand"
	"testing"

	"github.com/marbleduel/backend/internal/game"
)

func TestCueLogOpensWithIntro(t *testing.T) {
	l := NewCueLog()
	if len(l.Cues) != 3 {
		t.Fatalf("expected 3 intro cues, got %d", len(l.Cues))
	}
	for i, c := range l.Cues {
		if c.Kind != "intro" {
			t.Errorf("cue %d kind = %q, want intro", i, c.Kind)
		}
		if i > 0 && c.Time <= l.Cues[i-1].Time {
			t.Errorf("intro cues not staggered: %f then %f", l.Cues[i-1].Time, c.Time)
		}
	}
}

func TestBounceCuesWalkTheScale(t *testing.T) {
	l := NewCueLog()
	base := len(l.Cues)
	for i := 0; i < 6; i++ {
		l.Bounce(1.0, float64(i))
	}

	// Six bounces at the same speed ratio wrap around a five-note scale, so
	// the first and sixth cues share a frequency and consecutive ones differ.
	cues := l.Cues[base:]
	if cues[0].Freq != cues[5].Freq {
		t.Errorf("scale did not wrap: %.2f vs %.2f", cues[0].Freq, cues[5].Freq)
	}
	if cues[0].Freq == cues[1].Freq {
		t.Error("consecutive bounces played the same note")
	}
}

func TestShakeDecaysToRest(t *testing.T) {
	s := NewScreenShake(rand.New(rand.NewSource(1)))
	s.AddTrauma(1.5)
	if s.Trauma() != 1 {
		t.Errorf("trauma should saturate at 1, got %f", s.Trauma())
	}

	for i := 0; i < 300; i++ {
		s.Update()
	}
	if s.Trauma() != 0 {
		t.Errorf("trauma did not decay to rest, still %f", s.Trauma())
	}
	if x, y := s.Offset(); x != 0 || y != 0 {
		t.Errorf("offset at rest = (%d,%d), want origin", x, y)
	}
}

func TestParticlesExpire(t *testing.T) {
	s := NewSystem(rand.New(rand.NewSource(2)))
	s.AddExplosion(game.NewVec2(100, 100), game.RGB{255, 0, 0}, 30, 1.0)
	s.AddConfetti(game.NewVec2(100, 100), 50)
	s.AddGlow(game.NewVec2(100, 100), game.RGB{0, 255, 0}, 1.0)

	if s.Count() != 81 {
		t.Fatalf("spawned %d particles, want 81", s.Count())
	}

	// Max particle life is 4s; everything must be gone well after that.
	for i := 0; i < 60*5; i++ {
		s.Update(1.0 / 60)
	}
	if s.Count() != 0 {
		t.Errorf("%d particles survived past max life", s.Count())
	}
}

func TestExplosionCapsParticleCount(t *testing.T) {
	s := NewSystem(rand.New(rand.NewSource(3)))
	s.AddExplosion(game.NewVec2(0, 0), game.RGB{255, 255, 255}, 10000, 1.0)
	if len(s.Sparks) != maxExplosionParticles {
		t.Errorf("spawned %d sparks, cap is %d", len(s.Sparks), maxExplosionParticles)
	}
}

func TestFlashDecays(t *testing.T) {
	f := NewFlash()
	f.Trigger(2.0)
	if f.Intensity() != 1 {
		t.Errorf("flash should clamp to 1, got %f", f.Intensity())
	}
	for i := 0; i < 60; i++ {
		f.Update()
	}
	if f.Intensity() != 0 {
		t.Errorf("flash did not decay to zero, still %f", f.Intensity())
	}
}

func TestDirectorGatesBounceCues(t *testing.T) {
	tuning := game.DefaultTuning()
	d := NewDirector(tuning, rand.New(rand.NewSource(4)), game.RGB{15, 10, 40})

	r := game.NewRound(tuning, 0, 1, [2]game.Rival{
		{Name: "RED", Color: game.RGB{255, 0, 0}},
		{Name: "BLUE", Color: game.RGB{0, 0, 255}},
	})
	eng := r.Engine()

	intro := len(d.Cues.Cues)

	// A burst of bounces on consecutive steps must produce exactly one cue.
	events := []game.TriggerEvent{
		{Step: 10, Kind: game.EventBounce, Rival: "RED", Ring: 0},
		{Step: 11, Kind: game.EventBounce, Rival: "BLUE", Ring: 1},
		{Step: 12, Kind: game.EventBounce, Rival: "RED", Ring: 0},
	}
	d.Process(events, eng, 0.5)

	if got := len(d.Cues.Cues) - intro; got != 1 {
		t.Errorf("bounce burst produced %d cues, want 1", got)
	}

	// A bounce past the gate plays again.
	d.Process([]game.TriggerEvent{{Step: 20, Kind: game.EventBounce, Rival: "RED"}}, eng, 1.0)
	if got := len(d.Cues.Cues) - intro; got != 2 {
		t.Errorf("gated bounce count = %d, want 2", got)
	}
}

func TestDirectorBounceCuesSurviveRoundChange(t *testing.T) {
	tuning := game.DefaultTuning()
	d := NewDirector(tuning, rand.New(rand.NewSource(6)), game.RGB{15, 10, 40})

	r := game.NewRound(tuning, 0, 1, [2]game.Rival{
		{Name: "RED", Color: game.RGB{255, 0, 0}},
		{Name: "BLUE", Color: game.RGB{0, 0, 255}},
	})
	eng := r.Engine()

	intro := len(d.Cues.Cues)

	// Late bounce at the end of round one.
	d.Process([]game.TriggerEvent{{Step: 3590, Kind: game.EventBounce, Rival: "RED"}}, eng, 59.83)

	// The next round's engine counts steps from zero again. Spread-out
	// bounces must all play even though their step numbers are tiny.
	d.Process([]game.TriggerEvent{{Step: 1, Kind: game.EventBounce, Rival: "BLUE"}}, eng, 60.02)
	d.Process([]game.TriggerEvent{{Step: 30, Kind: game.EventBounce, Rival: "RED"}}, eng, 60.5)
	d.Process([]game.TriggerEvent{{Step: 600, Kind: game.EventBounce, Rival: "BLUE"}}, eng, 70.0)

	if got := len(d.Cues.Cues) - intro; got != 4 {
		t.Errorf("cues across round change = %d, want 4", got)
	}
}

func TestDirectorRoundEndCelebrates(t *testing.T) {
	tuning := game.DefaultTuning()
	d := NewDirector(tuning, rand.New(rand.NewSource(5)), game.RGB{15, 10, 40})

	r := game.NewRound(tuning, 0, 1, [2]game.Rival{
		{Name: "RED", Color: game.RGB{255, 0, 0}},
		{Name: "BLUE", Color: game.RGB{0, 0, 255}},
	})

	d.Process([]game.TriggerEvent{{Step: 100, Kind: game.EventRoundEnd, Rival: "RED"}}, r.Engine(), 2.0)

	if d.Flash.Intensity() == 0 {
		t.Error("round end did not trigger a flash")
	}
	if len(d.Particles.Confetti) == 0 {
		t.Error("round end did not spawn confetti")
	}

	sawWin := false
	for _, c := range d.Cues.Cues {
		if c.Kind == "win" {
			sawWin = true
		}
	}
	if !sawWin {
		t.Error("round end did not log a win arpeggio")
	}
}
