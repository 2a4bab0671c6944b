package render

import (
	"math/rand"
	"testing"

	"github.com/marbleduel/backend/internal/effects"
	"github.com/marbleduel/backend/internal/game"
)

func testShow(t *testing.T, tuning game.Tuning) *Show {
	t.Helper()
	m, err := game.NewMatch(tuning, [2]game.Rival{
		{Name: "RED", Color: game.RGB{255, 50, 50}},
		{Name: "BLUE", Color: game.RGB{50, 120, 255}},
	}, 77)
	if err != nil {
		t.Fatal(err)
	}
	d := effects.NewDirector(tuning, rand.New(rand.NewSource(8)), game.RGB{15, 10, 40})
	return NewShow(m, d)
}

func TestShowPlaysMatchToDone(t *testing.T) {
	tuning := game.DefaultTuning()
	tuning.Rounds = 3
	tuning.StepBudget = 900

	s := testShow(t, tuning)

	// Upper bound: 3 rounds of sim plus every pause, flash, and endcard.
	limit := 3*tuning.StepBudget + 10*tuning.FPS
	for i := 0; i < limit && !s.Done(); i++ {
		s.Update()
	}

	if !s.Done() {
		t.Fatal("show never reached the done phase")
	}
	if !s.Match.Complete {
		t.Error("show finished but the match did not")
	}
	if s.Update(); s.Phase() != PhaseDone {
		t.Error("updating a done show changed its phase")
	}
}

func TestShowSequencesPhases(t *testing.T) {
	tuning := game.DefaultTuning()
	tuning.Rounds = 1
	tuning.StepBudget = 300
	tuning.RingHP = 10000
	tuning.EscapeMargin = 1e9 // force a timeout so the round length is known

	s := testShow(t, tuning)

	seen := map[Phase]bool{}
	for i := 0; i < 10000 && !s.Done(); i++ {
		seen[s.Phase()] = true
		s.Update()
	}

	if !seen[PhasePlaying] || !seen[PhaseWinnerPause] || !seen[PhaseEndcard] {
		t.Errorf("phase coverage incomplete: %v", seen)
	}
	// A single-round match never shows the between-round flash.
	if seen[PhaseFlash] {
		t.Error("one-round show entered the flash phase")
	}
}

func TestShowClockAdvancesWithFrames(t *testing.T) {
	tuning := game.DefaultTuning()
	s := testShow(t, tuning)

	for i := 0; i < tuning.FPS; i++ {
		s.Update()
	}
	if got := s.Clock(); got < 0.99 || got > 1.01 {
		t.Errorf("clock after one second of frames = %f", got)
	}
}

func TestDrawProducesNonUniformFrame(t *testing.T) {
	tuning := game.DefaultTuning()
	s := testShow(t, tuning)
	r := NewRenderer(tuning)
	img := r.NewFrame()

	for i := 0; i < 30; i++ {
		s.Update()
	}
	r.Draw(img, s)

	// Rings, marbles, and the scoreboard must leave more than a flat fill.
	first := img.Pix[0:4]
	uniform := true
	for i := 4; i < len(img.Pix); i += 4 {
		if img.Pix[i] != first[0] || img.Pix[i+1] != first[1] || img.Pix[i+2] != first[2] {
			uniform = false
			break
		}
	}
	if uniform {
		t.Error("rendered frame is a flat color")
	}
}

func TestDrawShowsMarbleColors(t *testing.T) {
	tuning := game.DefaultTuning()
	s := testShow(t, tuning)
	r := NewRenderer(tuning)
	img := r.NewFrame()

	s.Update()
	r.Draw(img, s)

	foundRed := false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 255 && img.Pix[i+1] == 50 && img.Pix[i+2] == 50 {
			foundRed = true
			break
		}
	}
	if !foundRed {
		t.Error("RED marble body color absent from the frame")
	}
}

func TestEndcardNamesChampion(t *testing.T) {
	tuning := game.DefaultTuning()
	tuning.Rounds = 1
	tuning.StepBudget = 600

	s := testShow(t, tuning)
	r := NewRenderer(tuning)

	for i := 0; i < 10000 && s.Phase() != PhaseEndcard && !s.Done(); i++ {
		s.Update()
	}
	if s.Phase() != PhaseEndcard && !s.Done() {
		t.Fatal("show never reached the endcard")
	}

	// Drawing the endcard must not panic regardless of outcome.
	img := r.NewFrame()
	r.Draw(img, s)
}
