package render

import (
	"github.com/marbleduel/backend/internal/effects"
	"github.com/marbleduel/backend/internal/game"
)

// Phase is the presentation state. The video opens straight into the first
// round; hooks and countdowns cost retention in the first seconds.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseWinnerPause
	PhaseFlash
	PhaseEndcard
	PhaseDone
)

const (
	endcardFrames  = 90
	flashFraction  = 0.25
	minPauseFactor = 0.5
)

// Show drives a match frame by frame for the renderer: it steps the live
// round, feeds trigger events to the effects director, and sequences the
// between-round presentation.
type Show struct {
	Match    *game.Match
	Director *effects.Director

	round      *game.Round
	phase      Phase
	phaseFrame int
	frame      int
	fps        int

	lastOutcome game.Outcome
}

// NewShow starts the first round immediately.
func NewShow(m *game.Match, d *effects.Director) *Show {
	s := &Show{
		Match:    m,
		Director: d,
		fps:      m.Tuning().FPS,
	}
	s.round = m.StartRound()
	if s.round == nil {
		s.phase = PhaseDone
	}
	return s
}

// Update advances the show one frame.
func (s *Show) Update() {
	if s.phase == PhaseDone {
		return
	}
	s.frame++
	s.phaseFrame++

	switch s.phase {
	case PhasePlaying:
		s.updatePlaying()
	case PhaseWinnerPause:
		s.updateWinnerPause()
	case PhaseFlash:
		s.updateFlash()
	case PhaseEndcard:
		s.updateEndcard()
	}

	var eng *game.Engine
	if s.round != nil && s.phase != PhaseEndcard {
		eng = s.round.Engine()
	}
	s.Director.Update(1.0/float64(s.fps), eng)
}

func (s *Show) updatePlaying() {
	events := s.round.Step()
	s.Director.Process(events, s.round.Engine(), s.Clock())

	if s.round.Done() {
		s.lastOutcome = s.round.Outcome()
		s.Match.RecordOutcome(s.lastOutcome)
		s.enterPhase(PhaseWinnerPause)
	}
}

func (s *Show) updateWinnerPause() {
	// Keep the celebration alive while the winner banner holds.
	if s.lastOutcome.Winner != "" && s.phaseFrame%3 == 0 {
		s.Director.Particles.AddConfetti(s.round.Engine().Center(), 5)
	}

	pauseFrames := int(s.round.Layout.PauseAfterSec * float64(s.fps))
	if minimum := int(float64(s.fps) * minPauseFactor); pauseFrames < minimum {
		pauseFrames = minimum
	}
	if s.phaseFrame < pauseFrames {
		return
	}

	if s.Match.Complete {
		s.Director.Flash.Trigger(1.0)
		s.enterPhase(PhaseEndcard)
		return
	}
	s.Director.Flash.Trigger(1.0)
	s.enterPhase(PhaseFlash)
}

func (s *Show) updateFlash() {
	if s.phaseFrame < int(float64(s.fps)*flashFraction) {
		return
	}
	next := s.Match.StartRound()
	if next == nil {
		s.enterPhase(PhaseEndcard)
		return
	}
	s.round = next
	s.enterPhase(PhasePlaying)
}

func (s *Show) updateEndcard() {
	if s.phaseFrame%2 == 0 {
		center := game.NewVec2(float64(s.Match.Tuning().Width)/2, float64(s.Match.Tuning().Height)/3)
		s.Director.Particles.AddConfetti(center, 3)
	}
	if s.phaseFrame >= endcardFrames {
		s.phase = PhaseDone
	}
}

func (s *Show) enterPhase(p Phase) {
	s.phase = p
	s.phaseFrame = 0
}

// Done reports whether the show has played out.
func (s *Show) Done() bool {
	return s.phase == PhaseDone
}

// Phase is the current presentation phase.
func (s *Show) Phase() Phase {
	return s.phase
}

// Round is the round currently on screen. Valid until the endcard.
func (s *Show) Round() *game.Round {
	return s.round
}

// LastOutcome is the most recently finished round's result.
func (s *Show) LastOutcome() game.Outcome {
	return s.lastOutcome
}

// Clock is the show time in seconds, used to schedule audio cues.
func (s *Show) Clock() float64 {
	return float64(s.frame) / float64(s.fps)
}

// FrameCount is the number of frames rendered so far.
func (s *Show) FrameCount() int {
	return s.frame
}
