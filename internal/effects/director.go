package effects

import (
	"math/rand"

	"github.com/marbleduel/backend/internal/game"
)

// bounceCueGap is the minimum spacing between bounce cues, in steps worth
// of run time. Contact clusters still shake the screen but only the first
// one plays a tone.
const bounceCueGap = 4

// Director is the sole consumer of the simulation's trigger stream. It maps
// events to audio cues, particle bursts, screen shake, and flashes. Nothing
// here writes back into the simulation.
type Director struct {
	Cues       *CueLog
	Particles  *System
	Shake      *ScreenShake
	Flash      *Flash
	Background *Background

	fps          int
	lastBounceAt float64
}

// NewDirector builds the effect chain for one run. The rng must be separate
// from any round's rng; visual noise never feeds the simulation.
func NewDirector(t game.Tuning, rng *rand.Rand, base game.RGB) *Director {
	return &Director{
		Cues:          NewCueLog(),
		Particles:     NewSystem(rng),
		Shake:         NewScreenShake(rng),
		Flash:         NewFlash(),
		Background:   NewBackground(t.Width, t.Height, base),
		fps:          t.FPS,
		lastBounceAt: -1,
	}
}

// Process applies one step's trigger events. clock is the absolute run time
// in seconds used to schedule audio cues across rounds.
func (d *Director) Process(events []game.TriggerEvent, eng *game.Engine, clock float64) {
	for _, ev := range events {
		switch ev.Kind {
		case game.EventBounce:
			d.onBounce(ev, eng, clock)
		case game.EventClash:
			d.Cues.Clash(clock)
			d.Shake.AddTrauma(0.3)
			for _, m := range eng.Marbles {
				if !m.Eliminated {
					d.Particles.AddExplosion(m.Position, m.Color, 15, 0.8)
				}
			}
		case game.EventBreak:
			d.Cues.Break(ev.Ring, clock)
			d.Shake.AddTrauma(0.2)
			if m := marbleOf(eng, ev.Rival); m != nil {
				d.Particles.AddExplosion(m.Position, ringColor(eng, ev.Ring), 25, 1.0)
			}
		case game.EventShatter:
			d.Shake.AddTrauma(0.5)
			if m := marbleOf(eng, ev.Rival); m != nil {
				d.Particles.AddExplosion(m.Position, ringColor(eng, ev.Ring), 40, 1.5)
			}
		case game.EventElimination:
			d.Shake.AddTrauma(0.6)
			d.Flash.Trigger(0.4)
			if m := marbleOf(eng, ev.Rival); m != nil {
				d.Particles.AddExplosion(m.Position, m.Color, 60, 1.5)
			}
		case game.EventRoundEnd:
			d.Cues.Win(clock)
			d.Flash.Trigger(0.8)
			d.Particles.AddConfetti(eng.Center(), 150)
		case game.EventTimeout:
			d.Flash.Trigger(0.3)
		}
	}
}

func (d *Director) onBounce(ev game.TriggerEvent, eng *game.Engine, clock float64) {
	m := marbleOf(eng, ev.Rival)
	ratio := 1.0
	if m != nil {
		ratio = m.SpeedRatio()
	}

	d.Shake.AddTrauma(0.08 + ratio*0.06)
	if m != nil {
		d.Particles.AddExplosion(m.Position, m.Color, 8, 0.5)
	}

	// Gate on the run clock, not the event step: step counters restart at
	// zero every round while the director spans the whole match.
	if clock-d.lastBounceAt < float64(bounceCueGap)/float64(d.fps) {
		return
	}
	d.lastBounceAt = clock
	d.Cues.Bounce(ratio, clock)
}

// Update ticks every per-frame effect: particle physics, shake decay, flash
// decay, background drift, and the marble trail glow.
func (d *Director) Update(dt float64, eng *game.Engine) {
	d.Particles.Update(dt)
	d.Shake.Update()
	d.Flash.Update()
	d.Background.Update()

	if eng == nil {
		return
	}
	for _, m := range eng.Marbles {
		if m.Eliminated {
			continue
		}
		scale := 0.8
		if m.Boosted() {
			scale = 1.4
		}
		d.Particles.AddGlow(m.Position, m.Color, scale)
	}
}

func marbleOf(eng *game.Engine, rival string) *game.Marble {
	for _, m := range eng.Marbles {
		if m.Rival == rival {
			return m
		}
	}
	return nil
}

func ringColor(eng *game.Engine, index int) game.RGB {
	for _, r := range eng.Rings {
		if r.Index == index {
			return r.Color
		}
	}
	return game.RGB{255, 255, 255}
}
