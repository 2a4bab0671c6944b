package game

import (
	"math"
	"math/rand"
)

// Outcome is the terminal result of one round. Exactly one outcome exists
// per round: a winning rival or an explicit draw.
type Outcome struct {
	Round    int            `json:"round"`
	Winner   string         `json:"winner,omitempty"`
	Draw     bool           `json:"draw"`
	Steps    int            `json:"steps"`
	Duration float64        `json:"duration_sec"`
	Events   []TriggerEvent `json:"events"`
}

// Round is one physics contest between the two rivals. It owns its marbles,
// rings, and rng; nothing carries over between rounds except the match score.
type Round struct {
	Index  int
	Layout Layout

	tuning  Tuning
	engine  *Engine
	rng     *rand.Rand
	done    bool
	outcome Outcome
}

// NewRound spawns a fresh arena for the given round index. The layout comes
// from the difficulty curve; all placement randomness comes from the seed.
func NewRound(t Tuning, idx int, seed int64, rivals [2]Rival) *Round {
	rng := rand.New(rand.NewSource(seed))
	layout := LayoutForRound(idx)

	rings := BuildRings(t, layout, func() float64 {
		return rng.Float64() * 360
	})

	center := t.Center()
	marbles := make([]*Marble, 0, len(rivals))
	for i, rival := range rivals {
		// Opposite sides of center, slight angular jitter, random heading.
		angle := float64(i)*math.Pi + (rng.Float64()*0.4 - 0.2)
		const spawnOffset = 55.0
		pos := center.Plus(NewVec2(math.Cos(angle)*spawnOffset, math.Sin(angle)*spawnOffset))
		heading := rng.Float64() * 2 * math.Pi
		marbles = append(marbles, NewMarble(rival, pos, heading, t))
	}

	return &Round{
		Index:  idx,
		Layout: layout,
		tuning: t,
		engine: NewEngine(t, rng, marbles, rings),
		rng:    rng,
	}
}

// Engine exposes live state for the renderer. Read-only consumption: the
// renderer never mutates simulation state.
func (r *Round) Engine() *Engine {
	return r.engine
}

// Done reports whether the round has a terminal outcome.
func (r *Round) Done() bool {
	return r.done
}

// Outcome returns the terminal outcome. Only valid once Done reports true.
func (r *Round) Outcome() Outcome {
	return r.outcome
}

// Step advances the round one fixed time step and returns the events it
// emitted. After the round is decided Step is a no-op.
func (r *Round) Step() []TriggerEvent {
	if r.done {
		return nil
	}

	mark := len(r.engine.Events)
	r.engine.Step()

	switch alive := r.engine.AliveCount(); {
	case alive == 0:
		// Both marbles left in the same step: explicit draw, not an
		// event-ordering accident.
		r.finish("", true, false)
	case alive == 1:
		r.finish(r.engine.Survivor().Rival, false, false)
	case r.engine.StepCount() >= r.tuning.StepBudget:
		// Sole timeout policy: budget exceeded scores a draw.
		r.finish("", true, true)
	}

	return r.engine.Events[mark:]
}

// Run drives the round to completion headlessly and returns the outcome.
func (r *Round) Run() Outcome {
	for !r.done {
		r.Step()
	}
	return r.outcome
}

func (r *Round) finish(winner string, draw, timeout bool) {
	step := r.engine.StepCount()
	if timeout {
		r.engine.emit(TriggerEvent{Step: step, Kind: EventTimeout})
	}
	r.engine.emit(TriggerEvent{Step: step, Kind: EventRoundEnd, Rival: winner})

	events := make([]TriggerEvent, len(r.engine.Events))
	copy(events, r.engine.Events)

	r.outcome = Outcome{
		Round:    r.Index,
		Winner:   winner,
		Draw:     draw,
		Steps:    step,
		Duration: fix(float64(step) / float64(r.tuning.FPS)),
		Events:   events,
	}
	r.done = true
}
