package game

// Match runs a best-of-N series between two rivals. It owns its rounds
// exclusively; the cumulative score is the only state that crosses round
// boundaries, written exactly once per round after that round terminates.
type Match struct {
	Rivals [2]Rival
	Seed   int64

	tuning Tuning

	Scores   map[string]int
	Outcomes []Outcome

	// Champion is the rival with strictly higher cumulative score once the
	// match completes; empty means an explicit match draw.
	Champion string
	Complete bool

	nextRound int
}

// NewMatch validates the configuration and prepares a match. Invalid
// tuning is rejected here, before any simulation starts.
func NewMatch(t Tuning, rivals [2]Rival, seed int64) (*Match, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Match{
		Rivals: rivals,
		Seed:   seed,
		tuning: t,
		Scores: map[string]int{
			rivals[0].Name: 0,
			rivals[1].Name: 0,
		},
		Outcomes: make([]Outcome, 0, t.Rounds),
	}, nil
}

// Tuning returns the immutable configuration the match was built with.
func (m *Match) Tuning() Tuning {
	return m.tuning
}

// StartRound spawns the next round, or returns nil when the match is
// complete (round budget exhausted or early stop).
func (m *Match) StartRound() *Round {
	if m.Complete {
		return nil
	}
	// Each round gets its own deterministic sub-seed.
	seed := m.Seed + int64(m.nextRound)*1_000_003
	r := NewRound(m.tuning, m.nextRound, seed, m.Rivals)
	return r
}

// RecordOutcome applies a terminated round's result to the score and
// advances the match state. A draw round scores zero for both rivals.
func (m *Match) RecordOutcome(o Outcome) {
	m.Outcomes = append(m.Outcomes, o)
	if o.Winner != "" {
		m.Scores[o.Winner]++
	}
	m.nextRound++

	if m.nextRound >= m.tuning.Rounds || m.earlyStop() {
		m.finalize()
	}
}

// Run drives every remaining round headlessly. Rendering pipelines step
// rounds themselves; tests and dry runs use this.
func (m *Match) Run() {
	for {
		r := m.StartRound()
		if r == nil {
			return
		}
		m.RecordOutcome(r.Run())
	}
}

// earlyStop fires when one rival holds a strict majority of the possible
// round wins, making the remaining rounds unwinnable for the other.
func (m *Match) earlyStop() bool {
	for _, wins := range m.Scores {
		if wins*2 > m.tuning.Rounds {
			return true
		}
	}
	return false
}

func (m *Match) finalize() {
	m.Complete = true
	a, b := m.Rivals[0].Name, m.Rivals[1].Name
	switch {
	case m.Scores[a] > m.Scores[b]:
		m.Champion = a
	case m.Scores[b] > m.Scores[a]:
		m.Champion = b
	default:
		m.Champion = ""
	}
}

// RoundsPlayed is the number of rounds with a recorded outcome.
func (m *Match) RoundsPlayed() int {
	return len(m.Outcomes)
}
