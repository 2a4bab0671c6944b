package game

import "testing"

func TestMatchRejectsInvalidTuning(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"negative rounds", func(tu *Tuning) { tu.Rounds = -1 }},
		{"zero rounds", func(tu *Tuning) { tu.Rounds = 0 }},
		{"zero step budget", func(tu *Tuning) { tu.StepBudget = 0 }},
		{"zero fps", func(tu *Tuning) { tu.FPS = 0 }},
		{"zero max speed", func(tu *Tuning) { tu.MaxSpeed = 0 }},
		{"restitution above one", func(tu *Tuning) { tu.Restitution = 1.5 }},
		{"zero ring hp", func(tu *Tuning) { tu.RingHP = 0 }},
	}

	for _, tc := range cases {
		tuning := DefaultTuning()
		tc.mutate(&tuning)
		if _, err := NewMatch(tuning, testRivals(), 1); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}

func TestMatchEarlyStopAfterMajority(t *testing.T) {
	// Best of 3: rival A winning rounds 1 and 2 decides the match; round 3
	// must never run.
	tuning := DefaultTuning()
	tuning.Rounds = 3
	m, err := NewMatch(tuning, testRivals(), 1)
	if err != nil {
		t.Fatal(err)
	}

	m.RecordOutcome(Outcome{Round: 0, Winner: "RED"})
	m.RecordOutcome(Outcome{Round: 1, Winner: "RED"})

	if !m.Complete {
		t.Fatal("match should be complete after two wins out of three")
	}
	if m.Champion != "RED" {
		t.Errorf("champion = %q, want RED", m.Champion)
	}
	if m.StartRound() != nil {
		t.Error("round 3 started after the match was decided")
	}
	if m.RoundsPlayed() != 2 {
		t.Errorf("rounds played = %d, want 2", m.RoundsPlayed())
	}
}

func TestMatchAllDrawsCompletesEveryRound(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Rounds = 5
	m, err := NewMatch(tuning, testRivals(), 1)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		if m.Complete {
			t.Fatalf("match completed early at round %d with all draws", i)
		}
		m.RecordOutcome(Outcome{Round: i, Draw: true})
	}

	if !m.Complete {
		t.Fatal("match should be complete after 5 rounds")
	}
	if m.Champion != "" {
		t.Errorf("champion = %q, want none", m.Champion)
	}
	if m.Scores["RED"] != 0 || m.Scores["BLUE"] != 0 {
		t.Errorf("draw rounds changed scores: %v", m.Scores)
	}
}

func TestMatchScoreIsSumOfRoundIncrements(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Rounds = 5
	m, err := NewMatch(tuning, testRivals(), 1)
	if err != nil {
		t.Fatal(err)
	}

	m.RecordOutcome(Outcome{Round: 0, Winner: "RED"})
	m.RecordOutcome(Outcome{Round: 1, Draw: true})
	m.RecordOutcome(Outcome{Round: 2, Winner: "BLUE"})
	m.RecordOutcome(Outcome{Round: 3, Winner: "RED"})

	if m.Scores["RED"] != 2 {
		t.Errorf("RED score = %d, want 2", m.Scores["RED"])
	}
	if m.Scores["BLUE"] != 1 {
		t.Errorf("BLUE score = %d, want 1", m.Scores["BLUE"])
	}
}

func TestMatchRunTerminatesWithinRoundBudget(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Rounds = 3
	tuning.StepBudget = 1500

	m, err := NewMatch(tuning, testRivals(), 99)
	if err != nil {
		t.Fatal(err)
	}
	m.Run()

	if !m.Complete {
		t.Fatal("match did not complete")
	}
	if played := m.RoundsPlayed(); played > 3 {
		t.Errorf("played %d rounds, budget is 3", played)
	}
	// Champion must be consistent with the recorded scores.
	red, blue := m.Scores["RED"], m.Scores["BLUE"]
	switch {
	case red > blue && m.Champion != "RED":
		t.Errorf("champion = %q with scores RED=%d BLUE=%d", m.Champion, red, blue)
	case blue > red && m.Champion != "BLUE":
		t.Errorf("champion = %q with scores RED=%d BLUE=%d", m.Champion, red, blue)
	case red == blue && m.Champion != "":
		t.Errorf("champion = %q with tied scores", m.Champion)
	}
}

func TestMatchDeterminism(t *testing.T) {
	run := func() ([]Outcome, string) {
		tuning := DefaultTuning()
		tuning.Rounds = 3
		tuning.StepBudget = 1200
		m, err := NewMatch(tuning, testRivals(), 1234)
		if err != nil {
			t.Fatal(err)
		}
		m.Run()
		return m.Outcomes, m.Champion
	}

	out1, champ1 := run()
	out2, champ2 := run()

	if champ1 != champ2 {
		t.Fatalf("champions differ: %q vs %q", champ1, champ2)
	}
	if len(out1) != len(out2) {
		t.Fatalf("round counts differ: %d vs %d", len(out1), len(out2))
	}
	for i := range out1 {
		if out1[i].Winner != out2[i].Winner || out1[i].Steps != out2[i].Steps {
			t.Errorf("round %d differs: %+v vs %+v", i, out1[i], out2[i])
		}
	}
}
