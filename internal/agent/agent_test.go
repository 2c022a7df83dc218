package agent

import (
	"math"
	"math/rand"
	"testing"

	"herdsim/internal/market"
)

// fixedSource feeds rand.Rand a predetermined sequence of uniform draws.
type fixedSource struct {
	vals []float64
	i    int
}

func (s *fixedSource) Int63() int64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return int64(v * (1 << 63))
}

func (s *fixedSource) Seed(int64) {}

func fixedRand(vals ...float64) *rand.Rand {
	return rand.New(&fixedSource{vals: vals})
}

func TestProfile_StayProbFoldsCrashIntoDown(t *testing.T) {
	profiles := DefaultProfiles()
	for p := Personality(0); p < NumPersonalities; p++ {
		pr := profiles[p]
		if got := pr.StayProb(market.Crash); got != pr.Down {
			t.Errorf("%s: crash stay prob %.2f, want down bucket %.2f", p, got, pr.Down)
		}
	}
}

func TestProfile_StayProbBoomUsesDefault(t *testing.T) {
	pr := DefaultProfiles()[Greedy]
	if got := pr.StayProb(market.Boom); got != DefaultStayProb {
		t.Errorf("boom stay prob %.2f, want default %.2f", got, DefaultStayProb)
	}
}

func TestDecide_ActiveExitsOnHighDraw(t *testing.T) {
	a := New(Average, DefaultProfiles()) // flat stay prob 0.65

	a.Decide(market.Flat, 1.0, fixedRand(0.9))
	if a.Active {
		t.Error("draw 0.9 above stay prob 0.65, agent should have exited")
	}

	b := New(Average, DefaultProfiles())
	b.Decide(market.Flat, 1.0, fixedRand(0.3))
	if !b.Active {
		t.Error("draw 0.3 below stay prob 0.65, agent should have stayed")
	}
}

func TestDecide_OneBranchPerCall(t *testing.T) {
	// An agent that exits this period must not immediately evaluate
	// re-entry in the same call.
	a := New(Cautious, DefaultProfiles()) // down stay prob 0.40
	a.Decide(market.Down, 0.5, fixedRand(0.9, 0.0))
	if a.Active {
		t.Fatal("agent should have exited on draw 0.9")
	}

	// Next period it evaluates re-entry; index 0.5 gives chance 0.5.
	a.Decide(market.Down, 0.5, fixedRand(0.1))
	if !a.Active {
		t.Error("agent should have re-entered on draw 0.1 against chance 0.5")
	}
}

func TestDecide_ReentryChanceBuckets(t *testing.T) {
	cases := []struct {
		index float64
		want  float64
	}{
		{0.7, 0.5},
		{0.79999, 0.5},
		{0.8, 0.35},
		{0.95, 0.35},
		{1.0, 0.25},
		{1.5, 0.25},
	}

	rng := rand.New(rand.NewSource(7))
	const trials = 20000

	for _, tc := range cases {
		reentered := 0
		for i := 0; i < trials; i++ {
			a := New(Average, DefaultProfiles())
			a.Active = false
			a.Decide(market.Flat, tc.index, rng)
			if a.Active {
				reentered++
			}
		}
		freq := float64(reentered) / trials
		if math.Abs(freq-tc.want) > 0.03 {
			t.Errorf("index %.5f: re-entry frequency %.4f, want %.2f +/- 0.03", tc.index, freq, tc.want)
		}
	}
}

func TestUpdateValue_InactiveUnchanged(t *testing.T) {
	a := New(Greedy, DefaultProfiles())
	a.Active = false
	a.Value = 500

	a.UpdateValue(market.Boom, market.DefaultMultipliers())
	if a.Value != 500 {
		t.Errorf("inactive agent value changed to %.2f", a.Value)
	}
}

func TestUpdateValue_ActiveRescales(t *testing.T) {
	a := New(RiskTaker, DefaultProfiles())
	a.UpdateValue(market.Up, market.DefaultMultipliers())
	if math.Abs(a.Value-1100.0) > 1e-9 {
		t.Errorf("value %.6f, want 1100.0", a.Value)
	}
}

func TestAgent_ValueStaysPositive(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	mults := market.DefaultMultipliers()
	states := market.States()

	a := New(Cautious, DefaultProfiles())
	for i := 0; i < 5000; i++ {
		s := states[rng.Intn(len(states))]
		a.Decide(s, rng.Float64()*2, rng)
		a.UpdateValue(s, mults)
		if a.Value <= 0 {
			t.Fatalf("value %.6f not positive after %d periods", a.Value, i+1)
		}
	}
}

func TestNewRandomPopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop, err := NewRandomPopulation(50, DefaultProfiles(), rng)
	if err != nil {
		t.Fatal(err)
	}
	if pop.Size() != 50 {
		t.Fatalf("size %d, want 50", pop.Size())
	}
	if ratio := pop.ParticipationRatio(); ratio != 1.0 {
		t.Errorf("fresh population participation %.2f, want 1.0", ratio)
	}
	for _, a := range pop.Agents() {
		if a.Value != StartingValue || !a.Active {
			t.Fatalf("agent not initialized: value %.2f active %v", a.Value, a.Active)
		}
	}

	if _, err := NewRandomPopulation(0, DefaultProfiles(), rng); err == nil {
		t.Error("expected error for zero agents")
	}
}

func TestPopulation_Aggregates(t *testing.T) {
	profiles := DefaultProfiles()
	a := New(Average, profiles)
	b := New(Greedy, profiles)
	b.Active = false
	b.Value = 800
	c := New(Cautious, profiles)
	c.Value = 1200

	pop, err := NewPopulation([]*Agent{a, b, c})
	if err != nil {
		t.Fatal(err)
	}

	if ratio := pop.ParticipationRatio(); math.Abs(ratio-2.0/3.0) > 1e-12 {
		t.Errorf("participation %.6f, want 2/3", ratio)
	}
	if got := pop.TotalActiveValue(); math.Abs(got-2200) > 1e-9 {
		t.Errorf("total active value %.2f, want 2200", got)
	}
	if got := len(pop.ActiveValues()); got != 2 {
		t.Errorf("active values %d, want 2", got)
	}
	if got := pop.InactiveValues(); len(got) != 1 || got[0] != 800 {
		t.Errorf("inactive values %v, want [800]", got)
	}
}
