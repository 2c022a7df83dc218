package agent

import (
	"fmt"

	"herdsim/internal/market"
)

// Personality selects a behavioral profile for an agent.
type Personality uint8

const (
	RiskTaker Personality = iota
	Cautious
	Greedy
	Average
)

// NumPersonalities is the size of the closed personality set.
const NumPersonalities = 4

func (p Personality) String() string {
	switch p {
	case RiskTaker:
		return "risk_taker"
	case Cautious:
		return "cautious"
	case Greedy:
		return "greedy"
	case Average:
		return "average"
	default:
		return fmt.Sprintf("personality(%d)", uint8(p))
	}
}

// ParsePersonality converts a config-file name into a Personality.
func ParsePersonality(name string) (Personality, error) {
	switch name {
	case "risk_taker":
		return RiskTaker, nil
	case "cautious":
		return Cautious, nil
	case "greedy":
		return Greedy, nil
	case "average":
		return Average, nil
	default:
		return Average, fmt.Errorf("unknown personality %q", name)
	}
}

// DefaultStayProb is the stay-in probability used for any market state a
// profile carries no entry for. Boom has no bucket of its own on purpose:
// the original model treats it as an undefined case and falls back here.
const DefaultStayProb = 0.6

// Profile holds a personality's stay-in probabilities for the three market
// buckets it distinguishes. Crash is not a bucket; it folds into Down.
type Profile struct {
	Up   float64
	Down float64
	Flat float64
}

// StayProb is the total stay-in function over the full state set: crash
// reuses the Down bucket and any state without a bucket resolves to
// DefaultStayProb. It never fails.
func (pr Profile) StayProb(s market.State) float64 {
	switch s {
	case market.Up:
		return pr.Up
	case market.Down, market.Crash:
		return pr.Down
	case market.Flat:
		return pr.Flat
	default:
		return DefaultStayProb
	}
}

// Profiles maps each personality to its profile, indexed by Personality.
type Profiles [NumPersonalities]Profile

// DefaultProfiles returns the hand-tuned behavioral table.
func DefaultProfiles() Profiles {
	var ps Profiles
	ps[RiskTaker] = Profile{Up: 0.90, Down: 0.75, Flat: 0.80}
	ps[Cautious] = Profile{Up: 0.95, Down: 0.40, Flat: 0.60}
	ps[Greedy] = Profile{Up: 0.99, Down: 0.65, Flat: 0.70}
	ps[Average] = Profile{Up: 0.85, Down: 0.50, Flat: 0.65}
	return ps
}
