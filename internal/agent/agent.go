package agent

import (
	"math/rand"

	"herdsim/internal/market"
)

// StartingValue is every agent's initial holding.
const StartingValue = 1000.0

// Re-entry chances by market-index bucket: a depressed index makes an
// exited agent more likely to buy back in.
const (
	baseReentryChance     = 0.25
	dipReentryChance      = 0.35
	discountReentryChance = 0.5

	discountIndexThreshold = 0.8
	dipIndexThreshold      = 1.0
)

// Agent is one market participant: a behavioral profile, a monetary value,
// and a binary participation status. Value only changes while the agent is
// active; Active only flips inside Decide.
type Agent struct {
	Personality Personality
	Value       float64
	Active      bool

	profile Profile
}

// New creates an active agent holding StartingValue.
func New(p Personality, profiles Profiles) *Agent {
	return &Agent{
		Personality: p,
		Value:       StartingValue,
		Active:      true,
		profile:     profiles[p],
	}
}

// reentryChance returns the probability an exited agent re-enters, given
// the cumulative market index. A deep discount (index under 0.8) is the
// most attractive entry point.
func reentryChance(marketIndex float64) float64 {
	switch {
	case marketIndex < discountIndexThreshold:
		return discountReentryChance
	case marketIndex < dipIndexThreshold:
		return dipReentryChance
	default:
		return baseReentryChance
	}
}

// Decide evaluates the agent's participation once for the period, reacting
// to the just-revealed state. Exactly one branch runs per call, chosen by
// the status at entry: an inactive agent evaluates re-entry against the
// market index, an active agent evaluates exit against its profile's
// stay-in probability. Consumes exactly one uniform draw from rng.
func (a *Agent) Decide(newState market.State, marketIndex float64, rng *rand.Rand) {
	if !a.Active {
		if rng.Float64() < reentryChance(marketIndex) {
			a.Active = true
		}
		return
	}
	if rng.Float64() > a.profile.StayProb(newState) {
		a.Active = false
	}
}

// UpdateValue rescales an active agent's value by the period's multiplier.
// An inactive agent's value is untouched. Must run after Decide so that an
// agent re-entering this period participates in the same period's move and
// one that just exited does not.
func (a *Agent) UpdateValue(newState market.State, mults market.Multipliers) {
	if !a.Active {
		return
	}
	a.Value *= mults[newState]
}
