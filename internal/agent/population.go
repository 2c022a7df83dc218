package agent

import (
	"fmt"
	"math/rand"
)

// Population is the full set of simulated agents plus the aggregate views
// the engine and reports read from it.
type Population struct {
	agents []*Agent
}

// NewPopulation wraps an explicit agent list.
func NewPopulation(agents []*Agent) (*Population, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("population must contain at least one agent")
	}
	return &Population{agents: agents}, nil
}

// NewRandomPopulation creates n agents with personalities drawn uniformly
// from the full personality set.
func NewRandomPopulation(n int, profiles Profiles, rng *rand.Rand) (*Population, error) {
	if n <= 0 {
		return nil, fmt.Errorf("agent count must be positive, got %d", n)
	}
	agents := make([]*Agent, n)
	for i := range agents {
		agents[i] = New(Personality(rng.Intn(NumPersonalities)), profiles)
	}
	return &Population{agents: agents}, nil
}

// Agents returns the underlying agent slice. Callers iterate it; they do
// not reorder it.
func (p *Population) Agents() []*Agent { return p.agents }

// Size returns the total number of agents.
func (p *Population) Size() int { return len(p.agents) }

// ParticipationRatio is the fraction of agents currently active.
func (p *Population) ParticipationRatio() float64 {
	active := 0
	for _, a := range p.agents {
		if a.Active {
			active++
		}
	}
	return float64(active) / float64(len(p.agents))
}

// ActiveValues snapshots the values of all currently active agents.
func (p *Population) ActiveValues() []float64 {
	var vals []float64
	for _, a := range p.agents {
		if a.Active {
			vals = append(vals, a.Value)
		}
	}
	return vals
}

// InactiveValues snapshots the values of all currently exited agents.
func (p *Population) InactiveValues() []float64 {
	var vals []float64
	for _, a := range p.agents {
		if !a.Active {
			vals = append(vals, a.Value)
		}
	}
	return vals
}

// TotalActiveValue sums the values of all currently active agents.
func (p *Population) TotalActiveValue() float64 {
	var total float64
	for _, a := range p.agents {
		if a.Active {
			total += a.Value
		}
	}
	return total
}
