package market

import (
	"fmt"
	"math"
	"math/rand"
)

// probSumTolerance is the accepted drift from 1.0 for a row's total probability.
const probSumTolerance = 1e-9

// Distribution holds one probability per target state, indexed by State.
type Distribution [NumStates]float64

// Sum returns the total probability mass of the distribution.
func (d Distribution) Sum() float64 {
	var total float64
	for _, p := range d {
		total += p
	}
	return total
}

// Sample maps a uniform draw in [0,1) onto a state by cumulative weight,
// walking targets in declaration order. Any floating-point remainder past
// the last cumulative boundary resolves to the final state.
func (d Distribution) Sample(u float64) State {
	var cum float64
	for s := 0; s < NumStates; s++ {
		cum += d[s]
		if u < cum {
			return State(s)
		}
	}
	return State(NumStates - 1)
}

// Matrix is a full transition table: row index is the source state.
// It has value semantics; copying a Matrix copies every row, which is how
// adjustments stay pure.
type Matrix [NumStates]Distribution

// Multipliers maps each state to the per-period value multiplier applied
// to an active agent's holdings. All entries must be strictly positive.
type Multipliers [NumStates]float64

// DefaultMatrix returns the hand-tuned base transition table.
func DefaultMatrix() Matrix {
	var m Matrix
	m[Up] = Distribution{Up: 0.4, Down: 0.3, Flat: 0.25, Crash: 0.025, Boom: 0.025}
	m[Down] = Distribution{Up: 0.3, Down: 0.4, Flat: 0.25, Crash: 0.05, Boom: 0.0}
	m[Flat] = Distribution{Up: 0.35, Down: 0.3, Flat: 0.3, Crash: 0.025, Boom: 0.025}
	m[Crash] = Distribution{Up: 0.4, Down: 0.3, Flat: 0.25, Crash: 0.025, Boom: 0.025}
	m[Boom] = Distribution{Up: 0.3, Down: 0.25, Flat: 0.4, Crash: 0.025, Boom: 0.025}
	return m
}

// DefaultMultipliers returns the hand-tuned per-state value multipliers.
func DefaultMultipliers() Multipliers {
	return Multipliers{Up: 1.1, Down: 0.9, Flat: 1.0, Crash: 0.6, Boom: 1.3}
}

// Model owns the immutable base transition table and the multiplier table.
// Transition is the only stochastic operation in the core; everything else
// is pure given its inputs.
type Model struct {
	base Matrix
	mult Multipliers
}

// NewModel validates the tables and returns a Model. Every row of the base
// matrix must be non-negative and sum to 1.0 within tolerance; every
// multiplier must be strictly positive.
func NewModel(base Matrix, mult Multipliers) (*Model, error) {
	for src, row := range base {
		for dst, p := range row {
			if p < 0 {
				return nil, fmt.Errorf("negative probability %f for %s -> %s", p, State(src), State(dst))
			}
		}
		if sum := row.Sum(); math.Abs(sum-1.0) > probSumTolerance {
			return nil, fmt.Errorf("row %s sums to %f, want 1.0", State(src), sum)
		}
	}
	for s, m := range mult {
		if m <= 0 {
			return nil, fmt.Errorf("multiplier for %s must be positive, got %f", State(s), m)
		}
	}
	return &Model{base: base, mult: mult}, nil
}

// Base returns a copy of the base transition matrix.
func (m *Model) Base() Matrix { return m.base }

// Multipliers returns a copy of the multiplier table.
func (m *Model) Multipliers() Multipliers { return m.mult }

// Multiplier returns the per-period value multiplier for a state.
func (m *Model) Multiplier(s State) float64 { return m.mult[s] }

// AdjustForParticipation applies participation feedback to a transition
// table. With less than half the population active, every row shifts mass
// toward "down": Down gains 0.05, Up loses 0.03 and Boom loses 0.01 (both
// floored at zero), then the whole row is renormalized so it sums to 1.0
// again. At or above half participation the base table is returned as-is.
// The base matrix is never mutated.
func AdjustForParticipation(base Matrix, participationRatio float64) Matrix {
	if participationRatio >= 0.5 {
		return base
	}

	adjusted := base
	for src := range adjusted {
		row := &adjusted[src]
		row[Down] += 0.05
		row[Up] = math.Max(0, row[Up]-0.03)
		row[Boom] = math.Max(0, row[Boom]-0.01)

		total := row.Sum()
		for dst := range row {
			row[dst] /= total
		}
	}
	return adjusted
}

// Transition samples the next state from the participation-adjusted
// distribution for the current state, consuming one uniform draw from rng.
func (m *Model) Transition(current State, participationRatio float64, rng *rand.Rand) State {
	adjusted := AdjustForParticipation(m.base, participationRatio)
	return adjusted[current].Sample(rng.Float64())
}
