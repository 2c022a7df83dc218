// Package engine drives the period-by-period simulation loop that couples
// the market model to the agent population.
package engine

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"herdsim/internal/agent"
	"herdsim/internal/market"
)

// PeriodRecord is one entry of the simulation history: the state the
// market moved to and the total value held by active agents after every
// agent updated for that period.
type PeriodRecord struct {
	Period      int
	State       market.State
	ActiveValue float64
}

// IntervalResult reports how much of a requested interval actually ran,
// so callers can surface horizon clamping, plus the states traversed.
type IntervalResult struct {
	Requested int
	Simulated int
	States    []market.State
}

// Clamped reports whether the interval was cut short by the horizon.
func (r IntervalResult) Clamped() bool { return r.Simulated < r.Requested }

// Engine owns the closed feedback loop: participation feeds the market
// transition, the revealed state feeds every agent's decision and value
// update. All randomness flows through the injected rng, so a fixed seed
// reproduces a run exactly (with a single worker).
type Engine struct {
	model   *market.Model
	pop     *agent.Population
	rng     *rand.Rand
	workers int

	state   market.State
	index   float64
	period  int
	horizon int
	history []PeriodRecord
}

// New creates an engine positioned at period zero with a market index of
// 1.0. workers controls how many goroutines fan out the per-period agent
// updates; 1 keeps the run on a single deterministic draw stream.
func New(model *market.Model, pop *agent.Population, start market.State, horizon, workers int, rng *rand.Rand) (*Engine, error) {
	if pop == nil || pop.Size() == 0 {
		return nil, fmt.Errorf("engine requires a non-empty population")
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		model:   model,
		pop:     pop,
		rng:     rng,
		workers: workers,
		state:   start,
		index:   1.0,
		horizon: horizon,
		history: make([]PeriodRecord, 0, horizon),
	}, nil
}

// step simulates exactly one period:
//  1. snapshot the participation ratio before anything mutates,
//  2. draw the next market state from the adjusted distribution,
//  3. fold the new state's multiplier into the market index,
//  4. let every agent decide and then update its value,
//  5. record the state and the aggregate active value.
func (e *Engine) step(ctx context.Context) (market.State, error) {
	ratio := e.pop.ParticipationRatio()
	next := e.model.Transition(e.state, ratio, e.rng)
	e.state = next
	e.index *= e.model.Multiplier(next)

	if err := e.updateAgents(ctx, next); err != nil {
		return next, err
	}

	e.history = append(e.history, PeriodRecord{
		Period:      e.period,
		State:       next,
		ActiveValue: e.pop.TotalActiveValue(),
	})
	e.period++
	return next, nil
}

// updateAgents runs Decide then UpdateValue for every agent. Agents are
// mutually independent within a period, so with more than one worker the
// population is sharded across goroutines, each shard drawing from its own
// rng seeded off the master stream.
func (e *Engine) updateAgents(ctx context.Context, next market.State) error {
	agents := e.pop.Agents()
	mults := e.model.Multipliers()

	if e.workers == 1 || len(agents) < e.workers {
		for _, a := range agents {
			a.Decide(next, e.index, e.rng)
			a.UpdateValue(next, mults)
		}
		return nil
	}

	shardSize := (len(agents) + e.workers - 1) / e.workers
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(agents); start += shardSize {
		end := start + shardSize
		if end > len(agents) {
			end = len(agents)
		}
		shard := agents[start:end]
		shardRng := rand.New(rand.NewSource(e.rng.Int63()))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for _, a := range shard {
				a.Decide(next, e.index, shardRng)
				a.UpdateValue(next, mults)
			}
			return nil
		})
	}
	return g.Wait()
}

// RunInterval simulates up to n periods, clamping at the horizon, and
// returns the states traversed. Cancellation is honored between periods;
// a cancelled interval returns what it completed along with the error.
func (e *Engine) RunInterval(ctx context.Context, n int) (IntervalResult, error) {
	if n < 1 {
		return IntervalResult{}, fmt.Errorf("interval must be at least 1 period, got %d", n)
	}

	res := IntervalResult{Requested: n}
	steps := n
	if remaining := e.Remaining(); steps > remaining {
		steps = remaining
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}
		next, err := e.step(ctx)
		if err != nil {
			return res, fmt.Errorf("period %d: %w", e.period, err)
		}
		res.States = append(res.States, next)
		res.Simulated++
	}
	return res, nil
}

// History returns a copy of the recorded (state, aggregate value) series.
func (e *Engine) History() []PeriodRecord {
	out := make([]PeriodRecord, len(e.history))
	copy(out, e.history)
	return out
}

// CurrentState returns the market state as of the last simulated period.
func (e *Engine) CurrentState() market.State { return e.state }

// MarketIndex returns the cumulative product of multipliers so far.
func (e *Engine) MarketIndex() float64 { return e.index }

// Period returns how many periods have been simulated.
func (e *Engine) Period() int { return e.period }

// Horizon returns the configured total number of periods.
func (e *Engine) Horizon() int { return e.horizon }

// Remaining returns how many periods are left before the horizon.
func (e *Engine) Remaining() int { return e.horizon - e.period }

// Population exposes the agent population for reporting.
func (e *Engine) Population() *agent.Population { return e.pop }
