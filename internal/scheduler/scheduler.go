// Package scheduler orchestrates a full simulation run: it pulls interval
// sizes from a source (the configured schedule or interactive prompts),
// drives the engine, prints the per-interval reports, and archives the
// finished run.
package scheduler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"herdsim/internal/engine"
	"herdsim/internal/report"
	"herdsim/internal/stats"
	"herdsim/internal/store"
)

// IntervalSource yields the next interval size to simulate. remaining is
// always at least 1 when Next is called.
type IntervalSource interface {
	Next(remaining int) (int, error)
}

// ScheduleSource replays a fixed interval schedule, then hands out the
// remainder of the horizon in one final interval. An empty schedule runs
// the whole horizon at once.
type ScheduleSource struct {
	intervals []int
	pos       int
}

func NewScheduleSource(intervals []int) *ScheduleSource {
	return &ScheduleSource{intervals: intervals}
}

func (s *ScheduleSource) Next(remaining int) (int, error) {
	if s.pos >= len(s.intervals) {
		return remaining, nil
	}
	n := s.intervals[s.pos]
	s.pos++
	return n, nil
}

// PromptSource asks the user for each interval size, re-asking on invalid
// input. Oversized entries are accepted and left to the engine's horizon
// clamp, which is then reported. EOF on the input runs out the remainder.
type PromptSource struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPromptSource(in io.Reader, out io.Writer) *PromptSource {
	return &PromptSource{in: bufio.NewScanner(in), out: out}
}

func (p *PromptSource) Next(remaining int) (int, error) {
	for {
		fmt.Fprintf(p.out, "Enter number of years to simulate (%d remaining): ", remaining)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, fmt.Errorf("reading interval: %w", err)
			}
			fmt.Fprintln(p.out)
			return remaining, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(p.in.Text()))
		if err != nil || n < 1 {
			fmt.Fprintln(p.out, "Please enter a whole number of at least 1.")
			continue
		}
		return n, nil
	}
}

// Scheduler wires the engine to its reporting and archiving collaborators
// for one run.
type Scheduler struct {
	engine    *engine.Engine
	printer   *report.Printer
	intervals IntervalSource
	store     *store.Store // nil disables archiving
	runID     string
}

func New(eng *engine.Engine, printer *report.Printer, intervals IntervalSource, st *store.Store, runID string) *Scheduler {
	return &Scheduler{
		engine:    eng,
		printer:   printer,
		intervals: intervals,
		store:     st,
		runID:     runID,
	}
}

// Run simulates interval by interval until the horizon is reached, then
// prints the final summary and archives the run. Cancellation between
// intervals stops the run without a final report.
func (s *Scheduler) Run(ctx context.Context) error {
	for s.engine.Remaining() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := s.intervals.Next(s.engine.Remaining())
		if err != nil {
			return fmt.Errorf("next interval: %w", err)
		}

		res, err := s.engine.RunInterval(ctx, n)
		if err != nil {
			return fmt.Errorf("running interval: %w", err)
		}
		if res.Clamped() {
			s.printer.PrintClamp(res.Simulated, s.engine.Horizon())
		}

		s.reportInterval(res)
		slog.Info("interval complete",
			"requested", res.Requested,
			"simulated", res.Simulated,
			"period", s.engine.Period(),
			"market_index", s.engine.MarketIndex(),
			"participation", s.engine.Population().ParticipationRatio(),
		)
	}

	s.reportFinal()

	if s.store != nil {
		if err := s.archive(); err != nil {
			return fmt.Errorf("archiving run: %w", err)
		}
	}
	return nil
}

func (s *Scheduler) reportInterval(res engine.IntervalResult) {
	pop := s.engine.Population()
	s.printer.PrintHeader(fmt.Sprintf("After Year %d", s.engine.Period()))
	firstYear := s.engine.Period() - res.Simulated + 1
	s.printer.PrintStates(firstYear, res.States)
	s.printer.PrintGroup("Active Participants", pop.ActiveValues())
	s.printer.PrintGroup("Exited Participants", pop.InactiveValues())
}

func (s *Scheduler) reportFinal() {
	pop := s.engine.Population()
	s.printer.PrintHeader(fmt.Sprintf("Final Summary (%d years)", s.engine.Period()))
	s.printer.PrintGroup("Active Participants", pop.ActiveValues())
	s.printer.PrintGroup("Exited Participants", pop.InactiveValues())
}

func (s *Scheduler) archive() error {
	pop := s.engine.Population()
	if err := s.store.RecordPeriods(s.runID, s.engine.History()); err != nil {
		return err
	}
	if err := s.store.RecordSummary(s.runID, "active", stats.Summarize(pop.ActiveValues())); err != nil {
		return err
	}
	if err := s.store.RecordSummary(s.runID, "inactive", stats.Summarize(pop.InactiveValues())); err != nil {
		return err
	}
	return s.store.FinishRun(s.runID, s.engine.MarketIndex())
}
