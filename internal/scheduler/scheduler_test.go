package scheduler

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"herdsim/internal/agent"
	"herdsim/internal/engine"
	"herdsim/internal/market"
	"herdsim/internal/report"
)

func newTestEngine(t *testing.T, horizon int) *engine.Engine {
	t.Helper()
	model, err := market.NewModel(market.DefaultMatrix(), market.DefaultMultipliers())
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(42))
	pop, err := agent.NewRandomPopulation(20, agent.DefaultProfiles(), rng)
	if err != nil {
		t.Fatal(err)
	}
	eng, err := engine.New(model, pop, market.Flat, horizon, 1, rng)
	if err != nil {
		t.Fatal(err)
	}
	return eng
}

func TestScheduleSource_ReplaysThenHandsOutRemainder(t *testing.T) {
	src := NewScheduleSource([]int{3, 2})

	for _, want := range []int{3, 2} {
		n, err := src.Next(20)
		if err != nil {
			t.Fatal(err)
		}
		if n != want {
			t.Errorf("got %d, want %d", n, want)
		}
	}

	n, err := src.Next(15)
	if err != nil {
		t.Fatal(err)
	}
	if n != 15 {
		t.Errorf("exhausted schedule should yield the remainder, got %d", n)
	}
}

func TestScheduleSource_EmptyRunsWholeHorizon(t *testing.T) {
	src := NewScheduleSource(nil)
	n, err := src.Next(20)
	if err != nil {
		t.Fatal(err)
	}
	if n != 20 {
		t.Errorf("got %d, want 20", n)
	}
}

func TestPromptSource_RetriesOnInvalidInput(t *testing.T) {
	var out bytes.Buffer
	src := NewPromptSource(strings.NewReader("abc\n0\n 3 \n"), &out)

	n, err := src.Next(10)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("got %d, want 3", n)
	}
	if got := strings.Count(out.String(), "Please enter a whole number"); got != 2 {
		t.Errorf("expected 2 retry messages, got %d in %q", got, out.String())
	}
}

func TestPromptSource_EOFRunsRemainder(t *testing.T) {
	var out bytes.Buffer
	src := NewPromptSource(strings.NewReader(""), &out)

	n, err := src.Next(7)
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Errorf("got %d, want 7", n)
	}
}

func TestScheduler_RunsToHorizon(t *testing.T) {
	eng := newTestEngine(t, 5)
	var buf bytes.Buffer
	sched := New(eng, report.NewPrinter(&buf), NewScheduleSource([]int{2}), nil, "")

	if err := sched.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if eng.Remaining() != 0 {
		t.Errorf("remaining %d, want 0", eng.Remaining())
	}
	out := buf.String()
	if !strings.Contains(out, "After Year 2") {
		t.Errorf("missing first interval header in %q", out)
	}
	if !strings.Contains(out, "Final Summary (5 years)") {
		t.Errorf("missing final summary in %q", out)
	}
	if !strings.Contains(out, "Year 1:") || !strings.Contains(out, "Year 5:") {
		t.Errorf("missing market recap lines in %q", out)
	}
}

func TestScheduler_ReportsClamp(t *testing.T) {
	eng := newTestEngine(t, 5)
	var buf bytes.Buffer
	sched := New(eng, report.NewPrinter(&buf), NewScheduleSource([]int{15}), nil, "")

	if err := sched.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := "Adjusting to 5 year(s) to stay within the 5-year limit."
	if !strings.Contains(buf.String(), want) {
		t.Errorf("missing clamp message in %q", buf.String())
	}
}

func TestScheduler_CancelledBeforeStart(t *testing.T) {
	eng := newTestEngine(t, 5)
	var buf bytes.Buffer
	sched := New(eng, report.NewPrinter(&buf), NewScheduleSource(nil), nil, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sched.Run(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if eng.Period() != 0 {
		t.Errorf("simulated %d periods after cancellation", eng.Period())
	}
}
