package stats

import (
	"math"
	"testing"
)

func TestSummarize_EmptyGroup(t *testing.T) {
	s := Summarize(nil)
	if s.Count != 0 {
		t.Errorf("count %d, want 0", s.Count)
	}
	if s.Mode.Unique {
		t.Error("empty group must not report a unique mode")
	}
}

func TestSummarize_KnownValues(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})
	if s.Count != 4 {
		t.Errorf("count %d, want 4", s.Count)
	}
	if math.Abs(s.Mean-2.5) > 1e-9 {
		t.Errorf("mean %.6f, want 2.5", s.Mean)
	}
	if math.Abs(s.Median-2.5) > 1e-9 {
		t.Errorf("median %.6f, want 2.5", s.Median)
	}
	if s.Min != 1 || s.Max != 4 {
		t.Errorf("min/max %.2f/%.2f, want 1/4", s.Min, s.Max)
	}
}

func TestSummarize_TiedModeNotUnique(t *testing.T) {
	s := Summarize([]float64{1, 1, 2, 2})
	if s.Mode.Unique {
		t.Errorf("tied frequencies must not yield a unique mode, got %.2f", s.Mode.Value)
	}
}

func TestSummarize_UniqueMode(t *testing.T) {
	s := Summarize([]float64{1, 1, 1, 2})
	if !s.Mode.Unique {
		t.Fatal("expected a unique mode")
	}
	if s.Mode.Value != 1 {
		t.Errorf("mode %.2f, want 1", s.Mode.Value)
	}
}

func TestSummarize_NoRepeatsNotUnique(t *testing.T) {
	s := Summarize([]float64{1, 2, 3})
	if s.Mode.Unique {
		t.Errorf("no value repeats, must not yield a unique mode, got %.2f", s.Mode.Value)
	}
}

func TestSummarize_SingleValue(t *testing.T) {
	s := Summarize([]float64{5})
	if !s.Mode.Unique || s.Mode.Value != 5 {
		t.Errorf("single value should be its own mode, got %+v", s.Mode)
	}
	if s.Mean != 5 || s.Median != 5 || s.Min != 5 || s.Max != 5 {
		t.Errorf("unexpected summary %+v", s)
	}
}
