// Package stats computes the descriptive summaries the reports print.
package stats

import (
	"github.com/montanaflynn/stats"
)

// Mode is the result of a mode computation. Unique is false whenever the
// maximum frequency is shared between values (or no value repeats at all);
// callers must branch on it instead of reading Value blindly.
type Mode struct {
	Value  float64
	Unique bool
}

// Summary holds descriptive statistics for one group of agent values.
// A Count of zero means there was no data; every other field is zero and
// meaningless in that case.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	Mode   Mode
}

// Summarize computes the summary for a value group. An empty group yields
// Summary{Count: 0} rather than an error.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	s := Summary{
		Count:  len(values),
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
	}

	// stats.Mode returns every value tied for the maximum frequency, and
	// nothing when no value stands out; a unique mode is exactly one entry.
	modes, _ := stats.Mode(values)
	if len(modes) == 1 {
		s.Mode = Mode{Value: modes[0], Unique: true}
	}
	return s
}
