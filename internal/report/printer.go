// Package report renders the user-facing console output: per-interval
// market recaps and group statistics. Operational logging stays on slog;
// everything here goes to the printer's writer verbatim.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"herdsim/internal/market"
	"herdsim/internal/stats"
)

// Printer writes formatted report blocks to a single destination.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// roundCents truncates monetary noise so equal-looking values actually tie
// when the mode is computed.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// PrintGroup renders the summary block for one named group of agent
// values. Values are rounded to cents before summarizing. An empty group
// prints an explicit no-data line instead of a block of zeros.
func (p *Printer) PrintGroup(name string, values []float64) {
	fmt.Fprintf(p.w, "\n--- %s ---\n", name)
	if len(values) == 0 {
		fmt.Fprintln(p.w, "No data to show.")
		return
	}

	rounded := make([]float64, len(values))
	for i, v := range values {
		rounded[i] = roundCents(v)
	}
	s := stats.Summarize(rounded)

	fmt.Fprintf(p.w, "Agents: %d\n", s.Count)
	fmt.Fprintf(p.w, "Mean:   %.2f\n", s.Mean)
	fmt.Fprintf(p.w, "Median: %.2f\n", s.Median)
	if s.Mode.Unique {
		fmt.Fprintf(p.w, "Mode:   %.2f\n", s.Mode.Value)
	} else {
		fmt.Fprintln(p.w, "Mode:   No unique mode")
	}
	fmt.Fprintf(p.w, "Min:    %.2f\n", s.Min)
	fmt.Fprintf(p.w, "Max:    %.2f\n", s.Max)
}

// PrintStates renders the interval's market recap, one line per simulated
// year. firstYear is 1-based.
func (p *Printer) PrintStates(firstYear int, states []market.State) {
	fmt.Fprintln(p.w, "\nMarket recap:")
	for i, s := range states {
		fmt.Fprintf(p.w, "Year %d: %s\n", firstYear+i, strings.ToUpper(s.String()))
	}
}

// PrintClamp reports that a requested interval was shortened to stay
// inside the horizon.
func (p *Printer) PrintClamp(simulated, horizon int) {
	fmt.Fprintf(p.w, "Adjusting to %d year(s) to stay within the %d-year limit.\n", simulated, horizon)
}

// PrintHeader renders the banner for an interval or the final summary.
func (p *Printer) PrintHeader(title string) {
	fmt.Fprintf(p.w, "\n========== %s ==========\n", title)
}
