// Package plot renders the aggregate-value time series as a terminal line
// chart. The chart stays on screen until a key is pressed.
package plot

import (
	"fmt"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"herdsim/internal/engine"
)

// Show draws one line of total active market value per simulated period
// and blocks until a keypress. It needs at least two points to draw a line.
func Show(history []engine.PeriodRecord) error {
	if len(history) < 2 {
		return fmt.Errorf("need at least 2 periods to plot, have %d", len(history))
	}

	if err := ui.Init(); err != nil {
		return fmt.Errorf("initializing terminal ui: %w", err)
	}
	defer ui.Close()

	series := make([]float64, len(history))
	for i, rec := range history {
		series[i] = rec.ActiveValue
	}

	p := widgets.NewPlot()
	p.Title = "Total Active Market Value by Year (press any key to exit)"
	p.Data = [][]float64{series}
	p.SetRect(0, 0, 100, 25)
	p.AxesColor = ui.ColorWhite
	p.LineColors = []ui.Color{ui.ColorGreen}
	p.Marker = widgets.MarkerBraille

	ui.Render(p)

	for e := range ui.PollEvents() {
		if e.Type == ui.KeyboardEvent {
			break
		}
	}
	return nil
}
