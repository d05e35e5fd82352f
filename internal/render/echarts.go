package render

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/raghavs6/ego-trajectory-challenge/internal/trajectory"
	"github.com/raghavs6/ego-trajectory-challenge/internal/units"
)

// viridis ramp used for per-frame coloring, matching the static plot's
// cool-to-warm frame ordering.
var viridisColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// RenderTrajectoryChart writes an interactive HTML chart of the
// trajectory: an animated path line plus per-frame points colored by
// frame index, on shared symmetric value axes.
func RenderTrajectoryChart(traj *trajectory.Trajectory, rOpts Options, w io.Writer) error {
	scatterData := make([]opts.ScatterData, 0, len(traj.Points))
	lineData := make([]opts.LineData, 0, len(traj.Points))
	maxAbs := 0.0
	maxFrame := 0

	for _, gp := range traj.Points {
		x := units.ConvertDistance(gp.X, rOpts.Units)
		y := units.ConvertDistance(gp.Y, rOpts.Units)
		if math.Abs(x) > maxAbs {
			maxAbs = math.Abs(x)
		}
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
		if gp.FrameID > maxFrame {
			maxFrame = gp.FrameID
		}

		scatterData = append(scatterData, opts.ScatterData{Value: []interface{}{x, y, gp.FrameID}})
		lineData = append(lineData, opts.LineData{Value: []interface{}{x, y}})
	}

	pad := (maxAbs + units.ConvertDistance(rOpts.Margin, rOpts.Units)) * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxFrame == 0 {
		maxFrame = 1
	}

	unitName := units.AxisLabel(rOpts.Units)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Ego-Vehicle Trajectory", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: rOpts.Title, Subtitle: fmt.Sprintf("frames=%d reference object at origin", len(traj.Points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: -pad, Max: pad, Name: fmt.Sprintf("X (%s, forward)", unitName), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: -pad, Max: pad, Name: fmt.Sprintf("Y (%s, left)", unitName), NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxFrame),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridisColors},
		}),
	)

	scatter.AddSeries("frames", scatterData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	line := charts.NewLine()
	line.AddSeries("trajectory", lineData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: 2}),
	)
	scatter.Overlap(line)

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render trajectory chart: %w", err)
	}
	return nil
}

// SaveTrajectoryChart renders the interactive chart to an HTML file.
func SaveTrajectoryChart(traj *trajectory.Trajectory, rOpts Options, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}

	if err := RenderTrajectoryChart(traj, rOpts, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
