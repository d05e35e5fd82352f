// Package render produces the output artifacts for an estimated
// trajectory: a static PNG plot and an interactive HTML chart.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/raghavs6/ego-trajectory-challenge/internal/trajectory"
	"github.com/raghavs6/ego-trajectory-challenge/internal/units"
)

// Options controls the rendered output. Zero values fall back to the
// defaults the Defaults function returns.
type Options struct {
	WidthInches  float64
	HeightInches float64
	Margin       float64 // axis padding around the path, meters
	Units        string  // axis units, "m" or "ft"
	Title        string
}

// Defaults returns the standard render options.
func Defaults() Options {
	return Options{
		WidthInches:  12,
		HeightInches: 8,
		Margin:       5,
		Units:        units.Meters,
		Title:        "Ego-Vehicle Trajectory in Ground Frame",
	}
}

// SaveTrajectoryPlot writes a static plot of the trajectory: the path as
// a line, per-frame points colored by frame index, start and end markers,
// and the reference object at the origin. Axes share the same scale so
// the path geometry is not distorted.
func SaveTrajectoryPlot(traj *trajectory.Trajectory, opts Options, path string) error {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = fmt.Sprintf("X (%s) - Forward Direction", units.AxisLabel(opts.Units))
	p.Y.Label.Text = fmt.Sprintf("Y (%s) - Left Direction", units.AxisLabel(opts.Units))
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(traj.Points))
	for i, gp := range traj.Points {
		pts[i] = plotter.XY{
			X: units.ConvertDistance(gp.X, opts.Units),
			Y: units.ConvertDistance(gp.Y, opts.Units),
		}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("path line: %w", err)
	}
	line.Color = color.RGBA{B: 255, A: 255}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("Ego-vehicle trajectory", line)

	frames, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("frame scatter: %w", err)
	}
	colors := frameColors(len(pts))
	frames.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  colors[i],
			Radius: vg.Points(3),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(frames)

	start, err := markerAt(pts[0], color.RGBA{G: 200, A: 255}, draw.CircleGlyph{})
	if err != nil {
		return err
	}
	p.Add(start)
	p.Legend.Add("Start", start)

	end, err := markerAt(pts[len(pts)-1], color.RGBA{R: 220, A: 255}, draw.BoxGlyph{})
	if err != nil {
		return err
	}
	p.Add(end)
	p.Legend.Add("End", end)

	ref, err := markerAt(plotter.XY{}, color.RGBA{R: 240, G: 200, A: 255}, draw.CrossGlyph{})
	if err != nil {
		return err
	}
	p.Add(ref)
	p.Legend.Add("Traffic Light (Reference)", ref)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	setEqualAspectRanges(p, pts, units.ConvertDistance(opts.Margin, opts.Units))

	if err := p.Save(vg.Length(opts.WidthInches)*vg.Inch, vg.Length(opts.HeightInches)*vg.Inch, path); err != nil {
		return fmt.Errorf("save trajectory plot: %w", err)
	}
	return nil
}

func markerAt(pt plotter.XY, c color.Color, shape draw.GlyphDrawer) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(plotter.XYs{pt})
	if err != nil {
		return nil, fmt.Errorf("marker scatter: %w", err)
	}
	s.GlyphStyle = draw.GlyphStyle{Color: c, Radius: vg.Points(6), Shape: shape}
	return s, nil
}

// setEqualAspectRanges pads the data extent by margin on every side, then
// widens the smaller axis span so both axes cover the same distance.
func setEqualAspectRanges(p *plot.Plot, pts plotter.XYs, margin float64) {
	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, pt := range pts {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	minX, maxX = minX-margin, maxX+margin
	minY, maxY = minY-margin, maxY+margin

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX > spanY {
		pad := (spanX - spanY) / 2
		minY, maxY = minY-pad, maxY+pad
	} else {
		pad := (spanY - spanX) / 2
		minX, maxX = minX-pad, maxX+pad
	}

	p.X.Min, p.X.Max = minX, maxX
	p.Y.Min, p.Y.Max = minY, maxY
}

// frameColors builds a palette ramping across hue so early frames read
// cool and late frames warm, mirroring a sequential colormap.
func frameColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := 0.7 * float64(i) / float64(n)
		r, g, b := hslToRGB(0.7-hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
