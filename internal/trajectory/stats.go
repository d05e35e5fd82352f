package trajectory

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds aggregate statistics over a trajectory. All distances in
// meters.
type Summary struct {
	ValidFrames     int     `json:"valid_frames"`
	PathLength      float64 `json:"path_length_m"`
	NetDisplacement float64 `json:"net_displacement_m"`
	MeanStep        float64 `json:"mean_step_m"`
	MinX            float64 `json:"min_x_m"`
	MaxX            float64 `json:"max_x_m"`
	MinY            float64 `json:"min_y_m"`
	MaxY            float64 `json:"max_y_m"`
}

// Summarize computes aggregate statistics over the trajectory. An empty
// trajectory yields the zero Summary.
func (t *Trajectory) Summarize() Summary {
	n := len(t.Points)
	if n == 0 {
		return Summary{}
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range t.Points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	steps := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		steps = append(steps, math.Hypot(xs[i]-xs[i-1], ys[i]-ys[i-1]))
	}

	s := Summary{
		ValidFrames:     n,
		PathLength:      floats.Sum(steps),
		NetDisplacement: math.Hypot(xs[n-1]-xs[0], ys[n-1]-ys[0]),
		MinX:            floats.Min(xs),
		MaxX:            floats.Max(xs),
		MinY:            floats.Min(ys),
		MaxY:            floats.Max(ys),
	}
	if len(steps) > 0 {
		s.MeanStep = stat.Mean(steps, nil)
	}
	return s
}
