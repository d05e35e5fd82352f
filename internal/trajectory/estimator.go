package trajectory

import (
	"log"

	"github.com/raghavs6/ego-trajectory-challenge/internal/dataset"
	"github.com/raghavs6/ego-trajectory-challenge/internal/monitoring"
)

// Estimator walks a dataset frame by frame and assembles the ground-frame
// trajectory. Frames without a usable observation are skipped with a log
// line; the estimation only fails outright when fewer than two frames
// survive.
type Estimator struct {
	ds *dataset.Dataset

	// Verbose controls the per-frame observation log lines.
	Verbose bool
}

// NewEstimator returns an Estimator over an opened dataset.
func NewEstimator(ds *dataset.Dataset) *Estimator {
	return &Estimator{ds: ds, Verbose: true}
}

// Estimate processes every frame in the bounding-box table and returns
// the assembled trajectory. Returns ErrInsufficientFrames when fewer than
// two frames produced a valid observation.
func (e *Estimator) Estimate() (*Trajectory, error) {
	var points []GroundPoint

	for frameID := 0; frameID < e.ds.FrameCount(); frameID++ {
		cam, ok := e.observe(frameID)
		if !ok {
			continue
		}
		if e.Verbose {
			log.Printf("frame %d: reference object at (%.2f, %.2f, %.2f)", frameID, cam.X, cam.Y, cam.Z)
		}
		points = append(points, GroundFromCamera(frameID, cam))
	}

	if len(points) < 2 {
		return nil, ErrInsufficientFrames
	}

	return &Trajectory{Points: points}, nil
}

// observe back-projects the frame's detection into camera space.
// Returns ok=false for any per-frame condition the pipeline skips over:
// no detection, missing or corrupt depth map, center pixel out of bounds.
func (e *Estimator) observe(frameID int) (CameraPoint, bool) {
	box := e.ds.BBoxes[frameID]
	if box.IsZero() {
		return CameraPoint{}, false
	}
	u, v := box.Center()

	m, err := e.ds.LoadDepthMap(frameID)
	if err != nil {
		monitoring.Logf("frame %d: skipping: %v", frameID, err)
		return CameraPoint{}, false
	}

	x, y, z, err := m.PointAt(u, v)
	if err != nil {
		monitoring.Logf("frame %d: skipping: %v", frameID, err)
		return CameraPoint{}, false
	}

	return CameraPoint{X: x, Y: y, Z: z}, true
}
