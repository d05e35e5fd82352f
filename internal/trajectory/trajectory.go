// Package trajectory estimates the ego-vehicle ground-plane path from
// per-frame observations of a single fixed reference object.
//
// The reference object (a traffic light) is detected in pixel space and
// back-projected through the frame's depth map into camera coordinates.
// Because the object is stationary, the camera's motion is the mirror of
// the object's apparent motion: the vehicle position in the ground frame
// is the negated camera-space observation, projected onto the ground
// plane.
package trajectory

import "errors"

// ErrInsufficientFrames is returned when fewer than two frames produced a
// valid observation, which is too few to describe a path.
var ErrInsufficientFrames = errors.New("not enough valid frames for trajectory estimation")

// CameraPoint is one observation of the reference object in camera space.
// Axes follow the sensor convention: X forward, Y right, Z up, meters.
type CameraPoint struct {
	X, Y, Z float64
}

// GroundPoint is the vehicle position in the ground frame for one frame.
// The ground frame has its origin at the reference object's ground
// projection, X forward and Y left (right-handed, Z up), so both
// horizontal axes flip sign relative to the camera observation.
type GroundPoint struct {
	FrameID int
	X, Y    float64
	Camera  CameraPoint // source observation, kept for storage and debugging
}

// GroundFromCamera maps a camera-space observation of the reference
// object to the vehicle's ground-frame position: negate the two
// horizontal components and drop onto the ground plane.
func GroundFromCamera(frameID int, p CameraPoint) GroundPoint {
	return GroundPoint{
		FrameID: frameID,
		X:       -p.X,
		Y:       -p.Y,
		Camera:  p,
	}
}

// Trajectory is the ordered sequence of ground-frame vehicle positions.
type Trajectory struct {
	Points []GroundPoint
}

// Start returns the first point of the trajectory.
func (t *Trajectory) Start() GroundPoint { return t.Points[0] }

// End returns the last point of the trajectory.
func (t *Trajectory) End() GroundPoint { return t.Points[len(t.Points)-1] }

// FrameIDs returns the source frame ID of every point, in order.
func (t *Trajectory) FrameIDs() []int {
	ids := make([]int, len(t.Points))
	for i, p := range t.Points {
		ids[i] = p.FrameID
	}
	return ids
}
