package dataset

import (
	"archive/zip"
	"errors"
	"fmt"
	"strings"

	"github.com/sbinet/npyio"
)

// ErrOutOfBounds is returned when a pixel coordinate falls outside the
// depth map dimensions.
var ErrOutOfBounds = errors.New("pixel coordinates out of bounds")

// depthKeyPreference lists the npz member names probed for the depth
// array, in order. Falls back to the first member when none match.
var depthKeyPreference = []string{"xyz", "points"}

// DepthMap holds per-pixel camera-space coordinates from one RGB-D frame.
// The backing array has shape (Rows, Cols, Channels) with Channels >= 3;
// channels beyond the first three (X, Y, Z) are ignored.
type DepthMap struct {
	Rows     int
	Cols     int
	Channels int
	data     []float64 // row-major, len = Rows*Cols*Channels
}

// PointAt returns the camera-space (X, Y, Z) stored at pixel row v,
// column u. Returns ErrOutOfBounds when (u, v) is outside the map.
func (m *DepthMap) PointAt(u, v int) (x, y, z float64, err error) {
	if v < 0 || v >= m.Rows || u < 0 || u >= m.Cols {
		return 0, 0, 0, fmt.Errorf("pixel (%d, %d) outside %dx%d map: %w", u, v, m.Cols, m.Rows, ErrOutOfBounds)
	}
	base := (v*m.Cols + u) * m.Channels
	return m.data[base], m.data[base+1], m.data[base+2], nil
}

// ReadDepthNPZ reads a NumPy .npz archive holding one (H, W, C) float
// array of camera-space coordinates. Archive members named "xyz" or
// "points" are preferred; otherwise the first member is used.
func ReadDepthNPZ(path string) (*DepthMap, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open npz %s: %w", path, err)
	}
	defer zr.Close()

	if len(zr.File) == 0 {
		return nil, fmt.Errorf("npz %s has no members", path)
	}

	member := zr.File[0]
	for _, key := range depthKeyPreference {
		if f := findMember(zr.File, key); f != nil {
			member = f
			break
		}
	}

	rc, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open npz member %s: %w", member.Name, err)
	}
	defer rc.Close()

	r, err := npyio.NewReader(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read npy header in %s: %w", path, err)
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 3 {
		return nil, fmt.Errorf("npz %s: expected (H, W, C) array, got shape %v", path, shape)
	}
	if shape[2] < 3 {
		return nil, fmt.Errorf("npz %s: need at least 3 channels, got %d", path, shape[2])
	}
	if r.Header.Descr.Fortran {
		return nil, fmt.Errorf("npz %s: fortran-order arrays are not supported", path)
	}

	n := shape[0] * shape[1] * shape[2]
	data := make([]float64, 0, n)

	switch dt := r.Header.Descr.Type; dt {
	case "<f4", "=f4", "|f4", "f4":
		raw := make([]float32, n)
		if err := r.Read(&raw); err != nil {
			return nil, fmt.Errorf("failed to read npz %s: %w", path, err)
		}
		for _, v := range raw {
			data = append(data, float64(v))
		}
	case "<f8", "=f8", "|f8", "f8":
		raw := make([]float64, n)
		if err := r.Read(&raw); err != nil {
			return nil, fmt.Errorf("failed to read npz %s: %w", path, err)
		}
		data = raw
	default:
		return nil, fmt.Errorf("npz %s: unsupported dtype %q", path, dt)
	}

	if len(data) != n {
		return nil, fmt.Errorf("npz %s: short array, got %d values want %d", path, len(data), n)
	}

	return &DepthMap{
		Rows:     shape[0],
		Cols:     shape[1],
		Channels: shape[2],
		data:     data,
	}, nil
}

// findMember locates a zip member by npz key, tolerating the ".npy"
// suffix numpy.savez appends to member names.
func findMember(files []*zip.File, key string) *zip.File {
	for _, f := range files {
		if f.Name == key || strings.TrimSuffix(f.Name, ".npy") == key {
			return f
		}
	}
	return nil
}
