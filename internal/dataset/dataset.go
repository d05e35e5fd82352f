// Package dataset loads RGB-D capture datasets: a bounding-box CSV for the
// tracked reference object plus per-frame depth maps in NumPy .npz form.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/raghavs6/ego-trajectory-challenge/internal/monitoring"
	"github.com/raghavs6/ego-trajectory-challenge/internal/security"
)

// Dataset is an opened capture directory. BBoxes row order defines frame
// order: frame ID i corresponds to BBoxes[i].
type Dataset struct {
	Root             string
	DepthDir         string
	DepthFilePattern string

	BBoxes      []BBox
	RGBFrames   []string // sorted *.png basenames under the rgb dir
	DepthFrames []string // sorted *.npz basenames under the depth dir
}

// Layout describes where a Dataset's pieces live relative to its root.
type Layout struct {
	BBoxFile         string // e.g. "bbox_light.csv"
	RGBDir           string // e.g. "rgb"
	DepthDir         string // e.g. "xyz"
	DepthFilePattern string // e.g. "depth%06d.npz", keyed by frame ID
}

// Open loads the bounding-box table and enumerates the available frames.
// A missing bbox file or depth directory is fatal; a missing RGB directory
// only logs a warning since the pipeline never reads pixel colors.
func Open(root string, layout Layout) (*Dataset, error) {
	bboxPath := filepath.Join(root, layout.BBoxFile)
	boxes, err := LoadBBoxes(bboxPath)
	if err != nil {
		return nil, err
	}

	depthDir := filepath.Join(root, layout.DepthDir)
	depthFrames, err := listByExt(depthDir, ".npz")
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate depth maps: %w", err)
	}

	rgbFrames, err := listByExt(filepath.Join(root, layout.RGBDir), ".png")
	if err != nil {
		monitoring.Logf("no RGB frames available: %v", err)
		rgbFrames = nil
	}

	return &Dataset{
		Root:             root,
		DepthDir:         depthDir,
		DepthFilePattern: layout.DepthFilePattern,
		BBoxes:           boxes,
		RGBFrames:        rgbFrames,
		DepthFrames:      depthFrames,
	}, nil
}

// FrameCount returns the number of frames in the bounding-box table.
func (d *Dataset) FrameCount() int {
	return len(d.BBoxes)
}

// Head returns the first n bounding boxes, or all of them when the table
// is shorter. Used for startup reporting.
func (d *Dataset) Head(n int) []BBox {
	if n > len(d.BBoxes) {
		n = len(d.BBoxes)
	}
	return d.BBoxes[:n]
}

// DepthMapPath returns the expected path of the depth map for a frame.
func (d *Dataset) DepthMapPath(frameID int) string {
	return filepath.Join(d.DepthDir, fmt.Sprintf(d.DepthFilePattern, frameID))
}

// LoadDepthMap reads the depth map for a frame. Returns an error the
// caller can treat as a per-frame skip when the file is missing or
// unreadable.
func (d *Dataset) LoadDepthMap(frameID int) (*DepthMap, error) {
	path := d.DepthMapPath(frameID)
	if err := security.ValidatePathWithinDirectory(path, d.DepthDir); err != nil {
		return nil, fmt.Errorf("invalid depth map path for frame %d: %w", frameID, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("depth map not found: %s: %w", path, err)
	}
	return ReadDepthNPZ(path)
}

// listByExt returns the sorted basenames of directory entries with the
// given extension.
func listByExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
