package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// BBox is a detection rectangle in pixel space. Coordinates follow the
// detector convention: (X1,Y1) top-left, (X2,Y2) bottom-right.
type BBox struct {
	X1, Y1, X2, Y2 float64
}

// IsZero reports whether the box is the all-zeros placeholder the detector
// emits for frames with no detection.
func (b BBox) IsZero() bool {
	return b.X1 == 0 && b.Y1 == 0 && b.X2 == 0 && b.Y2 == 0
}

// Center returns the box midpoint truncated to integer pixel coordinates.
func (b BBox) Center() (u, v int) {
	return int((b.X1 + b.X2) / 2), int((b.Y1 + b.Y2) / 2)
}

// LoadBBoxes parses a bounding-box CSV. The file must have a header row
// naming at least x1,y1,x2,y2 (case-insensitive); extra columns such as a
// leading frame index are ignored. Row order defines frame order.
func LoadBBoxes(path string) ([]BBox, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbox file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse bbox CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("bbox file %s is empty", path)
	}

	cols, err := bboxColumnIndices(records[0])
	if err != nil {
		return nil, fmt.Errorf("bbox file %s: %w", path, err)
	}

	boxes := make([]BBox, 0, len(records)-1)
	for i, rec := range records[1:] {
		var vals [4]float64
		for j, col := range cols {
			if col >= len(rec) {
				return nil, fmt.Errorf("bbox file %s row %d: missing column %d", path, i+1, col)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("bbox file %s row %d: invalid value %q: %w", path, i+1, rec[col], err)
			}
			vals[j] = v
		}
		boxes = append(boxes, BBox{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]})
	}

	return boxes, nil
}

// bboxColumnIndices locates the x1,y1,x2,y2 columns in a header row.
func bboxColumnIndices(header []string) ([4]int, error) {
	var cols [4]int
	names := [4]string{"x1", "y1", "x2", "y2"}
	for i, name := range names {
		found := -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				found = j
				break
			}
		}
		if found < 0 {
			return cols, fmt.Errorf("header missing column %q (got %v)", name, header)
		}
		cols[i] = found
	}
	return cols, nil
}
