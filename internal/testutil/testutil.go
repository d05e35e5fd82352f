// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NPYBytes encodes a float32 array of the given shape as a NumPy v1.0
// .npy file. Data is row-major (C order), little endian.
func NPYBytes(t *testing.T, shape []int, data []float32) []byte {
	t.Helper()
	if len(data) != shapeSize(shape) {
		t.Fatalf("NPYBytes: shape %v wants %d values, got %d", shape, shapeSize(shape), len(data))
	}
	return npyEncode(t, "<f4", false, shape, data)
}

// NPYBytes64 encodes a float64 array as a '<f8' NumPy v1.0 .npy file.
func NPYBytes64(t *testing.T, shape []int, data []float64) []byte {
	t.Helper()
	if len(data) != shapeSize(shape) {
		t.Fatalf("NPYBytes64: shape %v wants %d values, got %d", shape, shapeSize(shape), len(data))
	}
	return npyEncode(t, "<f8", false, shape, data)
}

// NPYBytesFortran encodes a float32 array with fortran_order set, for
// exercising rejection of column-major input.
func NPYBytesFortran(t *testing.T, shape []int, data []float32) []byte {
	t.Helper()
	if len(data) != shapeSize(shape) {
		t.Fatalf("NPYBytesFortran: shape %v wants %d values, got %d", shape, shapeSize(shape), len(data))
	}
	return npyEncode(t, "<f4", true, shape, data)
}

func shapeSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func npyEncode(t *testing.T, descr string, fortran bool, shape []int, data interface{}) []byte {
	t.Helper()

	dims := ""
	for i, d := range shape {
		if i > 0 {
			dims += ", "
		}
		dims += fmt.Sprintf("%d", d)
	}
	if len(shape) == 1 {
		dims += ","
	}
	order := "False"
	if fortran {
		order = "True"
	}

	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': (%s), }", descr, order, dims)
	// Pad so magic+version+len+header is a multiple of 64 bytes, newline-terminated.
	total := 10 + len(header) + 1
	pad := (64 - total%64) % 64
	for i := 0; i < pad; i++ {
		header += " "
	}
	header += "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(header))); err != nil {
		t.Fatalf("npyEncode: %v", err)
	}
	buf.WriteString(header)
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		t.Fatalf("npyEncode: %v", err)
	}
	return buf.Bytes()
}

// NPZMember is one named array in a .npz archive.
type NPZMember struct {
	Key string
	NPY []byte
}

// WriteNPZMembers writes a .npz archive holding the given members in
// order, matching what numpy.savez produces.
func WriteNPZMembers(t *testing.T, path string, members []NPZMember) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("WriteNPZMembers: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.Create(m.Key + ".npy")
		if err != nil {
			t.Fatalf("WriteNPZMembers: %v", err)
		}
		if _, err := w.Write(m.NPY); err != nil {
			t.Fatalf("WriteNPZMembers: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("WriteNPZMembers: %v", err)
	}
}

// WriteNPZ writes a NumPy .npz archive holding a single float32 array
// under the given key.
func WriteNPZ(t *testing.T, path, key string, shape []int, data []float32) {
	t.Helper()
	WriteNPZMembers(t, path, []NPZMember{{Key: key, NPY: NPYBytes(t, shape, data)}})
}

// FlatDepthGrid builds row-major (rows, cols, 3) depth data where every
// pixel holds (x0+u, y0+v, z). Handy for asserting exact lookups.
func FlatDepthGrid(rows, cols int, x0, y0, z float32) []float32 {
	data := make([]float32, 0, rows*cols*3)
	for v := 0; v < rows; v++ {
		for u := 0; u < cols; u++ {
			data = append(data, x0+float32(u), y0+float32(v), z)
		}
	}
	return data
}

// WriteBBoxCSV writes a bounding-box CSV with an x1,y1,x2,y2 header.
func WriteBBoxCSV(t *testing.T, path string, rows [][4]float64) {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("x1,y1,x2,y2\n")
	for _, r := range rows {
		fmt.Fprintf(&buf, "%g,%g,%g,%g\n", r[0], r[1], r[2], r[3])
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteBBoxCSV: %v", err)
	}
}

// MakeDatasetDir lays out a minimal dataset directory: bbox_light.csv,
// an empty rgb/ dir, and an xyz/ dir the caller can fill with depth maps.
func MakeDatasetDir(t *testing.T, boxes [][4]float64) string {
	t.Helper()

	root := t.TempDir()
	for _, sub := range []string{"rgb", "xyz"} {
		if err := os.Mkdir(filepath.Join(root, sub), 0755); err != nil {
			t.Fatalf("MakeDatasetDir: %v", err)
		}
	}
	WriteBBoxCSV(t, filepath.Join(root, "bbox_light.csv"), boxes)
	return root
}
