package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raghavs6/ego-trajectory-challenge/internal/testutil"
)

func TestReadDepthNPZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth000000.npz")
	testutil.WriteNPZ(t, path, "xyz", []int{2, 3, 3}, testutil.FlatDepthGrid(2, 3, 100, 200, 7))

	m, err := ReadDepthNPZ(path)
	if err != nil {
		t.Fatalf("ReadDepthNPZ: %v", err)
	}
	if m.Rows != 2 || m.Cols != 3 || m.Channels != 3 {
		t.Fatalf("shape = (%d, %d, %d), want (2, 3, 3)", m.Rows, m.Cols, m.Channels)
	}

	x, y, z, err := m.PointAt(2, 1)
	if err != nil {
		t.Fatalf("PointAt: %v", err)
	}
	if x != 102 || y != 201 || z != 7 {
		t.Errorf("PointAt(2, 1) = (%g, %g, %g), want (102, 201, 7)", x, y, z)
	}
}

func TestReadDepthNPZExtraChannels(t *testing.T) {
	// 4-channel arrays carry intensity in channel 3; only X, Y, Z are read.
	data := []float32{
		1, 2, 3, 99,
		4, 5, 6, 98,
	}
	path := filepath.Join(t.TempDir(), "depth.npz")
	testutil.WriteNPZ(t, path, "xyz", []int{1, 2, 4}, data)

	m, err := ReadDepthNPZ(path)
	if err != nil {
		t.Fatalf("ReadDepthNPZ: %v", err)
	}

	x, y, z, err := m.PointAt(1, 0)
	if err != nil {
		t.Fatalf("PointAt: %v", err)
	}
	if x != 4 || y != 5 || z != 6 {
		t.Errorf("PointAt(1, 0) = (%g, %g, %g), want (4, 5, 6)", x, y, z)
	}
}

func TestReadDepthNPZFloat64(t *testing.T) {
	data := []float64{
		1.5, 2.5, 3.5,
		4.5, 5.5, 6.5,
	}
	path := filepath.Join(t.TempDir(), "depth.npz")
	testutil.WriteNPZMembers(t, path, []testutil.NPZMember{
		{Key: "xyz", NPY: testutil.NPYBytes64(t, []int{1, 2, 3}, data)},
	})

	m, err := ReadDepthNPZ(path)
	if err != nil {
		t.Fatalf("ReadDepthNPZ: %v", err)
	}

	x, y, z, err := m.PointAt(1, 0)
	if err != nil {
		t.Fatalf("PointAt: %v", err)
	}
	if x != 4.5 || y != 5.5 || z != 6.5 {
		t.Errorf("PointAt(1, 0) = (%g, %g, %g), want (4.5, 5.5, 6.5)", x, y, z)
	}
}

func TestReadDepthNPZMemberPreference(t *testing.T) {
	t.Run("points wins over an unnamed first member", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "depth.npz")
		testutil.WriteNPZMembers(t, path, []testutil.NPZMember{
			{Key: "arr_0", NPY: testutil.NPYBytes(t, []int{1, 1, 3}, []float32{1, 2, 3})},
			{Key: "points", NPY: testutil.NPYBytes(t, []int{1, 1, 3}, []float32{7, 8, 9})},
		})

		m, err := ReadDepthNPZ(path)
		if err != nil {
			t.Fatalf("ReadDepthNPZ: %v", err)
		}
		x, y, z, err := m.PointAt(0, 0)
		if err != nil {
			t.Fatalf("PointAt: %v", err)
		}
		if x != 7 || y != 8 || z != 9 {
			t.Errorf("PointAt(0, 0) = (%g, %g, %g), want (7, 8, 9) from the points member", x, y, z)
		}
	})

	t.Run("xyz wins over points", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "depth.npz")
		testutil.WriteNPZMembers(t, path, []testutil.NPZMember{
			{Key: "points", NPY: testutil.NPYBytes(t, []int{1, 1, 3}, []float32{1, 2, 3})},
			{Key: "xyz", NPY: testutil.NPYBytes(t, []int{1, 1, 3}, []float32{4, 5, 6})},
		})

		m, err := ReadDepthNPZ(path)
		if err != nil {
			t.Fatalf("ReadDepthNPZ: %v", err)
		}
		x, y, z, err := m.PointAt(0, 0)
		if err != nil {
			t.Fatalf("PointAt: %v", err)
		}
		if x != 4 || y != 5 || z != 6 {
			t.Errorf("PointAt(0, 0) = (%g, %g, %g), want (4, 5, 6) from the xyz member", x, y, z)
		}
	})
}

func TestReadDepthNPZRejectsFortranOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.npz")
	testutil.WriteNPZMembers(t, path, []testutil.NPZMember{
		{Key: "xyz", NPY: testutil.NPYBytesFortran(t, []int{1, 2, 3}, make([]float32, 6))},
	})

	_, err := ReadDepthNPZ(path)
	if err == nil {
		t.Fatal("expected error for fortran-order array")
	}
	if !strings.Contains(err.Error(), "fortran") {
		t.Errorf("error %q should name the fortran-order rejection", err)
	}
}

func TestReadDepthNPZFallsBackToFirstMember(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.npz")
	testutil.WriteNPZ(t, path, "arr_0", []int{1, 1, 3}, []float32{9, 8, 7})

	m, err := ReadDepthNPZ(path)
	if err != nil {
		t.Fatalf("ReadDepthNPZ: %v", err)
	}
	x, y, z, err := m.PointAt(0, 0)
	if err != nil {
		t.Fatalf("PointAt: %v", err)
	}
	if x != 9 || y != 8 || z != 7 {
		t.Errorf("PointAt(0, 0) = (%g, %g, %g), want (9, 8, 7)", x, y, z)
	}
}

func TestReadDepthNPZRejectsBadShapes(t *testing.T) {
	t.Run("two-dimensional array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "depth.npz")
		testutil.WriteNPZ(t, path, "xyz", []int{2, 3}, make([]float32, 6))
		if _, err := ReadDepthNPZ(path); err == nil {
			t.Error("expected error for 2-D array")
		}
	})

	t.Run("too few channels", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "depth.npz")
		testutil.WriteNPZ(t, path, "xyz", []int{2, 3, 2}, make([]float32, 12))
		if _, err := ReadDepthNPZ(path); err == nil {
			t.Error("expected error for 2-channel array")
		}
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "depth.npz")
		if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadDepthNPZ(path); err == nil {
			t.Error("expected error for corrupt file")
		}
	})
}

func TestPointAtBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.npz")
	testutil.WriteNPZ(t, path, "xyz", []int{2, 3, 3}, testutil.FlatDepthGrid(2, 3, 0, 0, 1))

	m, err := ReadDepthNPZ(path)
	if err != nil {
		t.Fatalf("ReadDepthNPZ: %v", err)
	}

	tests := []struct {
		name string
		u, v int
	}{
		{"u past width", 3, 0},
		{"v past height", 0, 2},
		{"negative u", -1, 0},
		{"negative v", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := m.PointAt(tt.u, tt.v)
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("PointAt(%d, %d) error = %v, want ErrOutOfBounds", tt.u, tt.v, err)
			}
		})
	}
}
