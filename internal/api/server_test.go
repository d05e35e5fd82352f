package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghavs6/ego-trajectory-challenge/internal/db"
	"github.com/raghavs6/ego-trajectory-challenge/internal/trajectory"
	"github.com/raghavs6/ego-trajectory-challenge/internal/units"
)

func newTestServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()
	database, err := db.NewDB(filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewServer(database, units.Meters), database
}

func recordSampleRun(t *testing.T, database *db.DB) string {
	t.Helper()
	traj := &trajectory.Trajectory{Points: []trajectory.GroundPoint{
		{FrameID: 0, X: -30, Y: 2},
		{FrameID: 1, X: -25, Y: 1},
	}}
	runID, err := database.RecordRun("/data/run1", 4, traj)
	require.NoError(t, err)
	return runID
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestListRuns(t *testing.T) {
	s, database := newTestServer(t)
	runID := recordSampleRun(t, database)

	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []db.Run
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, 2, runs[0].ValidFrames)
}

func TestListRunsEmpty(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestShowTrajectory(t *testing.T) {
	s, database := newTestServer(t)
	runID := recordSampleRun(t, database)

	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trajectory?run_id="+runID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []trajectoryPointAPI
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	want := []trajectoryPointAPI{
		{FrameID: 0, X: -30, Y: 2},
		{FrameID: 1, X: -25, Y: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trajectory mismatch (-want +got):\n%s", diff)
	}
}

func TestShowTrajectoryUnitsConversion(t *testing.T) {
	database, err := db.NewDB(filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	runID := recordSampleRun(t, database)

	s := NewServer(database, units.Feet)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trajectory?run_id="+runID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []trajectoryPointAPI
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.InDelta(t, -30*3.28084, got[0].X, 0.01)
}

func TestShowTrajectoryErrors(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("missing run_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trajectory", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown run", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trajectory?run_id=nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trajectory?run_id=x", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestTrajectoryChart(t *testing.T) {
	s, database := newTestServer(t)
	runID := recordSampleRun(t, database)

	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/trajectory?run_id="+runID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "echarts")
}

func TestTrajectoryChartErrors(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("missing run_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/trajectory", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})

	t.Run("unknown run", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/charts/trajectory?run_id=nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/charts/trajectory?run_id=x", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestShowConfig(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var cfg map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cfg))
	assert.Equal(t, units.Meters, cfg["units"])
	assert.NotEmpty(t, cfg["version"])
}
