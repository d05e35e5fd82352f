// Package db persists trajectory estimation runs to SQLite.
package db

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/raghavs6/ego-trajectory-challenge/internal/trajectory"
)

type DB struct {
	*sql.DB
}

// OpenDB opens the database without touching the schema. Use this for
// maintenance paths where migrations manage the schema.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

// NewDB opens the database and bootstraps the schema.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id               TEXT PRIMARY KEY,
			dataset_path         TEXT,
			total_frames         BIGINT,
			valid_frames         BIGINT,
			path_length_m        DOUBLE,
			net_displacement_m   DOUBLE,
			mean_step_m          DOUBLE,
			created_at           TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS trajectory_points (
			run_id               TEXT,
			frame_id             BIGINT,
			ground_x             DOUBLE,
			ground_y             DOUBLE,
			camera_x             DOUBLE,
			camera_y             DOUBLE,
			camera_z             DOUBLE,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS idx_trajectory_points_run
			ON trajectory_points(run_id, frame_id);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// Run is one recorded estimation run.
type Run struct {
	RunID           string    `json:"run_id"`
	DatasetPath     string    `json:"dataset_path"`
	TotalFrames     int       `json:"total_frames"`
	ValidFrames     int       `json:"valid_frames"`
	PathLength      float64   `json:"path_length_m"`
	NetDisplacement float64   `json:"net_displacement_m"`
	MeanStep        float64   `json:"mean_step_m"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecordRun stores a trajectory and its summary as a new run and returns
// the generated run ID.
func (db *DB) RecordRun(datasetPath string, totalFrames int, traj *trajectory.Trajectory) (string, error) {
	runID := uuid.NewString()
	sum := traj.Summarize()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, dataset_path, total_frames, valid_frames,
			path_length_m, net_displacement_m, mean_step_m)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, datasetPath, totalFrames, sum.ValidFrames,
		sum.PathLength, sum.NetDisplacement, sum.MeanStep)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trajectory_points (run_id, frame_id, ground_x, ground_y,
			camera_x, camera_y, camera_z)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range traj.Points {
		if _, err := stmt.Exec(runID, p.FrameID, p.X, p.Y,
			p.Camera.X, p.Camera.Y, p.Camera.Z); err != nil {
			return "", fmt.Errorf("failed to insert point for frame %d: %w", p.FrameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// Runs lists recorded runs, most recent first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, dataset_path, total_frames, valid_frames,
			path_length_m, net_displacement_m, mean_step_m, created_at
		FROM runs ORDER BY created_at DESC LIMIT 500`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.DatasetPath, &r.TotalFrames, &r.ValidFrames,
			&r.PathLength, &r.NetDisplacement, &r.MeanStep, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// GetRun fetches a single run by ID. Returns sql.ErrNoRows when absent.
func (db *DB) GetRun(runID string) (Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, dataset_path, total_frames, valid_frames,
			path_length_m, net_displacement_m, mean_step_m, created_at
		FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.DatasetPath, &r.TotalFrames, &r.ValidFrames,
			&r.PathLength, &r.NetDisplacement, &r.MeanStep, &r.CreatedAt)
	return r, err
}

// TrajectoryPoints returns a run's ground-frame points in frame order.
func (db *DB) TrajectoryPoints(runID string) ([]trajectory.GroundPoint, error) {
	rows, err := db.Query(`
		SELECT frame_id, ground_x, ground_y, camera_x, camera_y, camera_z
		FROM trajectory_points WHERE run_id = ? ORDER BY frame_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []trajectory.GroundPoint
	for rows.Next() {
		var p trajectory.GroundPoint
		if err := rows.Scan(&p.FrameID, &p.X, &p.Y,
			&p.Camera.X, &p.Camera.Y, &p.Camera.Z); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// AttachAdminRoutes mounts tailsql and backup handlers on the debug mux
// for live inspection of the run database.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	// create a tailSQL instance and point it to our DB
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://trajectory.db", db.DB, &tailsql.DBOptions{
		Label: "Trajectory DB",
	})

	// mount the tailSQL server on the debug /tailsql path
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backupPath))
		http.ServeFile(w, r, backupPath)
	}))
}
