// Command trajectory runs the estimation pipeline over one dataset:
// it loads the bounding-box table and depth maps, estimates the
// ground-frame path, writes the plot artifacts, and optionally records
// the run to SQLite.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	_ "modernc.org/sqlite"

	"github.com/raghavs6/ego-trajectory-challenge/internal/config"
	"github.com/raghavs6/ego-trajectory-challenge/internal/dataset"
	"github.com/raghavs6/ego-trajectory-challenge/internal/db"
	"github.com/raghavs6/ego-trajectory-challenge/internal/monitoring"
	"github.com/raghavs6/ego-trajectory-challenge/internal/render"
	"github.com/raghavs6/ego-trajectory-challenge/internal/trajectory"
	"github.com/raghavs6/ego-trajectory-challenge/internal/units"
	"github.com/raghavs6/ego-trajectory-challenge/internal/version"
)

var (
	datasetPath = flag.String("dataset", "", "Dataset directory (overrides config)")
	configPath  = flag.String("config", "", "Optional pipeline config JSON")
	plotOut     = flag.String("plot", "trajectory.png", "Static plot output path (empty to skip)")
	chartOut    = flag.String("chart", "trajectory.html", "Interactive chart output path (empty to skip)")
	dbPath      = flag.String("db", "", "Record the run to this SQLite database (empty to skip)")
	plotUnits   = flag.String("units", "", "Plot axis units: m or ft (overrides config)")
	quiet       = flag.Bool("quiet", false, "Suppress per-frame observation logging")
)

func main() {
	flag.Parse()
	log.Printf("trajectory %s", version.String())

	cfg := config.EmptyPipelineConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	root := cfg.GetDatasetPath()
	if *datasetPath != "" {
		root = *datasetPath
	}

	axisUnits := cfg.GetPlotUnits()
	if *plotUnits != "" {
		if !units.IsValid(*plotUnits) {
			log.Fatalf("invalid units %q, must be one of %s", *plotUnits, units.GetValidUnitsString())
		}
		axisUnits = *plotUnits
	}

	ds, err := dataset.Open(root, dataset.Layout{
		BBoxFile:         cfg.GetBBoxFile(),
		RGBDir:           cfg.GetRGBDir(),
		DepthDir:         cfg.GetDepthDir(),
		DepthFilePattern: cfg.GetDepthFilePattern(),
	})
	if err != nil {
		log.Fatalf("failed to open dataset: %v", err)
	}

	log.Printf("loaded %d bounding box entries", ds.FrameCount())
	log.Printf("bbox columns: [x1 y1 x2 y2]")
	log.Printf("bbox head: %+v", ds.Head(5))
	log.Printf("found %d RGB frames", len(ds.RGBFrames))
	log.Printf("found %d depth frames", len(ds.DepthFrames))

	est := trajectory.NewEstimator(ds)
	est.Verbose = !*quiet
	if *quiet {
		monitoring.SetLogger(nil)
	}

	traj, err := est.Estimate()
	if err != nil {
		if errors.Is(err, trajectory.ErrInsufficientFrames) {
			log.Printf("failed to estimate trajectory: %v", err)
			log.Printf("check data quality")
			os.Exit(1)
		}
		log.Fatalf("estimation failed: %v", err)
	}

	sum := traj.Summarize()
	log.Printf("total valid frames: %d", sum.ValidFrames)
	log.Printf("start position: (%.2f, %.2f)", traj.Start().X, traj.Start().Y)
	log.Printf("end position: (%.2f, %.2f)", traj.End().X, traj.End().Y)
	log.Printf("path length: %.2f m, net displacement: %.2f m", sum.PathLength, sum.NetDisplacement)

	opts := render.Defaults()
	opts.WidthInches = cfg.GetPlotWidthInches()
	opts.HeightInches = cfg.GetPlotHeightInches()
	opts.Margin = cfg.GetPlotMarginMeters()
	opts.Units = axisUnits

	if *plotOut != "" {
		if err := render.SaveTrajectoryPlot(traj, opts, *plotOut); err != nil {
			log.Fatalf("failed to save trajectory plot: %v", err)
		}
		log.Printf("trajectory plot saved to %s", *plotOut)
	}

	if *chartOut != "" {
		// Chart export failure is not fatal; the static plot already exists.
		if err := render.SaveTrajectoryChart(traj, opts, *chartOut); err != nil {
			log.Printf("could not save interactive chart: %v", err)
		} else {
			log.Printf("interactive chart saved to %s", *chartOut)
		}
	}

	if *dbPath != "" {
		database, err := db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer database.Close()

		runID, err := database.RecordRun(root, ds.FrameCount(), traj)
		if err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
		log.Printf("recorded run %s", runID)
	}
}
