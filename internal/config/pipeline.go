package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raghavs6/ego-trajectory-challenge/internal/units"
)

// PipelineConfig represents the root configuration for the trajectory
// pipeline. All fields are pointers so a partial JSON file only overrides
// the values it names; the Get* methods supply defaults for the rest.
type PipelineConfig struct {
	// Dataset layout
	DatasetPath      *string `json:"dataset_path,omitempty"`
	BBoxFile         *string `json:"bbox_file,omitempty"`          // relative to dataset_path
	RGBDir           *string `json:"rgb_dir,omitempty"`            // relative to dataset_path
	DepthDir         *string `json:"depth_dir,omitempty"`          // relative to dataset_path
	DepthFilePattern *string `json:"depth_file_pattern,omitempty"` // fmt pattern keyed by frame ID

	// Render params
	PlotWidthInches  *float64 `json:"plot_width_inches,omitempty"`
	PlotHeightInches *float64 `json:"plot_height_inches,omitempty"`
	PlotMarginMeters *float64 `json:"plot_margin_meters,omitempty"`
	PlotUnits        *string  `json:"plot_units,omitempty"` // "m" or "ft"

	// Server params
	ListenAddr *string `json:"listen_addr,omitempty"`
}

// EmptyPipelineConfig returns a PipelineConfig with all fields set to nil.
// Use LoadPipelineConfig to load actual values from a JSON file.
func EmptyPipelineConfig() *PipelineConfig {
	return &PipelineConfig{}
}

// LoadPipelineConfig loads a PipelineConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyPipelineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *PipelineConfig) Validate() error {
	if c.PlotWidthInches != nil && *c.PlotWidthInches <= 0 {
		return fmt.Errorf("plot_width_inches must be positive, got %f", *c.PlotWidthInches)
	}
	if c.PlotHeightInches != nil && *c.PlotHeightInches <= 0 {
		return fmt.Errorf("plot_height_inches must be positive, got %f", *c.PlotHeightInches)
	}
	if c.PlotMarginMeters != nil && *c.PlotMarginMeters < 0 {
		return fmt.Errorf("plot_margin_meters must be non-negative, got %f", *c.PlotMarginMeters)
	}
	if c.PlotUnits != nil && !units.IsValid(*c.PlotUnits) {
		return fmt.Errorf("plot_units must be one of %s, got %q", units.GetValidUnitsString(), *c.PlotUnits)
	}
	if c.DepthFilePattern != nil && *c.DepthFilePattern != "" {
		// The pattern must consume exactly one integer verb.
		a := fmt.Sprintf(*c.DepthFilePattern, 0)
		b := fmt.Sprintf(*c.DepthFilePattern, 1)
		if a == b || strings.Contains(a, "%!") {
			return fmt.Errorf("depth_file_pattern %q does not reference the frame ID", *c.DepthFilePattern)
		}
	}
	return nil
}

// GetDatasetPath returns the dataset_path value or the default.
func (c *PipelineConfig) GetDatasetPath() string {
	if c.DatasetPath == nil || *c.DatasetPath == "" {
		return "dataset"
	}
	return *c.DatasetPath
}

// GetBBoxFile returns the bbox_file value or the default.
func (c *PipelineConfig) GetBBoxFile() string {
	if c.BBoxFile == nil || *c.BBoxFile == "" {
		return "bbox_light.csv"
	}
	return *c.BBoxFile
}

// GetRGBDir returns the rgb_dir value or the default.
func (c *PipelineConfig) GetRGBDir() string {
	if c.RGBDir == nil || *c.RGBDir == "" {
		return "rgb"
	}
	return *c.RGBDir
}

// GetDepthDir returns the depth_dir value or the default.
func (c *PipelineConfig) GetDepthDir() string {
	if c.DepthDir == nil || *c.DepthDir == "" {
		return "xyz"
	}
	return *c.DepthDir
}

// GetDepthFilePattern returns the depth_file_pattern value or the default.
func (c *PipelineConfig) GetDepthFilePattern() string {
	if c.DepthFilePattern == nil || *c.DepthFilePattern == "" {
		return "depth%06d.npz"
	}
	return *c.DepthFilePattern
}

// GetPlotWidthInches returns the plot_width_inches value or the default.
func (c *PipelineConfig) GetPlotWidthInches() float64 {
	if c.PlotWidthInches == nil {
		return 12.0
	}
	return *c.PlotWidthInches
}

// GetPlotHeightInches returns the plot_height_inches value or the default.
func (c *PipelineConfig) GetPlotHeightInches() float64 {
	if c.PlotHeightInches == nil {
		return 8.0
	}
	return *c.PlotHeightInches
}

// GetPlotMarginMeters returns the plot_margin_meters value or the default.
func (c *PipelineConfig) GetPlotMarginMeters() float64 {
	if c.PlotMarginMeters == nil {
		return 5.0
	}
	return *c.PlotMarginMeters
}

// GetPlotUnits returns the plot_units value or the default.
func (c *PipelineConfig) GetPlotUnits() string {
	if c.PlotUnits == nil || *c.PlotUnits == "" {
		return units.Meters
	}
	return *c.PlotUnits
}

// GetListenAddr returns the listen_addr value or the default.
func (c *PipelineConfig) GetListenAddr() string {
	if c.ListenAddr == nil || *c.ListenAddr == "" {
		return ":8080"
	}
	return *c.ListenAddr
}
