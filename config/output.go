package config

import (
	"fmt"

	"github.com/kilianp07/bikecast/pkg/export"
)

// DefaultOutputPath is where generate writes when no path is configured.
const DefaultOutputPath = "data/raw/sample_bike_weather.csv"

// OutputConfig selects the primary dataset file.
type OutputConfig struct {
	// Path of the written dataset. Parent directories are created.
	Path string `json:"path"`
	// Format is csv, jsonl or xlsx. Empty derives it from the extension.
	Format string `json:"format" validate:"omitempty,oneof=csv jsonl xlsx"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = DefaultOutputPath
	}
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("unknown output format %s", c.Format)
	}
	return nil
}

// ResolvedFormat returns Format or the one implied by the file extension,
// falling back to csv.
func (c OutputConfig) ResolvedFormat() string {
	if c.Format != "" {
		return c.Format
	}
	return export.FormatFromPath(c.Path)
}
