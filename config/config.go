// Package config holds pipeline configuration with precedence
// CLI flags > config file > environment > defaults.
package config

import (
	"fmt"
	"os"
)

const (
	// DefaultChunkDuration is the default duration cap per output chunk
	// in seconds (two hours).
	DefaultChunkDuration = 7200

	// MinChunkDuration is the minimum allowed chunk duration cap in seconds.
	MinChunkDuration = 1

	// MaxChunkDuration is the maximum allowed chunk duration cap in seconds
	// (24 hours).
	MaxChunkDuration = 86400

	// DefaultWorkers is the default worker pool size for parallel rendering.
	DefaultWorkers = 4
)

// Config holds all pipeline configuration options.
type Config struct {
	// Required paths
	CSVPath      string `yaml:"csv"`
	MovieFolder  string `yaml:"movie_folder"`
	OutputFolder string `yaml:"output_folder"`

	// Execution settings
	ChunkDuration int    `yaml:"chunk_duration"` // seconds per output chunk
	Workers       int    `yaml:"workers"`        // worker pool size
	Sequential    bool   `yaml:"sequential"`     // disable the worker pool
	Chunks        string `yaml:"chunks"`         // chunk subset selection, e.g. "1,3-4"

	// Output settings
	VideoCodec string `yaml:"video_codec"`
	AudioCodec string `yaml:"audio_codec"`

	// Behavioral flags
	Verbose bool `yaml:"verbose"`
	DryRun  bool `yaml:"dry_run"` // show the plan without rendering
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ChunkDuration: DefaultChunkDuration,
		Workers:       DefaultWorkers,
		Sequential:    false,
		VideoCodec:    "libx264",
		AudioCodec:    "aac",
	}
}

// ApplyEnv fills unset required paths from MEGA_CUT_* environment variables.
func (c *Config) ApplyEnv() {
	if c.CSVPath == "" {
		c.CSVPath = os.Getenv("MEGA_CUT_CSV")
	}
	if c.MovieFolder == "" {
		c.MovieFolder = os.Getenv("MEGA_CUT_MOVIE_FOLDER")
	}
	if c.OutputFolder == "" {
		c.OutputFolder = os.Getenv("MEGA_CUT_OUTPUT")
	}
}

// Validate checks the final merged configuration.
func (c *Config) Validate() error {
	if c.CSVPath == "" {
		return fmt.Errorf("csv path must be specified via flag, config file, or MEGA_CUT_CSV")
	}
	if c.MovieFolder == "" {
		return fmt.Errorf("movie folder must be specified via flag, config file, or MEGA_CUT_MOVIE_FOLDER")
	}
	if c.OutputFolder == "" {
		return fmt.Errorf("output folder must be specified via flag, config file, or MEGA_CUT_OUTPUT")
	}
	if c.ChunkDuration < MinChunkDuration {
		return fmt.Errorf("chunk duration must be at least %d seconds", MinChunkDuration)
	}
	if c.ChunkDuration > MaxChunkDuration {
		return fmt.Errorf("chunk duration cannot exceed %d seconds", MaxChunkDuration)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
