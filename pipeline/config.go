package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pattern-data/mosaic"
	"github.com/pattern-data/mosaic/window"
)

// Config holds the recognized computation options. Fields omitted from a
// JSON config retain their defaults, so partial configs are safe; the
// Get* accessors supply the fallback values.
type Config struct {
	// Realizations is the number of independent realizations n. Higher n
	// reduces Monte-Carlo variance in the metrics but not their
	// expectation; 10–100 is the practical range.
	Realizations *int `json:"n,omitempty"`

	// WindowSize is the square neighborhood side length in cells.
	WindowSize *int `json:"window_size,omitempty"`

	// Fun is the window statistic: "mean", "geometric_mean" or "focal".
	Fun *string `json:"fun,omitempty"`

	// TileSize is the tile side length in cells. Absent means the whole
	// raster is evaluated as a single extent.
	TileSize *int `json:"size,omitempty"`

	// Threshold is the minimum share of present cells an extent needs,
	// in [0,1], boundary inclusive.
	Threshold *float64 `json:"threshold,omitempty"`

	// Seed keys every realization's random stream; a fixed seed makes
	// the whole run reproducible.
	Seed *uint64 `json:"seed,omitempty"`

	// Workers bounds the realization worker pool. Absent or 0 means one
	// worker per available core.
	Workers *int `json:"workers,omitempty"`
}

// EmptyConfig returns a Config with all fields unset.
func EmptyConfig() *Config {
	return &Config{}
}

// LoadConfig loads a Config from a JSON file. The file must have a .json
// extension and be under the max file size.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

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

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that every set field is inside its documented range.
// Violations wrap ErrInvalidParameter.
func (c *Config) Validate() error {
	if c.Realizations != nil && *c.Realizations < 1 {
		return fmt.Errorf("n must be >= 1, got %d: %w", *c.Realizations, mosaic.ErrInvalidParameter)
	}
	if c.WindowSize != nil && *c.WindowSize < 1 {
		return fmt.Errorf("window_size must be >= 1, got %d: %w", *c.WindowSize, mosaic.ErrInvalidParameter)
	}
	if c.Fun != nil {
		if _, err := window.ParseFun(*c.Fun); err != nil {
			return err
		}
	}
	if c.TileSize != nil && *c.TileSize < 1 {
		return fmt.Errorf("size must be >= 1, got %d: %w", *c.TileSize, mosaic.ErrInvalidParameter)
	}
	if c.Threshold != nil && (*c.Threshold < 0 || *c.Threshold > 1) {
		return fmt.Errorf("threshold must be in [0,1], got %g: %w", *c.Threshold, mosaic.ErrInvalidParameter)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d: %w", *c.Workers, mosaic.ErrInvalidParameter)
	}
	return nil
}

// GetRealizations returns the n value or the default.
func (c *Config) GetRealizations() int {
	if c.Realizations == nil {
		return 30
	}
	return *c.Realizations
}

// GetWindowSize returns the window_size value or the default.
func (c *Config) GetWindowSize() int {
	if c.WindowSize == nil {
		return 3
	}
	return *c.WindowSize
}

// GetFun returns the fun value or the default.
func (c *Config) GetFun() window.Fun {
	if c.Fun == nil {
		return window.Mean
	}
	return window.Fun(*c.Fun)
}

// GetThreshold returns the threshold value or the default.
func (c *Config) GetThreshold() float64 {
	if c.Threshold == nil {
		return 1.0
	}
	return *c.Threshold
}

// GetSeed returns the seed value or the default.
func (c *Config) GetSeed() uint64 {
	if c.Seed == nil {
		return 1
	}
	return *c.Seed
}

// GetWorkers returns the worker pool size or the core count.
func (c *Config) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return *c.Workers
}
