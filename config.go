package orthobloch

import (
	"io"
	"log/slog"

	"github.com/teranos/orthobloch/scene"
)

// Control ranges in degrees.
const (
	ThetaMax = 180.0
	PhiMax   = 360.0
)

// Config configures a Viewer.
//
// Example usage:
//
//	config := orthobloch.DefaultConfig().
//		WithAngles(90, 0).
//		WithExportDir("frames/")
//
//	viewer := orthobloch.NewViewer(config)
type Config struct {
	// ThetaDeg and PhiDeg are the initial explicit angles
	ThetaDeg float64
	PhiDeg   float64
	// Preset, if set, overrides the initial angles
	Preset string
	// Build controls scene geometry
	Build scene.BuildOptions
	// Raster sizes exported PNG snapshots
	Raster scene.RasterConfig
	// Terminal sizes the in-terminal plot
	Terminal scene.TerminalConfig
	// ExportDir receives snapshots saved with the s key
	ExportDir string
	// Logger receives selection and export events
	Logger *slog.Logger
}

// DefaultConfig returns the viewer defaults:
//   - θ = 60°, φ = 45°
//   - 100×100 sphere mesh
//   - 800×600 snapshots written to the working directory
//   - a logger that discards everything
func DefaultConfig() Config {
	return Config{
		ThetaDeg:  60,
		PhiDeg:    45,
		Build:     scene.DefaultBuildOptions(),
		Raster:    scene.DefaultRasterConfig(),
		Terminal:  scene.DefaultTerminalConfig(),
		ExportDir: ".",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithAngles sets the initial explicit angles, clamped to the control ranges.
func (c Config) WithAngles(thetaDeg, phiDeg float64) Config {
	c.ThetaDeg = clamp(thetaDeg, 0, ThetaMax)
	c.PhiDeg = clamp(phiDeg, 0, PhiMax)
	c.Preset = ""
	return c
}

// WithPreset starts the viewer on a preset, by label or alias.
func (c Config) WithPreset(name string) Config {
	c.Preset = name
	return c
}

func (c Config) WithExportDir(dir string) Config {
	c.ExportDir = dir
	return c
}

func (c Config) WithLogger(logger *slog.Logger) Config {
	c.Logger = logger
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
