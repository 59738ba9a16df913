// Command orthobloch shows a Bloch sphere with the |0⟩ reference and an
// adjustable target state.
//
// Interactive:
//
//	orthobloch
//	orthobloch -preset +
//
// Single frame:
//
//	orthobloch -png plus.png -preset +
//	orthobloch -png psi.png -theta 60 -phi 45 -baseline golden/psi.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/orthobloch"
	"github.com/teranos/orthobloch/bloch"
	"github.com/teranos/orthobloch/scene"
	"github.com/teranos/orthobloch/trip"
)

type options struct {
	theta      float64
	phi        float64
	preset     string
	png        string
	baseline   string
	exportDir  string
	width      int
	height     int
	resolution int
	verbose    bool
}

func parseFlags(args []string) (options, error) {
	opts := options{exportDir: os.Getenv("ORTHOBLOCH_EXPORT_DIR")}
	if opts.exportDir == "" {
		opts.exportDir = "."
	}
	def := orthobloch.DefaultConfig()

	fs := flag.NewFlagSet("orthobloch", flag.ContinueOnError)
	fs.Float64Var(&opts.theta, "theta", def.ThetaDeg, "polar angle θ in degrees [0,180]")
	fs.Float64Var(&opts.phi, "phi", def.PhiDeg, "azimuthal angle φ in degrees [0,360]")
	fs.StringVar(&opts.preset, "preset", "", "start on a preset: 0, 1, +, -, i, -i")
	fs.StringVar(&opts.png, "png", "", "render one frame to this PNG file and exit")
	fs.StringVar(&opts.baseline, "baseline", "", "compare the -png frame with this golden PNG")
	fs.StringVar(&opts.exportDir, "export-dir", opts.exportDir, "directory for snapshots saved with s")
	fs.IntVar(&opts.width, "width", def.Raster.Width, "PNG width in pixels")
	fs.IntVar(&opts.height, "height", def.Raster.Height, "PNG height in pixels")
	fs.IntVar(&opts.resolution, "resolution", def.Build.Resolution, "sphere mesh samples per parameter")
	fs.BoolVar(&opts.verbose, "v", os.Getenv("DEBUG") != "", "debug logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.baseline != "" && opts.png == "" {
		return opts, errors.New("-baseline requires -png")
	}
	return opts, nil
}

func (o options) config(logger *slog.Logger) orthobloch.Config {
	cfg := orthobloch.DefaultConfig().
		WithAngles(o.theta, o.phi).
		WithExportDir(o.exportDir).
		WithLogger(logger)
	if o.preset != "" {
		cfg = cfg.WithPreset(o.preset)
	}
	cfg.Raster.Width, cfg.Raster.Height = o.width, o.height
	cfg.Build.Resolution = o.resolution
	return cfg
}

// selection resolves the flags into the frame's selection.
func (o options) selection() (bloch.Selection, error) {
	if o.preset == "" {
		return bloch.Explicit(o.theta, o.phi), nil
	}
	p, ok := bloch.LookupPreset(o.preset)
	if !ok {
		return bloch.Selection{}, trip.New(trip.KindSelection, "unknown preset "+o.preset, trip.Context{"preset": o.preset})
	}
	return bloch.FromPreset(p), nil
}

// renderFrame writes one PNG and optionally checks it against a baseline.
func renderFrame(o options, cfg orthobloch.Config, logger *slog.Logger) error {
	sel, err := o.selection()
	if err != nil {
		return err
	}
	s := orthobloch.Frame(sel, cfg.Build)
	if err := orthobloch.WriteSnapshot(o.png, s, cfg.Raster); err != nil {
		return trip.Wrap(err, trip.KindRender, trip.Fall, trip.Context{"path": o.png})
	}
	logger.Info("frame written", "path", o.png, "label", sel.Label(), "title", s.Title)

	if o.baseline == "" {
		return nil
	}
	if err := scene.NewComparator().CompareFiles(o.baseline, o.png); err != nil {
		return trip.Wrap(err, trip.KindBaseline, trip.Error, trip.Context{"baseline": o.baseline, "frame": o.png})
	}
	logger.Info("frame matches baseline", "baseline", o.baseline)
	return nil
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := opts.config(logger)
	if opts.png != "" {
		return renderFrame(opts, cfg, logger)
	}

	// the alt screen owns stderr output while running
	cfg = cfg.WithLogger(slog.New(slog.NewTextHandler(discard{}, nil)))
	program := tea.NewProgram(orthobloch.NewViewer(cfg), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return trip.Wrap(err, trip.KindTerminal, trip.Fall, nil)
	}
	if v, ok := final.(orthobloch.Viewer); ok && v.Trips().HasStumbles() {
		fmt.Fprintln(os.Stderr, v.Trips().DetailedReport())
	}
	return nil
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		var t *trip.Trip
		if errors.As(err, &t) {
			fmt.Fprintln(os.Stderr, t.DetailedString())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
