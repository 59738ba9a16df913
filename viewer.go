package orthobloch

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/teranos/orthobloch/bloch"
	"github.com/teranos/orthobloch/scene"
	"github.com/teranos/orthobloch/trip"
)

// Control identifies one of the two angle controls.
type Control int

const (
	ControlTheta Control = iota
	ControlPhi
)

func (c Control) String() string {
	if c == ControlPhi {
		return "phi"
	}
	return "theta"
}

const (
	smallStep = 1.0
	largeStep = 15.0
	barWidth  = 24
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	barFillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// exportedMsg reports the outcome of a snapshot export.
type exportedMsg struct {
	path string
	err  error
}

// Viewer is the interactive bubbletea model. It is a value: Update returns
// a new Viewer and the previous one keeps its frame.
type Viewer struct {
	config    Config
	selection bloch.Selection
	focus     Control
	scene     scene.Scene
	frame     string

	terminal *scene.Terminal
	trips    *trip.Handler

	status    string
	statusErr bool
	exported  string
	exportErr bool
	quitting  bool
}

// NewViewer creates a viewer on the configured initial selection. An
// unknown preset name falls back to the configured angles and is recorded
// as a stumble.
func NewViewer(config Config) Viewer {
	if config.Logger == nil {
		config.Logger = DefaultConfig().Logger
	}
	v := Viewer{
		config:   config,
		terminal: scene.NewTerminal(config.Terminal, nil),
		trips:    trip.NewHandler("viewer", trip.DefaultPolicy()),
	}

	sel := bloch.Explicit(clamp(config.ThetaDeg, 0, ThetaMax), clamp(config.PhiDeg, 0, PhiMax))
	if config.Preset != "" {
		if p, ok := bloch.LookupPreset(config.Preset); ok {
			sel = bloch.FromPreset(p)
		} else {
			t := trip.NewStumble(trip.KindSelection, "unknown preset "+config.Preset, trip.Context{"preset": config.Preset})
			v.trips.Record(t)
			v.status = t.Message
			v.statusErr = true
		}
	}
	return v.selectState(sel)
}

// Init implements tea.Model.
func (v Viewer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case exportedMsg:
		return v.handleExported(msg), nil
	}
	return v, nil
}

func (v Viewer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		v.quitting = true
		return v, tea.Quit
	case "tab", "shift+tab", "up", "down", "k", "j":
		if v.focus == ControlTheta {
			v.focus = ControlPhi
		} else {
			v.focus = ControlTheta
		}
		return v, nil
	case "left", "h":
		return v.step(-smallStep), nil
	case "right", "l":
		return v.step(smallStep), nil
	case "shift+left", "H":
		return v.step(-largeStep), nil
	case "shift+right", "L":
		return v.step(largeStep), nil
	case "r":
		return v.selectState(bloch.Explicit(clamp(v.config.ThetaDeg, 0, ThetaMax), clamp(v.config.PhiDeg, 0, PhiMax))), nil
	case "s":
		v.status, v.statusErr = "saving snapshot...", false
		return v, v.exportCmd()
	case "1", "2", "3", "4", "5", "6":
		presets := bloch.Presets()
		p := presets[int(key[0]-'1')]
		return v.selectState(bloch.FromPreset(p)), nil
	}
	return v, nil
}

// step moves the focused control, producing an explicit selection.
func (v Viewer) step(delta float64) Viewer {
	sel := v.selection
	if v.focus == ControlTheta {
		sel = sel.WithTheta(clamp(sel.ThetaDeg()+delta, 0, ThetaMax))
	} else {
		sel = sel.WithPhi(clamp(sel.PhiDeg()+delta, 0, PhiMax))
	}
	return v.selectState(sel)
}

// selectState is the single recompute path: selection in, frame out.
func (v Viewer) selectState(sel bloch.Selection) Viewer {
	v.selection = sel
	v.scene = Frame(sel, v.config.Build)
	v.frame = v.terminal.Render(v.scene)
	v.config.Logger.Debug("selection changed",
		"label", sel.Label(),
		"theta_deg", sel.ThetaDeg(),
		"phi_deg", sel.PhiDeg(),
		"overlap", fmt.Sprintf("%.2f", v.scene.Overlap),
	)
	return v
}

// exportCmd writes the current scene as a PNG in the export directory.
func (v Viewer) exportCmd() tea.Cmd {
	s := v.scene
	cfg := v.config.Raster
	path := filepath.Join(v.config.ExportDir, snapshotName(v.selection))
	return func() tea.Msg {
		return exportedMsg{path: path, err: WriteSnapshot(path, s, cfg)}
	}
}

func (v Viewer) handleExported(msg exportedMsg) Viewer {
	if msg.err != nil {
		t := trip.Wrap(msg.err, trip.KindExport, trip.Stumble, trip.Context{"path": msg.path})
		v.trips.Record(t)
		v.config.Logger.Warn("snapshot failed", "path", msg.path, "error", msg.err)
		v.status = "snapshot failed: " + msg.err.Error()
		v.statusErr = true
		v.exportErr = true
		return v
	}
	v.config.Logger.Info("snapshot saved", "path", msg.path)
	v.status = "saved " + msg.path
	v.statusErr = false
	v.exported = msg.path
	v.exportErr = false
	return v
}

// WriteSnapshot renders s into a PNG file at path.
func WriteSnapshot(path string, s scene.Scene, cfg scene.RasterConfig) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := scene.NewRaster(cfg, file).Display(s); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

var slugs = map[string]string{
	"0": "zero", "1": "one", "+": "plus", "-": "minus", "i": "i", "-i": "minus-i",
}

// snapshotName names a frame after its selection, e.g. bloch_plus_t090_p000.png.
func snapshotName(sel bloch.Selection) string {
	slug := "psi"
	if tag, ok := sel.Preset(); ok {
		if p, found := bloch.LookupPreset(tag); found {
			slug = slugs[p.Alias]
		}
	}
	return fmt.Sprintf("bloch_%s_t%03.0f_p%03.0f.png", slug, sel.ThetaDeg(), sel.PhiDeg())
}

// View implements tea.Model.
func (v Viewer) View() string {
	if v.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(titleStyle.Render("OrthoBloch") + mutedStyle.Render("  reference |0⟩ vs target "+v.selection.Label()) + "\n\n")
	b.WriteString(v.presetRow() + "\n")
	b.WriteString(v.slider(ControlTheta, "θ (deg)", v.selection.ThetaDeg(), ThetaMax) + "\n")
	b.WriteString(v.slider(ControlPhi, "ϕ (deg)", v.selection.PhiDeg(), PhiMax) + "\n\n")
	b.WriteString(v.frame + "\n\n")

	if v.status != "" {
		if v.statusErr {
			b.WriteString(errorStyle.Render(v.status) + "\n")
		} else {
			b.WriteString(mutedStyle.Render(v.status) + "\n")
		}
	}
	b.WriteString(mutedStyle.Render("tab switch · ←/→ ±1° · shift+←/→ ±15° · 1-6 presets · s save · r reset · q quit"))

	return b.String()
}

func (v Viewer) presetRow() string {
	current, _ := v.selection.Preset()
	parts := []string{"Presets:"}
	for i, p := range bloch.Presets() {
		item := fmt.Sprintf("%d %s", i+1, p.Label)
		if p.Label == current {
			item = activeStyle.Render("[" + item + "]")
		} else {
			item = " " + item + " "
		}
		parts = append(parts, item)
	}
	return strings.Join(parts, " ")
}

func (v Viewer) slider(c Control, name string, value, maxValue float64) string {
	marker := "  "
	if v.focus == c {
		marker = activeStyle.Render("› ")
	}
	filled := int(math.Round(value / maxValue * barWidth))
	bar := barFillStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s%s %s %3.0f", marker, name, bar, value)
}

// Selection returns the current selection.
func (v Viewer) Selection() bloch.Selection { return v.selection }

// Scene returns the scene behind the current frame.
func (v Viewer) Scene() scene.Scene { return v.scene }

// Trips returns the failures recorded by this viewer and its copies.
func (v Viewer) Trips() *trip.Handler { return v.trips }

// Focus returns the focused control.
func (v Viewer) Focus() Control { return v.focus }

// CurrentInput reports the focused control's value, e.g. "theta=60".
func (v Viewer) CurrentInput() string {
	if v.focus == ControlPhi {
		return fmt.Sprintf("phi=%.0f", v.selection.PhiDeg())
	}
	return fmt.Sprintf("theta=%.0f", v.selection.ThetaDeg())
}

// CurrentMode is "preset" or "explicit".
func (v Viewer) CurrentMode() string {
	if _, ok := v.selection.Preset(); ok {
		return "preset"
	}
	return "explicit"
}

// CheckCondition answers named questions about the viewer state.
func (v Viewer) CheckCondition(condition string) bool {
	switch condition {
	case "preset":
		_, ok := v.selection.Preset()
		return ok
	case "explicit":
		_, ok := v.selection.Preset()
		return !ok
	case "focus_theta":
		return v.focus == ControlTheta
	case "focus_phi":
		return v.focus == ControlPhi
	case "orthogonal":
		return math.Abs(v.scene.Overlap) < 0.005
	case "antipodal":
		return v.scene.Overlap < -0.995
	case "exported":
		return v.exported != ""
	case "export_failed":
		return v.exportErr
	case "quitting":
		return v.quitting
	default:
		return false
	}
}
