package scene

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/teranos/orthobloch/bloch"
)

// TerminalConfig sizes the character grid.
type TerminalConfig struct {
	Cols   int // Grid width in cells
	Rows   int // Grid height in cells, title row included
	Camera Camera
}

// DefaultTerminalConfig fits an 80×24 terminal next to the controls.
func DefaultTerminalConfig() TerminalConfig {
	return TerminalConfig{
		Cols:   56,
		Rows:   21,
		Camera: DefaultCamera(),
	}
}

// cell is one character of the grid; style 0 is unstyled.
type cell struct {
	r     rune
	style int
}

// Terminal draws scenes as colored character grids. It keeps the grid
// between renders to reuse allocations.
type Terminal struct {
	config TerminalConfig
	out    io.Writer
	grid   [][]cell
	styles []lipgloss.Style

	scale  float64 // rows per scene unit
	cx, cy float64
}

const (
	styleNone = iota
	styleSphereFront
	styleSphereBack
	styleAxis
)

// NewTerminal creates a terminal surface writing frames to out. out may be
// nil when only Render is used.
func NewTerminal(config TerminalConfig, out io.Writer) *Terminal {
	if config.Cols <= 0 || config.Rows <= 0 {
		def := DefaultTerminalConfig()
		config.Cols, config.Rows = def.Cols, def.Rows
	}
	t := &Terminal{
		config: config,
		out:    out,
		grid:   make([][]cell, config.Rows),
		styles: []lipgloss.Style{
			styleNone:        lipgloss.NewStyle(),
			styleSphereFront: lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
			styleSphereBack:  lipgloss.NewStyle().Foreground(lipgloss.Color("24")),
			styleAxis:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
	for i := range t.grid {
		t.grid[i] = make([]cell, config.Cols)
	}
	return t
}

// Display renders s and writes it followed by a newline.
func (t *Terminal) Display(s Scene) error {
	if t.out == nil {
		return fmt.Errorf("terminal surface has no output sink")
	}
	if _, err := io.WriteString(t.out, t.Render(s)+"\n"); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Render draws s and returns the grid as lines joined by newlines.
func (t *Terminal) Render(s Scene) string {
	t.clear()
	t.fit(s.Bounds)

	t.drawSphere(s.Sphere)
	for _, a := range s.Axes {
		t.drawArrow(a, styleAxis, '.', '+')
	}
	for _, a := range s.Arrows {
		style := t.styleFor(a.Color)
		t.drawArrow(a, style, '*', '◆')
	}
	for _, l := range s.Labels {
		col, row := t.toCell(l.At)
		t.text(row, col+1, l.Text, t.styleFor(l.Color))
	}
	t.text(0, (t.config.Cols-len([]rune(s.Title)))/2, s.Title, styleNone)

	return t.String()
}

// String joins the grid, grouping runs of equal style.
func (t *Terminal) String() string {
	lines := make([]string, len(t.grid))
	for i, row := range t.grid {
		var b strings.Builder
		var run []rune
		current := styleNone
		flush := func() {
			if len(run) == 0 {
				return
			}
			if current == styleNone {
				b.WriteString(string(run))
			} else {
				b.WriteString(t.styles[current].Render(string(run)))
			}
			run = run[:0]
		}
		for _, c := range row {
			r := c.r
			style := c.style
			if r == 0 || r == ' ' {
				r, style = ' ', styleNone
			}
			if style != current {
				flush()
				current = style
			}
			run = append(run, r)
		}
		flush()
		lines[i] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) clear() {
	for _, row := range t.grid {
		for j := range row {
			row[j] = cell{r: ' '}
		}
	}
}

// fit maps the projected bounds cube into the rows below the title; cells
// are about twice as tall as wide.
func (t *Terminal) fit(b Bounds) {
	if b.Max <= b.Min {
		b = Bounds{Min: -1, Max: 1}
	}
	var maxX, maxY float64
	for _, c := range cubeCorners(b) {
		x, y, _ := t.config.Camera.Project(c)
		maxX = math.Max(maxX, math.Abs(x))
		maxY = math.Max(maxY, math.Abs(y))
	}
	plotRows := float64(t.config.Rows - 1)
	t.scale = math.Min((float64(t.config.Cols)/2-1)/(2*maxX), (plotRows/2-0.5)/maxY)
	t.cx = float64(t.config.Cols) / 2
	t.cy = 1 + plotRows/2
}

func (t *Terminal) toCell(p bloch.Vector) (col, row int) {
	x, y, _ := t.config.Camera.Project(p)
	return int(math.Round(t.cx + 2*x*t.scale)), int(math.Round(t.cy - y*t.scale))
}

// drawSphere outlines the silhouette and draws the mesh's middle latitude,
// front half bright and back half dim.
func (t *Terminal) drawSphere(m Mesh) {
	for k := 0; k < 180; k++ {
		a := 2 * math.Pi * float64(k) / 180
		col := int(math.Round(t.cx + 2*math.Cos(a)*t.scale))
		row := int(math.Round(t.cy - math.Sin(a)*t.scale))
		t.set(row, col, '·', styleSphereFront)
	}
	if len(m.Points) == 0 {
		return
	}
	mid := len(m.Points[0]) / 2
	for _, meridian := range m.Points {
		if mid >= len(meridian) {
			continue
		}
		p := meridian[mid]
		_, _, depth := t.config.Camera.Project(p)
		col, row := t.toCell(p)
		if depth >= 0 {
			t.set(row, col, '·', styleSphereFront)
		} else {
			t.set(row, col, '·', styleSphereBack)
		}
	}
}

func (t *Terminal) drawArrow(a Arrow, style int, body, tip rune) {
	c0, r0 := t.toCell(a.From)
	c1, r1 := t.toCell(a.To)
	steps := max(abs(c1-c0), abs(r1-r0))
	for s := 0; s < steps; s++ {
		f := float64(s) / float64(steps)
		col := int(math.Round(float64(c0) + float64(c1-c0)*f))
		row := int(math.Round(float64(r0) + float64(r1-r0)*f))
		t.set(row, col, body, style)
	}
	t.set(r1, c1, tip, style)
}

func (t *Terminal) text(row, col int, s string, style int) {
	for _, r := range s {
		t.set(row, col, r, style)
		col++
	}
}

func (t *Terminal) set(row, col int, r rune, style int) {
	if row < 0 || row >= len(t.grid) || col < 0 || col >= len(t.grid[row]) {
		return
	}
	t.grid[row][col] = cell{r: r, style: style}
}

// styleFor registers a foreground style for c on first use. Black text is
// left unstyled so it stays readable on dark terminals.
func (t *Terminal) styleFor(c color.RGBA) int {
	if c == Black {
		return styleNone
	}
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	fg := lipgloss.Color(hex)
	for i, s := range t.styles {
		if i > styleAxis && s.GetForeground() == fg {
			return i
		}
	}
	t.styles = append(t.styles, lipgloss.NewStyle().Foreground(fg))
	return len(t.styles) - 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
