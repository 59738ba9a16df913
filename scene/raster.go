package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/teranos/orthobloch/bloch"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrNoSink is returned by Display when the raster has nowhere to write.
var ErrNoSink = errors.New("raster has no output sink")

// RasterConfig defines the frame produced by a Raster.
type RasterConfig struct {
	Width      int        // Frame width in pixels
	Height     int        // Frame height in pixels
	Background color.RGBA // Fill color behind the sphere
	Camera     Camera
}

// DefaultRasterConfig is an 800×600 white frame seen from the default camera.
func DefaultRasterConfig() RasterConfig {
	return RasterConfig{
		Width:      800,
		Height:     600,
		Background: color.RGBA{255, 255, 255, 255},
		Camera:     DefaultCamera(),
	}
}

// Raster draws scenes into RGBA images and, on Display, encodes them as PNG
// to its sink. Each Render starts from a cleared frame.
type Raster struct {
	config RasterConfig
	out    io.Writer
	img    *image.RGBA
	face   font.Face

	// scene space to pixel mapping
	scale  float64
	cx, cy float64
}

const titleBand = 32

// NewRaster creates a raster that writes PNG frames to out. out may be nil
// when only Render is used.
func NewRaster(config RasterConfig, out io.Writer) *Raster {
	if config.Width <= 0 || config.Height <= 0 {
		def := DefaultRasterConfig()
		config.Width, config.Height = def.Width, def.Height
	}
	return &Raster{
		config: config,
		out:    out,
		img:    image.NewRGBA(image.Rect(0, 0, config.Width, config.Height)),
		face:   basicfont.Face7x13,
	}
}

// Display renders s and writes the frame as PNG.
func (r *Raster) Display(s Scene) error {
	img := r.Render(s)
	if r.out == nil {
		return ErrNoSink
	}
	if err := png.Encode(r.out, img); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}

// Image returns the most recently rendered frame.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Render draws s into the frame and returns it.
func (r *Raster) Render(s Scene) *image.RGBA {
	r.clear()
	r.fit(s.Bounds)

	r.drawBounds(s.Bounds)
	r.drawMesh(s.Sphere)
	for _, a := range s.Axes {
		r.drawArrow(a)
	}
	for _, a := range s.Arrows {
		r.drawArrow(a)
	}
	for _, l := range s.Labels {
		x, y := r.toPixel(l.At.X, l.At.Y, l.At.Z)
		r.drawText(int(math.Round(x)), int(math.Round(y))+4, l.Text, l.Color)
	}
	r.drawTitle(s.Title)
	return r.img
}

func (r *Raster) clear() {
	bg := r.config.Background
	pix := r.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
}

// fit scales the projected bounds cube into the area below the title.
func (r *Raster) fit(b Bounds) {
	if b.Max <= b.Min {
		b = Bounds{Min: -1, Max: 1}
	}
	var maxX, maxY float64
	for _, c := range cubeCorners(b) {
		x, y, _ := r.config.Camera.Project(c)
		maxX = math.Max(maxX, math.Abs(x))
		maxY = math.Max(maxY, math.Abs(y))
	}
	plotH := float64(r.config.Height - titleBand)
	w := float64(r.config.Width)
	r.scale = math.Min((w/2-24)/maxX, (plotH/2-16)/maxY)
	r.cx = w / 2
	r.cy = titleBand + plotH/2
}

func (r *Raster) toPixel(x, y, z float64) (float64, float64) {
	px, py, _ := r.config.Camera.Project(vec(x, y, z))
	return r.cx + px*r.scale, r.cy - py*r.scale
}

func (r *Raster) drawBounds(b Bounds) {
	edge := color.RGBA{220, 220, 220, 255}
	corners := cubeCorners(b)
	for i := range corners {
		for j := i + 1; j < len(corners); j++ {
			// corners differing in exactly one coordinate share an edge
			if bitsSet(i^j) != 1 {
				continue
			}
			x0, y0 := r.toPixel(corners[i].X, corners[i].Y, corners[i].Z)
			x1, y1 := r.toPixel(corners[j].X, corners[j].Y, corners[j].Z)
			r.line(x0, y0, x1, y1, edge, 1)
		}
	}
}

// drawMesh fills every grid cell as two translucent triangles.
func (r *Raster) drawMesh(m Mesh) {
	for i := 0; i+1 < len(m.Points); i++ {
		for j := 0; j+1 < len(m.Points[i]) && j+1 < len(m.Points[i+1]); j++ {
			a, b := m.Points[i][j], m.Points[i+1][j]
			c, d := m.Points[i+1][j+1], m.Points[i][j+1]
			ax, ay := r.toPixel(a.X, a.Y, a.Z)
			bx, by := r.toPixel(b.X, b.Y, b.Z)
			cx, cy := r.toPixel(c.X, c.Y, c.Z)
			dx, dy := r.toPixel(d.X, d.Y, d.Z)
			r.triangle(ax, ay, bx, by, cx, cy, m.Color, m.Alpha)
			r.triangle(ax, ay, cx, cy, dx, dy, m.Color, m.Alpha)
		}
	}
}

func (r *Raster) drawArrow(a Arrow) {
	x0, y0 := r.toPixel(a.From.X, a.From.Y, a.From.Z)
	x1, y1 := r.toPixel(a.To.X, a.To.Y, a.To.Z)
	r.line(x0, y0, x1, y1, a.Color, a.Width)

	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length < 1 {
		return
	}
	head := math.Max(0.3*length, 6)
	back := math.Atan2(-dy, -dx)
	for _, turn := range []float64{-25, 25} {
		ang := back + turn*math.Pi/180
		r.line(x1, y1, x1+head*math.Cos(ang), y1+head*math.Sin(ang), a.Color, a.Width)
	}
}

func (r *Raster) drawTitle(title string) {
	text := asciiText(title)
	w := font.MeasureString(r.face, text).Ceil()
	r.drawText((r.config.Width-w)/2, titleBand/2+5, title, Black)
}

func (r *Raster) drawText(x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(asciiText(text))
}

// line draws an opaque segment; width is in points at 100 dpi.
func (r *Raster) line(x0, y0, x1, y1 float64, c color.RGBA, width float64) {
	radius := width * 1.4 / 2
	steps := int(math.Ceil(math.Hypot(x1-x0, y1-y0)*2)) + 1
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		if radius <= 0.75 {
			r.img.SetRGBA(int(math.Round(x)), int(math.Round(y)), c)
			continue
		}
		r.disc(x, y, radius, c)
	}
}

func (r *Raster) disc(x, y, radius float64, c color.RGBA) {
	minX, maxX := int(math.Floor(x-radius)), int(math.Ceil(x+radius))
	minY, maxY := int(math.Floor(y-radius)), int(math.Ceil(y+radius))
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			if math.Hypot(float64(px)-x, float64(py)-y) <= radius {
				r.img.SetRGBA(px, py, c)
			}
		}
	}
}

// triangle blends c over every pixel whose centre lies inside the triangle.
func (r *Raster) triangle(x0, y0, x1, y1, x2, y2 float64, c color.RGBA, alpha float64) {
	area := edge(x0, y0, x1, y1, x2, y2)
	if math.Abs(area) < 1e-9 {
		return
	}
	bounds := r.img.Bounds()
	minX := max(int(math.Floor(math.Min(x0, math.Min(x1, x2)))), bounds.Min.X)
	maxX := min(int(math.Ceil(math.Max(x0, math.Max(x1, x2)))), bounds.Max.X-1)
	minY := max(int(math.Floor(math.Min(y0, math.Min(y1, y2)))), bounds.Min.Y)
	maxY := min(int(math.Ceil(math.Max(y0, math.Max(y1, y2)))), bounds.Max.Y-1)

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			sx, sy := float64(px)+0.5, float64(py)+0.5
			w0 := edge(x1, y1, x2, y2, sx, sy) / area
			w1 := edge(x2, y2, x0, y0, sx, sy) / area
			w2 := edge(x0, y0, x1, y1, sx, sy) / area
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				r.blend(px, py, c, alpha)
			}
		}
	}
}

func (r *Raster) blend(x, y int, c color.RGBA, alpha float64) {
	dst, ok := colorful.MakeColor(r.img.RGBAAt(x, y))
	if !ok {
		dst = colorful.Color{}
	}
	src, _ := colorful.MakeColor(c)
	R, G, B := dst.BlendRgb(src, alpha).Clamped().RGB255()
	r.img.SetRGBA(x, y, color.RGBA{R, G, B, 255})
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func cubeCorners(b Bounds) []bloch.Vector {
	corners := make([]bloch.Vector, 8)
	for i := range corners {
		pick := func(bit int) float64 {
			if i&bit != 0 {
				return b.Max
			}
			return b.Min
		}
		corners[i] = vec(pick(1), pick(2), pick(4))
	}
	return corners
}

func bitsSet(n int) int {
	count := 0
	for ; n != 0; n &= n - 1 {
		count++
	}
	return count
}

func vec(x, y, z float64) bloch.Vector { return bloch.Vector{X: x, Y: y, Z: z} }

// basicfont only covers Latin-1; the bra-ket glyphs are spelled out.
var asciiReplacer = strings.NewReplacer(
	"⟨", "<",
	"⟩", ">",
	"ψ", "psi",
	"≈", "~",
	"–", "-",
)

func asciiText(s string) string {
	return asciiReplacer.Replace(s)
}
