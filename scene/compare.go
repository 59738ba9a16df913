package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// ErrRegression marks a frame that differs from its baseline by more than
// the comparator's tolerance.
var ErrRegression = errors.New("visual regression")

// Comparator checks rendered frames against golden baselines.
type Comparator struct {
	Tolerance float64 // Fraction of differing pixels allowed
}

// NewComparator allows up to 0.5% of pixels to differ.
func NewComparator() *Comparator {
	return &Comparator{Tolerance: 0.005}
}

// Difference returns the fraction of pixels that differ between a and b.
// Frames of different size are entirely different.
func (c *Comparator) Difference(a, b image.Image) float64 {
	ba, bb := a.Bounds(), b.Bounds()
	if ba.Size() != bb.Size() || ba.Empty() {
		return 1.0
	}

	total := ba.Dx() * ba.Dy()
	different := 0
	for y := 0; y < ba.Dy(); y++ {
		for x := 0; x < ba.Dx(); x++ {
			if !sameColor(a.At(ba.Min.X+x, ba.Min.Y+y), b.At(bb.Min.X+x, bb.Min.Y+y)) {
				different++
			}
		}
	}
	return float64(different) / float64(total)
}

// Compare returns an ErrRegression-wrapped error when current strays from
// baseline beyond the tolerance.
func (c *Comparator) Compare(baseline, current image.Image) error {
	diff := c.Difference(baseline, current)
	if diff > c.Tolerance {
		return fmt.Errorf("%w: %.2f%% difference (tolerance: %.2f%%)",
			ErrRegression, diff*100, c.Tolerance*100)
	}
	return nil
}

// CompareFiles loads two PNG frames and compares them. On regression a diff
// image is written next to the current frame with a _diff suffix.
func (c *Comparator) CompareFiles(baselinePath, currentPath string) error {
	baseline, err := LoadPNG(baselinePath)
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}
	current, err := LoadPNG(currentPath)
	if err != nil {
		return fmt.Errorf("failed to load current: %w", err)
	}

	cmpErr := c.Compare(baseline, current)
	if cmpErr != nil && baseline.Bounds().Size() == current.Bounds().Size() {
		diffPath := strings.TrimSuffix(currentPath, filepath.Ext(currentPath)) + "_diff.png"
		if err := SavePNG(diffPath, DiffImage(baseline, current)); err != nil {
			return errors.Join(cmpErr, fmt.Errorf("failed to write diff image: %w", err))
		}
	}
	return cmpErr
}

// DiffImage paints differing pixels red over a dimmed copy of baseline.
func DiffImage(baseline, current image.Image) *image.RGBA {
	bounds := baseline.Bounds()
	off := current.Bounds().Min.Sub(bounds.Min)
	diff := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			base := baseline.At(x, y)
			px, py := x-bounds.Min.X, y-bounds.Min.Y
			if !sameColor(base, current.At(x+off.X, y+off.Y)) {
				diff.SetRGBA(px, py, Red)
				continue
			}
			r, g, b, a := base.RGBA()
			diff.SetRGBA(px, py, color.RGBA{uint8(r >> 9), uint8(g >> 9), uint8(b >> 9), uint8(a >> 8)})
		}
	}
	return diff
}

// SetBaseline stores img as the golden frame at path.
func SetBaseline(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}
	return SavePNG(path, img)
}

// SavePNG encodes img to a new file at path.
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadPNG decodes a PNG file.
func LoadPNG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return png.Decode(file)
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
