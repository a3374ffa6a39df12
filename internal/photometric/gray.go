package photometric

import (
	"fmt"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// Luma weights: 0.30 R + 0.59 G + 0.11 B.
const (
	weightR = 0.30
	weightG = 0.59
	weightB = 0.11
)

// Luma returns the weighted intensity of c, summed in float64 as R, G, B and then
// truncated. Sums that land just below an integer truncate down, so gray(10) is 9.
func Luma(c bitmap.BGRColor) uint8 {
	// The explicit conversions round each product and prevent fused multiply-add.
	r := float64(float64(c.R) * weightR)
	g := float64(float64(c.G) * weightG)
	b := float64(float64(c.B) * weightB)
	return uint8(int(r + g + b))
}

// Grayscale replaces the B, G and R channels of every pixel with its Luma. Alpha is
// left untouched.
func Grayscale(b *bitmap.Buffer) error {
	if err := bitmap.Validate(b); err != nil {
		return err
	}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			v := Luma(b.At(x, y))
			b.Set(x, y, bitmap.BGRColor{B: v, G: v, R: v})
		}
	}
	return nil
}

// Histogram counts the byte values found at the given channel offset of every pixel:
// 0 for blue, 1 for green, 2 for red and, on 32-bit buffers, 3 for alpha. Row padding
// is never counted.
func Histogram(b *bitmap.Buffer, channel int) ([256]int, error) {
	var hist [256]int
	if err := bitmap.Validate(b); err != nil {
		return hist, err
	}
	if channel < 0 || channel >= b.BytesPerPixel() {
		return hist, &bitmap.GeometryError{
			Op:     "histogram",
			Reason: fmt.Sprintf("channel %d out of range for %d-bit buffer", channel, b.BitsPerPixel()),
		}
	}

	data := b.Data()
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			hist[data[b.Offset(x, y)+channel]]++
		}
	}
	return hist, nil
}

// GrayHistogram converts b to grayscale in place and returns the histogram of the
// resulting intensities.
func GrayHistogram(b *bitmap.Buffer) ([256]int, error) {
	if err := Grayscale(b); err != nil {
		return [256]int{}, err
	}
	return Histogram(b, 0)
}

// RenderHistogram draws hist as a 32-bit bar chart, 256 pixels wide and as tall as
// the largest bin (256 when every bin is empty). Bar i fills the bottom hist[i] rows of
// column i with clr at full opacity; the rest of the image is zero.
func RenderHistogram(hist [256]int, clr bitmap.BGRColor) (*bitmap.Buffer, error) {
	height := 0
	for _, n := range hist {
		if n < 0 {
			return nil, &bitmap.GeometryError{Op: "render histogram", Reason: "negative bin count"}
		}
		height = max(height, n)
	}
	if height == 0 {
		height = 256
	}

	out, err := bitmap.New(len(hist), height, true)
	if err != nil {
		return nil, err
	}
	for x, n := range hist {
		for y := height - n; y < height; y++ {
			out.Set(x, y, clr)
			out.SetAlpha(x, y, 0xff)
		}
	}
	return out, nil
}
