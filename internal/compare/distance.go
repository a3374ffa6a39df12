package compare

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// Report summarises the difference between two same-sized buffers.
type Report struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	TotalPixels     int     `json:"total_pixels"`
	PixelsDifferent int     `json:"pixels_different"`
	SimilarityScore float64 `json:"similarity_score"` // fraction of identical pixels
	MeanDeltaE      float64 `json:"mean_delta_e"`
	MaxDeltaE       float64 `json:"max_delta_e"`
	Identical       bool    `json:"identical"`
}

func toColorful(c bitmap.BGRColor) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func checkSameSize(a, b *bitmap.Buffer) error {
	if err := bitmap.Validate(a); err != nil {
		return err
	}
	if err := bitmap.Validate(b); err != nil {
		return err
	}
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return &bitmap.GeometryError{
			Op:     "compare",
			Reason: fmt.Sprintf("size mismatch %dx%d vs %dx%d", a.Width(), a.Height(), b.Width(), b.Height()),
		}
	}
	return nil
}

// MeanDeltaE returns the average CIEDE2000 distance between corresponding pixels of
// a and b. A value below 1 is generally imperceptible.
func MeanDeltaE(a, b *bitmap.Buffer) (float64, error) {
	r, err := Diff(a, b)
	if err != nil {
		return 0, err
	}
	return r.MeanDeltaE, nil
}

// Diff compares a and b pixel by pixel. Pixels count as different when any of B, G
// or R differs.
func Diff(a, b *bitmap.Buffer) (*Report, error) {
	if err := checkSameSize(a, b); err != nil {
		return nil, err
	}

	w, h := a.Width(), a.Height()
	total := w * h
	different := 0
	var sum, maxDE float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ca, cb := a.At(x, y), b.At(x, y)
			if ca == cb {
				continue
			}
			different++
			d := toColorful(ca).DistanceCIEDE2000(toColorful(cb))
			sum += d
			maxDE = math.Max(maxDE, d)
		}
	}

	return &Report{
		Width:           w,
		Height:          h,
		TotalPixels:     total,
		PixelsDifferent: different,
		SimilarityScore: math.Round((1-float64(different)/float64(total))*1000) / 1000,
		MeanDeltaE:      sum / float64(total),
		MaxDeltaE:       maxDE,
		Identical:       different == 0,
	}, nil
}
