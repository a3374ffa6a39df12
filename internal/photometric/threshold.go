package photometric

import "github.com/ironsheep/bmp-tools-mcp/internal/bitmap"

// DefaultThreshold is returned by OtsuThreshold when the image offers no split
// between two intensity classes.
const DefaultThreshold = 125

// Binarize sets each pixel to white when the integer mean of its B, G and R channels
// is at least threshold and to black otherwise. Alpha is left untouched.
func Binarize(b *bitmap.Buffer, threshold int) error {
	if err := bitmap.Validate(b); err != nil {
		return err
	}
	white := bitmap.BGRColor{B: 0xff, G: 0xff, R: 0xff}
	black := bitmap.BGRColor{}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			c := b.At(x, y)
			if (int(c.B)+int(c.G)+int(c.R))/3 >= threshold {
				b.Set(x, y, white)
			} else {
				b.Set(x, y, black)
			}
		}
	}
	return nil
}

// OtsuThreshold returns the gray level t that maximizes the between-class variance
// of the partition [0,t] / (t,255] of b's grayscale histogram.
//
// Candidates are scanned in ascending order and the first maximum wins. Candidates
// that leave either class empty are skipped. b is not modified. When no candidate
// separates two non-empty classes, as with an empty buffer or a single gray level,
// DefaultThreshold is returned.
func OtsuThreshold(b *bitmap.Buffer) int {
	if bitmap.Validate(b) != nil {
		return DefaultThreshold
	}
	hist, err := GrayHistogram(b.Clone())
	if err != nil {
		return DefaultThreshold
	}
	return otsu(hist)
}

func otsu(hist [256]int) int {
	total := 0
	for _, n := range hist {
		total += n
	}
	if total == 0 {
		return DefaultThreshold
	}

	var p [256]float64
	mean := 0.0
	for i, n := range hist {
		p[i] = float64(n) / float64(total)
		mean += float64(i) * p[i]
	}

	best, bestT := 0.0, DefaultThreshold
	count0 := 0
	w0, m0 := 0.0, 0.0
	for t := 0; t < len(hist); t++ {
		count0 += hist[t]
		w0 += p[t]
		m0 += float64(t) * p[t]
		if count0 == 0 || count0 == total {
			continue
		}

		w1 := 1 - w0
		u0 := m0 / w0
		u1 := (mean - m0) / w1
		v := w0*(u0-mean)*(u0-mean) + w1*(u1-mean)*(u1-mean)
		if v > best {
			best, bestT = v, t
		}
	}
	return bestT
}
