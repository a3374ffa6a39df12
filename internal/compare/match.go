package compare

import "github.com/ironsheep/bmp-tools-mcp/internal/bitmap"

// PixelEqual reports whether a and b have the same dimensions and identical B, G
// and R values at every pixel. Pixel format and alpha are not compared.
func PixelEqual(a, b *bitmap.Buffer) bool {
	if bitmap.Validate(a) != nil || bitmap.Validate(b) != nil {
		return false
	}
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	return regionEqual(a, b, 0, 0)
}

// regionEqual compares needle against the same-sized window of haystack whose
// top-left corner is (ox, oy).
func regionEqual(haystack, needle *bitmap.Buffer, ox, oy int) bool {
	for y := 0; y < needle.Height(); y++ {
		for x := 0; x < needle.Width(); x++ {
			if haystack.At(ox+x, oy+y) != needle.At(x, y) {
				return false
			}
		}
	}
	return true
}

// FindSubImage returns the top-left corner of the first occurrence of needle in
// haystack, scanning offsets row by row.
//
// Offsets run over [0, H-h) x [0, W-w), where W, H and w, h are the haystack and
// needle dimensions. The final row and column of offsets are not tried, so a needle
// touching the right or bottom edge is not found, nor is a needle as large as the
// haystack.
func FindSubImage(haystack, needle *bitmap.Buffer) (x, y int, found bool) {
	if bitmap.Validate(haystack) != nil || bitmap.Validate(needle) != nil {
		return 0, 0, false
	}
	for oy := 0; oy < haystack.Height()-needle.Height(); oy++ {
		for ox := 0; ox < haystack.Width()-needle.Width(); ox++ {
			if regionEqual(haystack, needle, ox, oy) {
				return ox, oy, true
			}
		}
	}
	return 0, 0, false
}
