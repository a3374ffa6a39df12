package geometry

import (
	"math"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// Rotate returns b rotated by angleDegrees around its centre.
//
// Every destination pixel is mapped back into the source (inverse mapping) and takes
// the nearest source pixel by truncating the rotated offset toward zero. There is no
// interpolation. Destination pixels whose source lies outside b are set to fill with
// zero alpha; the others copy every channel of their source pixel.
//
// With autoExpand false the output has the dimensions of b and both centres are
// (width/2, height/2). With autoExpand true the output is 2*width by 2*height, its
// centre is (width, height) and the source centre stays (width/2, height/2).
func Rotate(b *bitmap.Buffer, angleDegrees float64, autoExpand bool, fill bitmap.BGRColor) (*bitmap.Buffer, error) {
	if err := bitmap.Validate(b); err != nil {
		return nil, err
	}

	w, h := b.Width(), b.Height()
	outW, outH := w, h
	midX, midY := w/2, h/2
	afterX, afterY := midX, midY
	if autoExpand {
		outW, outH = 2*w, 2*h
		afterX, afterY = w, h
	}

	out, err := bitmap.New(outW, outH, b.HasAlpha())
	if err != nil {
		return nil, err
	}

	rad := angleDegrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	bpp := b.BytesPerPixel()
	src, dst := b.Data(), out.Data()

	for y := 0; y < outH; y++ {
		ay := float64(y - afterY)
		for x := 0; x < outW; x++ {
			ax := float64(x - afterX)
			by := int(cos*ay-sin*ax) + midY
			bx := int(sin*ay+cos*ax) + midX

			d := out.Offset(x, y)
			if bx < 0 || bx >= w || by < 0 || by >= h {
				out.Set(x, y, fill)
				continue
			}
			s := b.Offset(bx, by)
			copy(dst[d:d+bpp], src[s:s+bpp])
		}
	}
	return out, nil
}
