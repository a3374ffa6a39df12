package bitmap

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToImage converts the buffer to a standard library image.
//
// 24-bit buffers produce fully opaque pixels; 32-bit buffers keep their alpha
// channel as non-premultiplied alpha.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	bpp := b.BytesPerPixel()
	for y := 0; y < b.height; y++ {
		row := b.Row(y)
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < b.width; x++ {
			s := row[x*bpp:]
			d := dst[x*4:]
			d[0] = s[2]
			d[1] = s[1]
			d[2] = s[0]
			if b.hasAlpha {
				d[3] = s[3]
			} else {
				d[3] = 0xff
			}
		}
	}
	return img
}

// FromImage copies any image.Image into a new buffer. When hasAlpha is false the
// alpha channel is discarded.
//
// The source is normalized with imaging.Clone, so any color model and any bounds
// origin are accepted; pixel (0,0) of the buffer is img.Bounds().Min.
func FromImage(img image.Image, hasAlpha bool) (*Buffer, error) {
	src := imaging.Clone(img)
	bounds := src.Bounds()
	b, err := New(bounds.Dx(), bounds.Dy(), hasAlpha)
	if err != nil {
		return nil, err
	}
	bpp := b.BytesPerPixel()
	for y := 0; y < b.height; y++ {
		row := b.Row(y)
		s := src.Pix[y*src.Stride:]
		for x := 0; x < b.width; x++ {
			p := s[x*4:]
			d := row[x*bpp:]
			d[0] = p[2]
			d[1] = p[1]
			d[2] = p[0]
			if hasAlpha {
				d[3] = p[3]
			}
		}
	}
	return b, nil
}
