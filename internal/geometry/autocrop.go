package geometry

import (
	"image"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// ForegroundBounds returns the smallest rectangle containing every pixel whose color
// differs from bg. The rectangle's Max is exclusive. ok is false when b is entirely
// background.
func ForegroundBounds(b *bitmap.Buffer, bg bitmap.BGRColor) (r image.Rectangle, ok bool) {
	if bitmap.Validate(b) != nil {
		return image.Rectangle{}, false
	}
	w, h := b.Width(), b.Height()

	rowHas := func(y int) bool {
		for x := 0; x < w; x++ {
			if b.At(x, y) != bg {
				return true
			}
		}
		return false
	}
	colHas := func(x int) bool {
		for y := 0; y < h; y++ {
			if b.At(x, y) != bg {
				return true
			}
		}
		return false
	}

	top := -1
	for y := 0; y < h; y++ {
		if rowHas(y) {
			top = y
			break
		}
	}
	if top < 0 {
		return image.Rectangle{}, false
	}
	bottom := top
	for y := h - 1; y > top; y-- {
		if rowHas(y) {
			bottom = y
			break
		}
	}
	left := 0
	for x := 0; x < w; x++ {
		if colHas(x) {
			left = x
			break
		}
	}
	right := left
	for x := w - 1; x > left; x-- {
		if colHas(x) {
			right = x
			break
		}
	}

	// right and bottom are the last foreground column and row.
	return image.Rect(left, top, right+1, bottom+1), true
}

// AutocropByColor crops b to the bounds of its non-bg pixels.
//
// If b contains no foreground pixel it is returned unchanged. Otherwise the result is
// a new 24-bit buffer, as with CropRect.
func AutocropByColor(b *bitmap.Buffer, bg bitmap.BGRColor) (*bitmap.Buffer, error) {
	if err := bitmap.Validate(b); err != nil {
		return nil, err
	}
	r, ok := ForegroundBounds(b, bg)
	if !ok {
		return b, nil
	}
	return CropRect(b, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
