package geometry

import (
	"fmt"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// CropRect copies the rectangle [left,right)x[top,bottom) of b into a new buffer.
//
// right and bottom are clamped to the buffer bounds. The result is always 24-bit,
// whatever the source format: alpha is dropped.
//
// Returns a GeometryError if left or top is negative or if the rectangle is empty
// after clamping.
func CropRect(b *bitmap.Buffer, left, top, right, bottom int) (*bitmap.Buffer, error) {
	if err := bitmap.Validate(b); err != nil {
		return nil, err
	}
	if left < 0 || top < 0 {
		return nil, &bitmap.GeometryError{
			Op:     "crop",
			Reason: fmt.Sprintf("origin (%d,%d) is negative", left, top),
		}
	}
	right = min(right, b.Width())
	bottom = min(bottom, b.Height())
	if right <= left || bottom <= top {
		return nil, &bitmap.GeometryError{
			Op:     "crop",
			Reason: fmt.Sprintf("empty region (%d,%d)-(%d,%d) in %dx%d image", left, top, right, bottom, b.Width(), b.Height()),
		}
	}

	out, err := bitmap.New(right-left, bottom-top, false)
	if err != nil {
		return nil, err
	}
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			out.Set(x-left, y-top, b.At(x, y))
		}
	}
	return out, nil
}

// AddAlpha returns a 32-bit version of b. A buffer that already carries alpha is
// returned as is; otherwise the color channels are copied into a new buffer whose
// alpha bytes are all zero.
func AddAlpha(b *bitmap.Buffer) (*bitmap.Buffer, error) {
	if err := bitmap.Validate(b); err != nil {
		return nil, err
	}
	if b.HasAlpha() {
		return b, nil
	}

	out, err := bitmap.New(b.Width(), b.Height(), true)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			out.Set(x, y, b.At(x, y))
		}
	}
	return out, nil
}

// ReverseRows returns a new buffer with the row order of b inverted.
func ReverseRows(b *bitmap.Buffer) (*bitmap.Buffer, error) {
	if err := bitmap.Validate(b); err != nil {
		return nil, err
	}
	return b.ReverseRows(), nil
}
