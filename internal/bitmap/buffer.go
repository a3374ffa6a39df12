package bitmap

import (
	"fmt"
	"image"
)

// MaxBufferBytes caps the size of a single pixel buffer. Requests above it fail with
// an AllocationError instead of exhausting memory.
const MaxBufferBytes = 1 << 30

// Buffer is an owned, stride-aligned BGR or BGRA pixel buffer in top-down row order.
type Buffer struct {
	width    int
	height   int
	hasAlpha bool
	stride   int
	data     []byte
}

// Stride returns the number of bytes per row for the given width and pixel format,
// aligned to a 4-byte boundary as the BMP container requires.
func Stride(width int, hasAlpha bool) int {
	return (width*bitsPerPixel(hasAlpha) + 31) / 32 * 4
}

func bitsPerPixel(hasAlpha bool) int {
	if hasAlpha {
		return 32
	}
	return 24
}

// sizeFor validates dimensions and returns stride and total byte size.
func sizeFor(op string, width, height int, hasAlpha bool) (int, int, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, &GeometryError{Op: op, Reason: fmt.Sprintf("invalid dimensions %dx%d", width, height)}
	}
	// Guard the multiplication before doing it in int.
	if int64(width) > MaxBufferBytes || int64(height) > MaxBufferBytes {
		return 0, 0, &AllocationError{Op: op, Size: int64(width) * int64(height) * 4}
	}
	stride := Stride(width, hasAlpha)
	size := int64(stride) * int64(height)
	if size > MaxBufferBytes {
		return 0, 0, &AllocationError{Op: op, Size: size}
	}
	return stride, int(size), nil
}

// New allocates a zero-filled buffer.
//
// Returns a GeometryError for non-positive dimensions and an AllocationError if the
// buffer would exceed MaxBufferBytes.
func New(width, height int, hasAlpha bool) (*Buffer, error) {
	stride, size, err := sizeFor("new buffer", width, height, hasAlpha)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		width:    width,
		height:   height,
		hasAlpha: hasAlpha,
		stride:   stride,
		data:     make([]byte, size),
	}, nil
}

// FromData wraps data as a buffer without copying. The caller transfers ownership of
// data and must not use it afterwards. len(data) must equal Stride(width)*height.
func FromData(width, height int, hasAlpha bool, data []byte) (*Buffer, error) {
	stride, size, err := sizeFor("wrap buffer", width, height, hasAlpha)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, &GeometryError{
			Op:     "wrap buffer",
			Reason: fmt.Sprintf("data length %d, want %d", len(data), size),
		}
	}
	return &Buffer{width: width, height: height, hasAlpha: hasAlpha, stride: stride, data: data}, nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// HasAlpha reports whether pixels are 4-byte BGRA.
func (b *Buffer) HasAlpha() bool { return b.hasAlpha }

// Stride returns the number of bytes per row including padding.
func (b *Buffer) Stride() int { return b.stride }

// BytesPerPixel returns 4 for BGRA buffers and 3 for BGR buffers.
func (b *Buffer) BytesPerPixel() int {
	if b.hasAlpha {
		return 4
	}
	return 3
}

// BitsPerPixel returns 32 or 24.
func (b *Buffer) BitsPerPixel() int { return bitsPerPixel(b.hasAlpha) }

// Data returns the underlying bytes. The slice is owned by the buffer; writes through
// it are visible to every holder of b.
func (b *Buffer) Data() []byte { return b.data }

// Bounds returns the image rectangle (0,0)-(width,height).
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Offset returns the index of pixel (x, y)'s first byte (the blue channel).
//
// It is the single bounds-checked entry point for pixel addressing and panics if
// (x, y) lies outside the image.
func (b *Buffer) Offset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("bitmap: pixel (%d,%d) outside %dx%d buffer", x, y, b.width, b.height))
	}
	return y*b.stride + x*b.BytesPerPixel()
}

// Row returns the bytes of row y, padding included.
func (b *Buffer) Row(y int) []byte {
	start := b.Offset(0, y)
	return b.data[start : start+b.stride]
}

// At returns the color of pixel (x, y).
func (b *Buffer) At(x, y int) BGRColor {
	i := b.Offset(x, y)
	return BGRColor{B: b.data[i], G: b.data[i+1], R: b.data[i+2]}
}

// Set writes the B, G and R channels of pixel (x, y). Alpha is left untouched.
func (b *Buffer) Set(x, y int, c BGRColor) {
	i := b.Offset(x, y)
	b.data[i] = c.B
	b.data[i+1] = c.G
	b.data[i+2] = c.R
}

// Alpha returns the alpha channel of pixel (x, y), or 255 for 24-bit buffers.
func (b *Buffer) Alpha(x, y int) uint8 {
	if !b.hasAlpha {
		return 0xff
	}
	return b.data[b.Offset(x, y)+3]
}

// SetAlpha writes the alpha channel of pixel (x, y). It is a no-op on 24-bit buffers.
func (b *Buffer) SetAlpha(x, y int, a uint8) {
	if !b.hasAlpha {
		return
	}
	b.data[b.Offset(x, y)+3] = a
}

// Fill sets every pixel's B, G and R channels to c.
func (b *Buffer) Fill(c BGRColor) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.Set(x, y, c)
		}
	}
}

// Clone returns a deep copy with identical geometry.
func (b *Buffer) Clone() *Buffer {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Buffer{
		width:    b.width,
		height:   b.height,
		hasAlpha: b.hasAlpha,
		stride:   b.stride,
		data:     data,
	}
}

// ReverseRows returns a new buffer whose row i is row height-1-i of b.
// Applying it twice yields the original content.
func (b *Buffer) ReverseRows() *Buffer {
	data := make([]byte, len(b.data))
	for src := 0; src < b.height; src++ {
		dst := b.height - 1 - src
		copy(data[dst*b.stride:(dst+1)*b.stride], b.data[src*b.stride:(src+1)*b.stride])
	}
	return &Buffer{
		width:    b.width,
		height:   b.height,
		hasAlpha: b.hasAlpha,
		stride:   b.stride,
		data:     data,
	}
}
