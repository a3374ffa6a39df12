package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// Decode reads an uncompressed 24- or 32-bit BMP from r.
//
// The returned buffer is always in top-down row order: bottom-up files (positive
// height) are row-reversed, top-down files (negative height) are stored as read.
//
// # Errors
//
// Every failure is a *bitmap.DecodeError wrapping one of the bitmap.Err* causes or
// a *bitmap.AllocationError:
//   - fewer than 54 header bytes: ErrTruncatedHeader
//   - signature other than "BM": ErrBadMagic
//   - info header shorter than 40 bytes: ErrUnsupportedHeader
//   - bit depth other than 24/32: ErrUnsupportedDepth
//   - compression other than BI_RGB: ErrUnsupportedCompression
//   - non-positive width or zero height: ErrInvalidDimensions
//   - declared image size smaller than stride*height: ErrSizeMismatch
//   - fewer pixel bytes than declared: ErrTruncatedData
func Decode(r io.Reader) (*bitmap.Buffer, error) {
	fh, ih, err := readHeaders(r)
	if err != nil {
		return nil, err
	}
	info, err := describe(fh, ih)
	if err != nil {
		return nil, err
	}

	// Skip anything between the 40-byte info header and the pixel array.
	if gap := info.DataOffset - headersLen; gap > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(gap)); err != nil {
			return nil, &bitmap.DecodeError{Op: "skip to pixel data", Err: bitmap.ErrTruncatedData}
		}
	}

	need := info.Stride * info.Height
	if info.ImageSize > bitmap.MaxBufferBytes {
		return nil, &bitmap.DecodeError{
			Op:  "allocate pixel data",
			Err: &bitmap.AllocationError{Op: "decode", Size: int64(info.ImageSize)},
		}
	}

	data := make([]byte, info.ImageSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, &bitmap.DecodeError{Op: "read pixel data", Err: bitmap.ErrTruncatedData}
	}

	buf, err := bitmap.FromData(info.Width, info.Height, info.HasAlpha, data[:need:need])
	if err != nil {
		return nil, &bitmap.DecodeError{Op: "wrap pixel data", Err: err}
	}

	if !info.TopDown {
		buf = buf.ReverseRows()
	}
	return buf, nil
}

// DecodeBytes decodes a complete BMP held in memory.
func DecodeBytes(data []byte) (*bitmap.Buffer, error) {
	return Decode(bytes.NewReader(data))
}

// ReadInfo parses only the headers of a BMP, validating them exactly as Decode does.
func ReadInfo(r io.Reader) (*Info, error) {
	fh, ih, err := readHeaders(r)
	if err != nil {
		return nil, err
	}
	return describe(fh, ih)
}

func readHeaders(r io.Reader) (fileHeader, infoHeader, error) {
	var fh fileHeader
	var ih infoHeader

	var raw [headersLen]byte
	if _, err := io.ReadFull(r, raw[:fileHeaderLen]); err != nil {
		return fh, ih, &bitmap.DecodeError{Op: "read file header", Err: bitmap.ErrTruncatedHeader}
	}
	if err := binary.Read(bytes.NewReader(raw[:fileHeaderLen]), binary.LittleEndian, &fh); err != nil {
		return fh, ih, &bitmap.DecodeError{Op: "parse file header", Err: bitmap.ErrTruncatedHeader}
	}
	if fh.Magic != magic {
		return fh, ih, &bitmap.DecodeError{Op: "read file header", Err: bitmap.ErrBadMagic}
	}

	if _, err := io.ReadFull(r, raw[fileHeaderLen:]); err != nil {
		return fh, ih, &bitmap.DecodeError{Op: "read info header", Err: bitmap.ErrTruncatedHeader}
	}
	if err := binary.Read(bytes.NewReader(raw[fileHeaderLen:]), binary.LittleEndian, &ih); err != nil {
		return fh, ih, &bitmap.DecodeError{Op: "parse info header", Err: bitmap.ErrTruncatedHeader}
	}
	return fh, ih, nil
}

// describe validates parsed headers and derives the in-memory geometry.
func describe(fh fileHeader, ih infoHeader) (*Info, error) {
	if ih.HeaderSize < infoHeaderLen {
		return nil, &bitmap.DecodeError{
			Op:  "check info header",
			Err: fmt.Errorf("%w: %d bytes", bitmap.ErrUnsupportedHeader, ih.HeaderSize),
		}
	}
	if ih.BitsPerPixel != 24 && ih.BitsPerPixel != 32 {
		return nil, &bitmap.DecodeError{
			Op:  "check bit depth",
			Err: fmt.Errorf("%w: %d", bitmap.ErrUnsupportedDepth, ih.BitsPerPixel),
		}
	}
	if ih.Compression != compressionRGB {
		return nil, &bitmap.DecodeError{
			Op:  "check compression",
			Err: fmt.Errorf("%w: %d", bitmap.ErrUnsupportedCompression, ih.Compression),
		}
	}

	width := int(ih.Width)
	height := int(ih.Height)
	topDown := false
	if height < 0 {
		height, topDown = -height, true
	}
	if width <= 0 || height == 0 {
		return nil, &bitmap.DecodeError{
			Op:  "check dimensions",
			Err: fmt.Errorf("%w: %dx%d", bitmap.ErrInvalidDimensions, ih.Width, ih.Height),
		}
	}

	hasAlpha := ih.BitsPerPixel == 32
	stride := bitmap.Stride(width, hasAlpha)
	need := int64(stride) * int64(height)
	if need > bitmap.MaxBufferBytes {
		return nil, &bitmap.DecodeError{
			Op:  "allocate pixel data",
			Err: &bitmap.AllocationError{Op: "decode", Size: need},
		}
	}

	size := int64(ih.ImageSize)
	if size == 0 {
		size = need
	}
	if size < need {
		return nil, &bitmap.DecodeError{
			Op:  "check image size",
			Err: fmt.Errorf("%w: declared %d, need %d", bitmap.ErrSizeMismatch, size, need),
		}
	}

	offset := int(fh.DataOffset)
	if offset < headersLen {
		offset = headersLen
	}

	return &Info{
		Width:        width,
		Height:       height,
		TopDown:      topDown,
		BitsPerPixel: int(ih.BitsPerPixel),
		HasAlpha:     hasAlpha,
		Stride:       stride,
		ImageSize:    int(size),
		DataOffset:   offset,
		Format:       "bmp",
	}, nil
}
