package bitmap

import (
	"errors"
	"fmt"
)

// Decode failure causes. A DecodeError wraps exactly one of these or an *AllocationError.
var (
	ErrBadMagic               = errors.New("missing BM signature")
	ErrTruncatedHeader        = errors.New("truncated header")
	ErrTruncatedData          = errors.New("truncated pixel data")
	ErrUnsupportedDepth       = errors.New("unsupported bit depth")
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrUnsupportedHeader      = errors.New("unsupported info header")
	ErrSizeMismatch           = errors.New("declared image size does not match dimensions")
	ErrInvalidDimensions      = errors.New("invalid dimensions")
)

// DecodeError reports that a byte stream could not be turned into a Buffer.
type DecodeError struct {
	Op  string // the decoding step that failed, e.g. "read info header"
	Err error  // the underlying cause
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bmp decode: %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// GeometryError reports an empty buffer, a degenerate rectangle or an invalid
// geometric parameter.
type GeometryError struct {
	Op     string
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// AllocationError reports that a buffer of Size bytes could not be allocated.
type AllocationError struct {
	Op   string
	Size int64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s: cannot allocate %d bytes (limit %d)", e.Op, e.Size, int64(MaxBufferBytes))
}

// Validate returns a GeometryError if b is nil or has no pixels.
func Validate(b *Buffer) error {
	if b == nil || b.width <= 0 || b.height <= 0 || len(b.data) == 0 {
		return &GeometryError{Op: "validate", Reason: "empty buffer"}
	}
	return nil
}
