// Package bitmap provides the owned pixel buffer every other engine package works on.
//
// A Buffer holds uncompressed 24-bit (BGR) or 32-bit (BGRA) pixels in top-down row
// order: row 0 is the top of the image, matching image.Image conventions rather than
// the bottom-up order of the BMP container.
//
// # Memory Layout
//
// Rows are aligned to 32 bits, so the stride is not necessarily width*bytesPerPixel:
//
//	stride = ((width * bitsPerPixel + 31) / 32) * 4
//
// Pixel (x, y) channel c lives at data[y*stride + x*bytesPerPixel + c] with channel
// order B=0, G=1, R=2 and, for 32-bit buffers, A=3. Gap bytes at the end of each row are
// padding and their content is undefined.
//
// # Ownership
//
// A Buffer exclusively owns its data slice. Operations that change width, height or
// pixel format allocate a new Buffer; they never alias the old one. A Buffer is not
// safe for concurrent mutation.
//
// # Error Handling
//
// Failures are reported with three typed errors:
//   - DecodeError: the byte stream is not a supported BMP
//   - GeometryError: empty buffers, degenerate rectangles or invalid parameters
//   - AllocationError: a requested buffer would exceed MaxBufferBytes
//
// Use errors.As to inspect them; DecodeError wraps the underlying cause.
package bitmap
