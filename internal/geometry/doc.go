// Package geometry implements the coordinate-level transforms of the BMP engine.
//
// # Operations
//
//   - CropRect: copy a clamped rectangle into a new 24-bit buffer
//   - AddAlpha: widen a 24-bit buffer to 32-bit with zero alpha
//   - ReverseRows: invert row order into a new buffer
//   - HorizontalFlip: mirror every row in place
//   - Rotate: inverse-mapped rotation with optional canvas expansion
//   - ForegroundBounds / AutocropByColor: trim a uniform background border
//
// # Ownership
//
// Functions that change the size or pixel format of an image return a new buffer and
// leave their argument untouched. HorizontalFlip is the only in-place operation. On
// error no buffer is modified.
//
// # Coordinate System
//
// Coordinates follow the image convention used throughout the module: origin at the
// top-left, x grows rightward (columns), y grows downward (rows). Rectangles are
// inclusive at the top-left and exclusive at the bottom-right.
package geometry
