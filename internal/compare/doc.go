// Package compare provides exact and perceptual comparison of bitmap buffers.
//
// PixelEqual and FindSubImage compare B, G and R bytes exactly and ignore alpha.
// MeanDeltaE and Diff measure perceptual distance in CIE Lab using the CIEDE2000
// formula.
package compare
