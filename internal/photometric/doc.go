// Package photometric implements per-pixel intensity operations: grayscale
// conversion, channel histograms, fixed-threshold binarization and Otsu's automatic
// threshold selection.
//
// Grayscale and Binarize rewrite the buffer they are given. GrayHistogram converts
// its argument to grayscale before counting, which callers rely on. OtsuThreshold
// works on a private copy.
package photometric
