// Package filter implements windowed neighbourhood operations on bitmap buffers.
//
// # Operations
//
//   - Convolve: weighted sum over an odd square Kernel, per color channel
//   - BoxFilter / MeanFilter: uniform average over a (2r+1)^2 window
//   - MedianFilter: middle value of the sorted (2r+1)^2 window
//   - GaussianKernel / GaussianBlur: sampled 2D Gaussian weights
//
// Every operation reads from its argument and writes a new buffer, so the window
// always sees unfiltered source pixels. Alpha bytes and row padding are copied
// unchanged.
//
// # Borders
//
// Window samples that fall outside the image are folded back by Reflect: negative
// coordinates are mirrored about zero and coordinates past the last index land on the
// last index. All filters share this policy.
//
// # Convolution Overflow
//
// Convolve truncates each channel sum toward zero and stores the low eight bits. Sums
// outside 0..255, produced by sharpening or unnormalised kernels, wrap around rather
// than saturate.
//
// # Concurrency
//
// An Engine shards output rows over several goroutines. The package-level functions
// run on a single worker.
package filter
