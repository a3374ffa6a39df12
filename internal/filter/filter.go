package filter

import (
	"context"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// Convolve applies k to b on a single goroutine.
func Convolve(b *bitmap.Buffer, k *Kernel) (*bitmap.Buffer, error) {
	return serial.Convolve(context.Background(), b, k)
}

// BoxFilter averages b over a (2*radius+1)^2 window.
func BoxFilter(b *bitmap.Buffer, radius int) (*bitmap.Buffer, error) {
	return serial.BoxFilter(context.Background(), b, radius)
}

// MeanFilter averages b over a 3x3 window.
func MeanFilter(b *bitmap.Buffer) (*bitmap.Buffer, error) {
	return serial.MeanFilter(context.Background(), b)
}

// MedianFilter takes the per-channel median of b over a (2*radius+1)^2 window.
func MedianFilter(b *bitmap.Buffer, radius int) (*bitmap.Buffer, error) {
	return serial.MedianFilter(context.Background(), b, radius)
}

// GaussianBlur convolves b with GaussianKernel(sigma).
func GaussianBlur(b *bitmap.Buffer, sigma float64) (*bitmap.Buffer, error) {
	return serial.GaussianBlur(context.Background(), b, sigma)
}
