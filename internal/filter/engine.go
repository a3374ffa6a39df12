package filter

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// Engine runs filters with output rows split across Workers goroutines. The zero
// value runs on a single goroutine.
type Engine struct {
	Workers int
}

// NewEngine returns an engine with the given number of workers (at least one).
func NewEngine(workers int) *Engine {
	return &Engine{Workers: max(workers, 1)}
}

var serial = &Engine{Workers: 1}

// rowFunc computes output row y into dst from src.
type rowFunc func(dst, src *bitmap.Buffer, y int)

// run clones src and recomputes every row with fn. Rows are divided into contiguous
// bands, one per worker. Cancellation is checked between rows; on error the partial
// result is discarded.
func (e *Engine) run(ctx context.Context, src *bitmap.Buffer, fn rowFunc) (*bitmap.Buffer, error) {
	if err := bitmap.Validate(src); err != nil {
		return nil, err
	}
	dst := src.Clone()

	workers := max(e.Workers, 1)
	h := src.Height()
	workers = min(workers, h)
	band := (h + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < h; start += band {
		start, end := start, min(start+band, h)
		g.Go(func() error {
			for y := start; y < end; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				fn(dst, src, y)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to filter rows: %w", err)
	}
	return dst, nil
}

// Convolve applies k to each color channel of b. See the package documentation for
// border handling and overflow.
func (e *Engine) Convolve(ctx context.Context, b *bitmap.Buffer, k *Kernel) (*bitmap.Buffer, error) {
	if err := k.validate(); err != nil {
		return nil, err
	}
	r := k.Radius()
	return e.run(ctx, b, func(dst, src *bitmap.Buffer, y int) {
		w, h := src.Width(), src.Height()
		data := src.Data()
		for x := 0; x < w; x++ {
			var sum [3]float64
			for i := -r; i <= r; i++ {
				sy := Reflect(y+i, h)
				for j := -r; j <= r; j++ {
					off := src.Offset(Reflect(x+j, w), sy)
					weight := k.At(i+r, j+r)
					sum[0] += float64(data[off]) * weight
					sum[1] += float64(data[off+1]) * weight
					sum[2] += float64(data[off+2]) * weight
				}
			}
			dst.Set(x, y, bitmap.BGRColor{B: wrap(sum[0]), G: wrap(sum[1]), R: wrap(sum[2])})
		}
	})
}

// wrap truncates v toward zero and keeps the low byte.
func wrap(v float64) uint8 {
	return uint8(int(v))
}

// BoxFilter replaces each channel with the mean of the (2*radius+1)^2 window around
// it, rounded down. The sum is kept in integers so the result equals the exact
// average.
func (e *Engine) BoxFilter(ctx context.Context, b *bitmap.Buffer, radius int) (*bitmap.Buffer, error) {
	n, err := windowSize("box filter", radius)
	if err != nil {
		return nil, err
	}
	area := n * n
	return e.run(ctx, b, func(dst, src *bitmap.Buffer, y int) {
		w, h := src.Width(), src.Height()
		data := src.Data()
		for x := 0; x < w; x++ {
			var sum [3]int
			for i := -radius; i <= radius; i++ {
				sy := Reflect(y+i, h)
				for j := -radius; j <= radius; j++ {
					off := src.Offset(Reflect(x+j, w), sy)
					sum[0] += int(data[off])
					sum[1] += int(data[off+1])
					sum[2] += int(data[off+2])
				}
			}
			dst.Set(x, y, bitmap.BGRColor{B: uint8(sum[0] / area), G: uint8(sum[1] / area), R: uint8(sum[2] / area)})
		}
	})
}

// MeanFilter is BoxFilter with a 3x3 window.
func (e *Engine) MeanFilter(ctx context.Context, b *bitmap.Buffer) (*bitmap.Buffer, error) {
	return e.BoxFilter(ctx, b, 1)
}

// MedianFilter replaces each channel with the median of the (2*radius+1)^2 window
// around it: the element at index n/2 of the sorted samples.
func (e *Engine) MedianFilter(ctx context.Context, b *bitmap.Buffer, radius int) (*bitmap.Buffer, error) {
	n, err := windowSize("median filter", radius)
	if err != nil {
		return nil, err
	}
	area := n * n
	return e.run(ctx, b, func(dst, src *bitmap.Buffer, y int) {
		w, h := src.Width(), src.Height()
		data := src.Data()
		window := make([]uint8, area)
		var out [3]uint8
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				k := 0
				for i := -radius; i <= radius; i++ {
					sy := Reflect(y+i, h)
					for j := -radius; j <= radius; j++ {
						window[k] = data[src.Offset(Reflect(x+j, w), sy)+c]
						k++
					}
				}
				slices.Sort(window)
				out[c] = window[area/2]
			}
			dst.Set(x, y, bitmap.BGRColor{B: out[0], G: out[1], R: out[2]})
		}
	})
}

// GaussianBlur convolves b with GaussianKernel(sigma).
func (e *Engine) GaussianBlur(ctx context.Context, b *bitmap.Buffer, sigma float64) (*bitmap.Buffer, error) {
	k, err := GaussianKernel(sigma)
	if err != nil {
		return nil, err
	}
	return e.Convolve(ctx, b, k)
}
