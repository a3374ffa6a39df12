package filter

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

func createSolidBuffer(t *testing.T, width, height int, hasAlpha bool, c bitmap.BGRColor) *bitmap.Buffer {
	t.Helper()
	b, err := bitmap.New(width, height, hasAlpha)
	if err != nil {
		t.Fatalf("bitmap.New failed: %v", err)
	}
	b.Fill(c)
	return b
}

func createNoiseBuffer(t *testing.T, width, height int, hasAlpha bool) *bitmap.Buffer {
	t.Helper()
	b, err := bitmap.New(width, height, hasAlpha)
	if err != nil {
		t.Fatalf("bitmap.New failed: %v", err)
	}
	seed := uint32(7)
	next := func() uint8 {
		seed = seed*1103515245 + 12345
		return uint8(seed >> 16)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.Set(x, y, bitmap.BGRColor{B: next(), G: next(), R: next()})
			b.SetAlpha(x, y, next())
		}
	}
	return b
}

func TestReflect(t *testing.T) {
	tests := []struct {
		coord, dim, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-3, 5, 3},
		{5, 5, 4},
		{7, 5, 4},
		{-7, 5, 4},
		{-1, 1, 0},
		{1, 1, 0},
	}
	for _, tt := range tests {
		if got := Reflect(tt.coord, tt.dim); got != tt.want {
			t.Errorf("Reflect(%d, %d) = %d, want %d", tt.coord, tt.dim, got, tt.want)
		}
	}
}

func TestNewKernel(t *testing.T) {
	k, err := NewKernel(3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	if err != nil {
		t.Fatalf("NewKernel failed: %v", err)
	}
	if k.Radius() != 1 || k.At(0, 2) != 3 || k.At(2, 0) != 7 || k.At(1, 1) != 5 {
		t.Errorf("unexpected layout: radius %d, (0,2)=%v (2,0)=%v", k.Radius(), k.At(0, 2), k.At(2, 0))
	}

	invalid := []struct {
		name    string
		size    int
		weights []float64
	}{
		{"even", 2, make([]float64, 4)},
		{"zero", 0, nil},
		{"too few weights", 3, make([]float64, 8)},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			var geoErr *bitmap.GeometryError
			if _, err := NewKernel(tt.size, tt.weights); !errors.As(err, &geoErr) {
				t.Errorf("expected GeometryError, got %v", err)
			}
		})
	}
}

func TestConvolve_Identity(t *testing.T) {
	src := createNoiseBuffer(t, 6, 5, true)
	k, _ := NewKernel(3, []float64{0, 0, 0, 0, 1, 0, 0, 0, 0})
	got, err := Convolve(src, k)
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	if !bytes.Equal(got.Data(), src.Data()) {
		t.Error("identity kernel changed the image")
	}
	if got == src {
		t.Error("Convolve must return a new buffer")
	}
}

func TestConvolve_KernelOrientation(t *testing.T) {
	// A kernel that samples only the pixel to the right shifts the image left.
	src, _ := bitmap.New(3, 1, false)
	for x := 0; x < 3; x++ {
		src.Set(x, 0, bitmap.BGRColor{B: uint8(10 * (x + 1))})
	}
	k, _ := NewKernel(3, []float64{0, 0, 0, 0, 0, 1, 0, 0, 0})
	got, err := Convolve(src, k)
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	want := []uint8{20, 30, 30}
	for x, w := range want {
		if got.At(x, 0).B != w {
			t.Errorf("pixel %d: got %d, want %d", x, got.At(x, 0).B, w)
		}
	}
}

func TestConvolve_Wraparound(t *testing.T) {
	src := createSolidBuffer(t, 2, 2, false, bitmap.BGRColor{B: 200, G: 10, R: 1})

	double, _ := NewKernel(1, []float64{2})
	got, err := Convolve(src, double)
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	// 400 keeps its low byte, 144.
	if c := got.At(0, 0); c.B != 144 || c.G != 20 || c.R != 2 {
		t.Errorf("doubled: got %+v, want B=144 G=20 R=2", c)
	}

	negate, _ := NewKernel(1, []float64{-1})
	got, err = Convolve(src, negate)
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	if c := got.At(1, 1); c.B != 56 || c.G != 246 || c.R != 255 {
		t.Errorf("negated: got %+v, want B=56 G=246 R=255", c)
	}
}

func TestConvolve_PreservesAlphaAndSource(t *testing.T) {
	src := createNoiseBuffer(t, 5, 4, true)
	orig := src.Clone()
	k, _ := BoxKernel(1)
	got, err := Convolve(src, k)
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	if !bytes.Equal(src.Data(), orig.Data()) {
		t.Error("source buffer was modified")
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			if got.Alpha(x, y) != src.Alpha(x, y) {
				t.Fatalf("alpha at (%d,%d) changed", x, y)
			}
		}
	}
}

func TestConvolve_Invalid(t *testing.T) {
	src := createSolidBuffer(t, 2, 2, false, bitmap.BGRColor{})
	if _, err := Convolve(src, nil); err == nil {
		t.Error("nil kernel should fail")
	}
	if _, err := Convolve(src, &Kernel{Size: 2, Weights: make([]float64, 4)}); err == nil {
		t.Error("even kernel should fail")
	}
	k, _ := BoxKernel(1)
	if _, err := Convolve(nil, k); err == nil {
		t.Error("nil buffer should fail")
	}
}

func TestBoxFilter_Borders(t *testing.T) {
	// A single row: vertical samples all land on row 0, horizontal samples mirror at
	// the left edge and stop at the last column on the right.
	src, _ := bitmap.New(3, 1, false)
	for x, v := range []uint8{0, 9, 90} {
		src.Set(x, 0, bitmap.BGRColor{B: v, G: v, R: v})
	}
	got, err := MeanFilter(src)
	if err != nil {
		t.Fatalf("MeanFilter failed: %v", err)
	}
	want := []uint8{6, 33, 63}
	for x, w := range want {
		if c := got.At(x, 0); c.B != w || c.G != w || c.R != w {
			t.Errorf("pixel %d: got %+v, want %d", x, c, w)
		}
	}
}

func TestBoxFilter_Uniform(t *testing.T) {
	c := bitmap.BGRColor{B: 100, G: 37, R: 255}
	for _, radius := range []int{0, 1, 2, 4} {
		got, err := BoxFilter(createSolidBuffer(t, 5, 3, false, c), radius)
		if err != nil {
			t.Fatalf("BoxFilter(%d) failed: %v", radius, err)
		}
		for y := 0; y < 3; y++ {
			for x := 0; x < 5; x++ {
				if got.At(x, y) != c {
					t.Fatalf("radius %d pixel (%d,%d): got %+v, want %+v", radius, x, y, got.At(x, y), c)
				}
			}
		}
	}
}

func TestBoxFilter_MatchesBoxKernel(t *testing.T) {
	src := createNoiseBuffer(t, 8, 6, false)
	box, err := BoxFilter(src, 2)
	if err != nil {
		t.Fatalf("BoxFilter failed: %v", err)
	}
	k, _ := BoxKernel(2)
	conv, err := Convolve(src, k)
	if err != nil {
		t.Fatalf("Convolve failed: %v", err)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			a, b := box.At(x, y), conv.At(x, y)
			for _, d := range []int{int(a.B) - int(b.B), int(a.G) - int(b.G), int(a.R) - int(b.R)} {
				if d < 0 || d > 1 {
					t.Fatalf("pixel (%d,%d): box %+v, kernel %+v", x, y, a, b)
				}
			}
		}
	}
}

func TestBoxFilter_NegativeRadius(t *testing.T) {
	var geoErr *bitmap.GeometryError
	if _, err := BoxFilter(createSolidBuffer(t, 2, 2, false, bitmap.BGRColor{}), -1); !errors.As(err, &geoErr) {
		t.Errorf("expected GeometryError, got %v", err)
	}
	if _, err := BoxKernel(-2); !errors.As(err, &geoErr) {
		t.Errorf("expected GeometryError, got %v", err)
	}
}

func TestWindowFilters_RadiusTooLarge(t *testing.T) {
	src := createSolidBuffer(t, 4, 4, false, bitmap.BGRColor{B: 1})
	for _, radius := range []int{maxRadius + 1, 1 << 24, math.MaxInt} {
		var geoErr *bitmap.GeometryError
		if _, err := MedianFilter(src, radius); !errors.As(err, &geoErr) {
			t.Errorf("median radius %d: expected GeometryError, got %v", radius, err)
		}
		if _, err := BoxFilter(src, radius); !errors.As(err, &geoErr) {
			t.Errorf("box radius %d: expected GeometryError, got %v", radius, err)
		}
		if _, err := BoxKernel(radius); !errors.As(err, &geoErr) {
			t.Errorf("box kernel radius %d: expected GeometryError, got %v", radius, err)
		}
	}
}

func TestMedianFilter_Outlier(t *testing.T) {
	v := bitmap.BGRColor{B: 50, G: 60, R: 70}
	src := createSolidBuffer(t, 5, 5, true, v)
	src.Set(2, 2, bitmap.BGRColor{B: 255, G: 0, R: 255})
	src.SetAlpha(2, 2, 9)

	got, err := MedianFilter(src, 1)
	if err != nil {
		t.Fatalf("MedianFilter failed: %v", err)
	}
	if got.At(2, 2) != v {
		t.Errorf("outlier: got %+v, want %+v", got.At(2, 2), v)
	}
	if got.Alpha(2, 2) != 9 {
		t.Errorf("alpha changed to %d", got.Alpha(2, 2))
	}
	if src.At(2, 2) == v {
		t.Error("source buffer was modified")
	}
}

func TestMedianFilter_RadiusZero(t *testing.T) {
	src := createNoiseBuffer(t, 4, 4, false)
	got, err := MedianFilter(src, 0)
	if err != nil {
		t.Fatalf("MedianFilter failed: %v", err)
	}
	if !bytes.Equal(got.Data(), src.Data()) {
		t.Error("radius 0 should leave the image unchanged")
	}
}

func TestMedianFilter_PicksMiddle(t *testing.T) {
	// Column values 1..9 in a 3x3 image; the centre window holds all nine.
	src, _ := bitmap.New(3, 3, false)
	v := uint8(9)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			src.Set(x, y, bitmap.BGRColor{B: v})
			v--
		}
	}
	got, err := MedianFilter(src, 1)
	if err != nil {
		t.Fatalf("MedianFilter failed: %v", err)
	}
	if got.At(1, 1).B != 5 {
		t.Errorf("centre: got %d, want 5", got.At(1, 1).B)
	}
}

func TestGaussianKernel(t *testing.T) {
	tests := []struct {
		sigma    float64
		wantSize int
	}{
		{1, 7},
		{0.5, 5},
		{0.3, 3},
		{2, 13},
	}
	for _, tt := range tests {
		k, err := GaussianKernel(tt.sigma)
		if err != nil {
			t.Fatalf("GaussianKernel(%v) failed: %v", tt.sigma, err)
		}
		if k.Size != tt.wantSize {
			t.Errorf("sigma %v: size %d, want %d", tt.sigma, k.Size, tt.wantSize)
		}
		r := k.Radius()
		centre := 1 / (2 * math.Pi * tt.sigma * tt.sigma)
		if math.Abs(k.At(r, r)-centre) > 1e-12 {
			t.Errorf("sigma %v: centre %v, want %v", tt.sigma, k.At(r, r), centre)
		}
		if k.At(0, 1) != k.At(1, 0) || k.At(0, 0) != k.At(k.Size-1, k.Size-1) {
			t.Errorf("sigma %v: kernel is not symmetric", tt.sigma)
		}
		if tt.sigma < 1 {
			continue
		}
		// Wide kernels lose a little mass past 3 sigma.
		sum := 0.0
		for _, w := range k.Weights {
			sum += w
		}
		if sum >= 1 || sum < 0.99 {
			t.Errorf("sigma %v: weights sum to %v", tt.sigma, sum)
		}
	}
}

func TestGaussianKernel_Invalid(t *testing.T) {
	for _, sigma := range []float64{0, -1, math.NaN(), math.Inf(1), 683, 1e19, 1e300} {
		var geoErr *bitmap.GeometryError
		if _, err := GaussianKernel(sigma); !errors.As(err, &geoErr) {
			t.Errorf("sigma %v: expected GeometryError, got %v", sigma, err)
		}
	}
}

func TestGaussianBlur_Uniform(t *testing.T) {
	src := createSolidBuffer(t, 6, 6, false, bitmap.BGRColor{B: 100, G: 100, R: 100})
	got, err := GaussianBlur(src, 1)
	if err != nil {
		t.Fatalf("GaussianBlur failed: %v", err)
	}
	// The sampled weights sum to about 0.9995, so 100 truncates to 99.
	if c := got.At(3, 3); c.B != 99 {
		t.Errorf("centre: got %+v, want 99", c)
	}
}

func TestEngine_ParallelMatchesSerial(t *testing.T) {
	src := createNoiseBuffer(t, 11, 17, true)
	k, _ := GaussianKernel(0.8)
	ctx := context.Background()

	ops := []struct {
		name string
		run  func(e *Engine) (*bitmap.Buffer, error)
	}{
		{"convolve", func(e *Engine) (*bitmap.Buffer, error) { return e.Convolve(ctx, src, k) }},
		{"box", func(e *Engine) (*bitmap.Buffer, error) { return e.BoxFilter(ctx, src, 2) }},
		{"mean", func(e *Engine) (*bitmap.Buffer, error) { return e.MeanFilter(ctx, src) }},
		{"median", func(e *Engine) (*bitmap.Buffer, error) { return e.MedianFilter(ctx, src, 1) }},
		{"gaussian", func(e *Engine) (*bitmap.Buffer, error) { return e.GaussianBlur(ctx, src, 1.2) }},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			want, err := op.run(NewEngine(1))
			if err != nil {
				t.Fatalf("serial run failed: %v", err)
			}
			for _, workers := range []int{2, 4, 64} {
				got, err := op.run(NewEngine(workers))
				if err != nil {
					t.Fatalf("%d workers failed: %v", workers, err)
				}
				if !bytes.Equal(got.Data(), want.Data()) {
					t.Errorf("%d workers produced a different image", workers)
				}
			}
		})
	}
}

func TestEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(3).MedianFilter(ctx, createNoiseBuffer(t, 4, 4, false), 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewEngine_MinimumWorkers(t *testing.T) {
	if e := NewEngine(0); e.Workers != 1 {
		t.Errorf("Workers: got %d, want 1", e.Workers)
	}
	var zero Engine
	if _, err := zero.MeanFilter(context.Background(), createNoiseBuffer(t, 3, 3, false)); err != nil {
		t.Errorf("zero Engine should run serially: %v", err)
	}
}
