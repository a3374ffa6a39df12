package filter

import (
	"fmt"
	"math"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// MaxKernelSize bounds the side of generated kernels and filter windows.
const MaxKernelSize = 1<<12 - 1

// maxRadius is the largest radius whose window fits in MaxKernelSize.
const maxRadius = (MaxKernelSize - 1) / 2

// Kernel is a square matrix of weights stored row-major. Size is odd.
type Kernel struct {
	Size    int
	Weights []float64
}

// NewKernel validates size and weights and returns the kernel.
func NewKernel(size int, weights []float64) (*Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return nil, &bitmap.GeometryError{Op: "kernel", Reason: fmt.Sprintf("size %d is not a positive odd number", size)}
	}
	if len(weights) != size*size {
		return nil, &bitmap.GeometryError{
			Op:     "kernel",
			Reason: fmt.Sprintf("%d weights for a %dx%d kernel", len(weights), size, size),
		}
	}
	return &Kernel{Size: size, Weights: weights}, nil
}

// At returns the weight at row, col.
func (k *Kernel) At(row, col int) float64 {
	return k.Weights[row*k.Size+col]
}

// Radius returns the distance from the centre cell to the edge.
func (k *Kernel) Radius() int {
	return k.Size / 2
}

func (k *Kernel) validate() error {
	if k == nil {
		return &bitmap.GeometryError{Op: "kernel", Reason: "nil kernel"}
	}
	_, err := NewKernel(k.Size, k.Weights)
	return err
}

func windowSize(op string, radius int) (int, error) {
	if radius < 0 {
		return 0, &bitmap.GeometryError{Op: op, Reason: fmt.Sprintf("negative radius %d", radius)}
	}
	if radius > maxRadius {
		return 0, &bitmap.GeometryError{
			Op:     op,
			Reason: fmt.Sprintf("radius %d exceeds %d", radius, maxRadius),
		}
	}
	return 2*radius + 1, nil
}

// BoxKernel returns the uniform (2*radius+1)^2 kernel with every weight 1/n^2.
func BoxKernel(radius int) (*Kernel, error) {
	n, err := windowSize("box kernel", radius)
	if err != nil {
		return nil, err
	}
	weights := make([]float64, n*n)
	for i := range weights {
		weights[i] = 1 / float64(n*n)
	}
	return &Kernel{Size: n, Weights: weights}, nil
}

// GaussianKernel samples exp(-(i²+j²)/(2σ²)) / (2πσ²) on a square of side
// 2*ceil(3σ)+1 centred on the origin. The weights are not normalised.
func GaussianKernel(sigma float64) (*Kernel, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, &bitmap.GeometryError{Op: "gaussian kernel", Reason: fmt.Sprintf("sigma %v must be positive", sigma)}
	}
	// Bound the radius while it is still a float so the int conversion cannot overflow.
	if math.Ceil(3*sigma) > maxRadius {
		return nil, &bitmap.GeometryError{Op: "gaussian kernel", Reason: fmt.Sprintf("sigma %v is too large", sigma)}
	}
	r := int(math.Ceil(3 * sigma))
	size := 2*r + 1

	twoSigma2 := 2 * sigma * sigma
	norm := 1 / (math.Pi * twoSigma2)
	weights := make([]float64, size*size)
	for i := -r; i <= r; i++ {
		for j := -r; j <= r; j++ {
			weights[(i+r)*size+(j+r)] = norm * math.Exp(-float64(i*i+j*j)/twoSigma2)
		}
	}
	return &Kernel{Size: size, Weights: weights}, nil
}
