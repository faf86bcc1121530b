package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrUnsupportedShape reports an image that is neither single-channel nor
// three-channel RGB.
var ErrUnsupportedShape = errors.New("image is neither single-channel nor RGB")

// ITU-R 601 luma weights, the rgb2gray coefficients.
const (
	lumaR = 0.2125
	lumaG = 0.7154
	lumaB = 0.0721
)

// Bounds delimits the non-empty region of a composed image, one pixel
// outside the outermost foreground row and column on each side. A side is
// -1 when no foreground was found by its scan.
type Bounds struct {
	Left, Right, Top, Bottom int
}

// Clip limits the bounds to a rows x cols image.
func (b Bounds) Clip(rows, cols int) Bounds {
	return Bounds{
		Left:   min(max(b.Left, 0), cols-1),
		Right:  min(max(b.Right, 0), cols-1),
		Top:    min(max(b.Top, 0), rows-1),
		Bottom: min(max(b.Bottom, 0), rows-1),
	}
}

// Boundary finds the bounding box of foreground content in an image given
// as a list of equally sized channels: a single channel is used directly,
// three channels collapse to intensity under the luma weights, and any
// other count fails with ErrUnsupportedShape. A pixel is foreground when
// its intensity exceeds threshold. Pure; no input is modified.
func Boundary(channels []*mat.Dense, threshold float64) (Bounds, error) {
	var gray *mat.Dense
	switch len(channels) {
	case 1:
		gray = channels[0]
	case 3:
		gray = luma(channels[0], channels[1], channels[2])
	default:
		return Bounds{}, fmt.Errorf("%w: %d channels", ErrUnsupportedShape, len(channels))
	}

	rows, cols := gray.Dims()
	colSum := make([]float64, cols)
	rowSum := make([]float64, rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if gray.At(r, c) > threshold {
				colSum[c]++
				rowSum[r]++
			}
		}
	}

	var b Bounds
	b.Left, b.Right = findBorder(colSum)
	b.Top, b.Bottom = findBorder(rowSum)
	return b, nil
}

// findBorder scans a projection profile for its first and last nonzero
// entries and returns the indices one step outside each, or -1 sentinels
// when none exist. Index 0 is never inspected by either scan.
func findBorder(sums []float64) (first, last int) {
	first, last = -1, -1
	for i := 1; i < len(sums); i++ {
		if sums[i] != 0 {
			first = i - 1
			break
		}
	}
	for i := len(sums) - 1; i >= 1; i-- {
		if sums[i] != 0 {
			last = i + 1
			break
		}
	}
	return first, last
}

// luma collapses three channels into a single intensity channel.
func luma(r, g, b *mat.Dense) *mat.Dense {
	rows, cols := r.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, lumaR*r.At(i, j)+lumaG*g.At(i, j)+lumaB*b.At(i, j))
		}
	}
	return out
}
