package register

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"elementalscope/pkg/grid"
)

// Composite is the falsecolor overlay of two preconditioned canvases:
// left on the red channel, right on green, with an empty blue channel. It
// is a visual diagnostic only; the final merge never reads it.
type Composite struct {
	R, G, B *mat.Dense
}

// Compare builds the comparison composite, normalizing each canvas by its
// own maximum so both occupy the same intensity range. An all-zero canvas
// stays zero.
func Compare(left, right *mat.Dense) *Composite {
	rows, cols := left.Dims()
	return &Composite{
		R: normalized(left),
		G: normalized(right),
		B: mat.NewDense(rows, cols, nil),
	}
}

// Channels returns the composite's channels in RGB order.
func (c *Composite) Channels() []*mat.Dense {
	return []*mat.Dense{c.R, c.G, c.B}
}

// Boundary finds the content bounds of the composite at the given
// threshold.
func (c *Composite) Boundary(threshold float64) (grid.Bounds, error) {
	return grid.Boundary(c.Channels(), threshold)
}

// ViewBounds frames the composite for display: the content boundary grown
// outward by margin (a fraction of each axis, clipped to the composite)
// and then contracted horizontally toward the center by zoom.
func ViewBounds(c *Composite, margin, zoom float64) (grid.Bounds, error) {
	b, err := c.Boundary(0)
	if err != nil {
		return grid.Bounds{}, err
	}
	rows, cols := c.R.Dims()

	b.Left -= int(math.Round(float64(cols) * margin))
	b.Right += int(math.Round(float64(cols) * margin))
	b.Top -= int(math.Round(float64(rows) * margin))
	b.Bottom += int(math.Round(float64(rows) * margin))
	b = b.Clip(rows, cols)

	shrink := int(math.Round(float64(b.Right-b.Left) * 0.5 * zoom))
	b.Left += shrink
	b.Right -= shrink
	return b, nil
}

func normalized(m *mat.Dense) *mat.Dense {
	out := mat.DenseCopyOf(m)
	if max := mat.Max(m); max > 0 {
		out.Scale(1/max, out)
	}
	return out
}
