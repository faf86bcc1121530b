package register

import (
	"gonum.org/v1/gonum/mat"

	"elementalscope/pkg/grid"
)

// PreconditionLeft embeds the left tile at the center of a fresh zero
// canvas three times the tile size, the reference placement every
// comparison is measured against.
func PreconditionLeft(tile *mat.Dense) (*mat.Dense, error) {
	rows, cols := tile.Dims()
	canvas := mat.NewDense(rows*3, cols*3, nil)
	cx, cy := canvasCenter(rows, cols)
	if _, _, err := grid.Embed(canvas, tile, cx, cy, true); err != nil {
		return nil, err
	}
	return canvas, nil
}

// PreconditionRight embeds the right tile at the offset-derived center of
// a fresh zero canvas sized for rows x cols tiles (the left tile's
// dimensions), and reports the display offset actually applied.
func PreconditionRight(tile *mat.Dense, rows, cols int, off Offset) (canvas *mat.Dense, dx, dy int, err error) {
	canvas = mat.NewDense(rows*3, cols*3, nil)
	addX, addY := off.Center(rows, cols)
	if _, _, err := grid.Embed(canvas, tile, addX, addY, true); err != nil {
		return nil, 0, 0, err
	}
	dx, dy = off.Display(rows, cols)
	return canvas, dx, dy, nil
}

// Merge sums the two preconditioned canvases elementwise and resolves
// overlap: wherever the sum exceeds the left canvas alone, the cell is
// replaced by the right canvas's raw value. For non-negative composition
// data this means the right tile wins outright anywhere it carries signal
// instead of accumulating counts, which can understate the overlap region;
// the rule is kept as-is rather than switched to a max or a blend.
func Merge(left, right *mat.Dense) *mat.Dense {
	rows, cols := left.Dims()
	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			l := left.At(r, c)
			v := l + right.At(r, c)
			if v > l {
				v = right.At(r, c)
			}
			out.Set(r, c, v)
		}
	}
	return out
}

// Crop copies the half-open window [Top,Bottom) x [Left,Right) out of m.
func Crop(m *mat.Dense, b grid.Bounds) *mat.Dense {
	return mat.DenseCopyOf(m.Slice(b.Top, b.Bottom, b.Left, b.Right))
}
