// Package register orchestrates the alignment of two scan tiles: the
// fixed reference placement of the left tile, the user-controlled
// placement of the right tile, the falsecolor comparison composite, and
// the final pixel-accurate merge.
package register

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Offset is the user-controlled placement of the right tile: a coarse
// normalized slider position in [0,1] on each axis, refined by a
// pixel-exact integer nudge, plus the transpose flag applied to both
// input tiles before any embedding.
type Offset struct {
	PercentX  float64
	PercentY  float64
	DX        int
	DY        int
	Transpose bool
}

// Center converts the offset into the embedding center on the canvas
// built for rows x cols tiles (the canvas is three tile sizes per axis).
func (o Offset) Center(rows, cols int) (addX, addY int) {
	addX = int(math.Round(float64(cols*3)*o.PercentX)) + o.DX
	addY = int(math.Round(float64(rows*3)*o.PercentY)) + o.DY
	return addX, addY
}

// Display converts the embedding center into the offset of the right tile
// relative to the reference placement. This is the value shown to the user
// and persisted in task records; with a centered slider it round-trips DX
// and DY exactly.
func (o Offset) Display(rows, cols int) (dx, dy int) {
	addX, addY := o.Center(rows, cols)
	cx, cy := canvasCenter(rows, cols)
	return addX - cx, addY - cy
}

// Oriented returns the tile as consumed by the registration, transposed
// when the offset requests it. Without the flag the tile is returned
// as-is, not copied.
func (o Offset) Oriented(tile *mat.Dense) *mat.Dense {
	if !o.Transpose {
		return tile
	}
	return mat.DenseCopyOf(tile.T())
}

// canvasCenter is the fixed reference placement for the left tile.
func canvasCenter(rows, cols int) (cx, cy int) {
	return int(math.Round(float64(cols) * 1.5)), int(math.Round(float64(rows) * 1.5))
}
