package grid

import (
	"gonum.org/v1/gonum/mat"
)

// Embed adds tile into canvas centered at (centerX, centerY) with periodic
// wrap-around, mutating canvas in place when commit is true. It returns the
// canvas column and row indices written, in write order. With commit=false
// the identical footprint is computed but the canvas is left untouched,
// which previews where a write would land.
//
// Writes are additive: overlapping embeddings accumulate rather than
// overwrite. Embed fails with ErrSizeMismatch when the tile is larger than
// the canvas in either dimension, before any cell is modified.
func Embed(canvas, tile *mat.Dense, centerX, centerY int, commit bool) (cols, rows []int, err error) {
	canvasRows, canvasCols := canvas.Dims()
	tileRows, tileCols := tile.Dims()

	p, err := PlanEmbed(canvasRows, canvasCols, tileRows, tileCols, centerX, centerY)
	if err != nil {
		return nil, nil, err
	}
	if commit {
		apply(canvas, tile, p)
	}
	return p.Cols, p.Rows, nil
}

// apply performs the additive writes described by a placement.
func apply(canvas, tile *mat.Dense, p Placement) {
	for _, b := range p.Blocks {
		for r := 0; r < b.Rows; r++ {
			for c := 0; c < b.Cols; c++ {
				v := canvas.At(b.DstRow+r, b.DstCol+c) + tile.At(b.SrcRow+r, b.SrcCol+c)
				canvas.Set(b.DstRow+r, b.DstCol+c, v)
			}
		}
	}
}
