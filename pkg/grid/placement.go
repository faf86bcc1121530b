// Package grid implements the periodic matrix-embedding engine used to
// position scan tiles on an oversized canvas, and the boundary detection
// used to trim composed images back down to their content.
package grid

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch reports a tile larger than its canvas in at least one axis.
var ErrSizeMismatch = errors.New("tile exceeds canvas size")

// ErrOffsetOutOfRange reports a center so far outside the canvas that the
// tile would have to wrap around more than once.
var ErrOffsetOutOfRange = errors.New("placement center beyond a single wrap")

// PlacementKind tags how an embedding decomposes across canvas edges.
type PlacementKind int

const (
	// PlaceSimple is a single in-bounds rectangle.
	PlaceSimple PlacementKind = iota

	// PlaceSplitX wraps across the left or right canvas edge.
	PlaceSplitX

	// PlaceSplitY wraps across the top or bottom canvas edge.
	PlaceSplitY

	// PlaceSplitXY wraps across one vertical and one horizontal edge at once.
	PlaceSplitXY
)

// Block is one rectangular write of an embedding: a Rows x Cols region of
// the tile starting at (SrcRow, SrcCol) lands on the canvas at
// (DstRow, DstCol).
type Block struct {
	DstRow, DstCol int
	SrcRow, SrcCol int
	Rows, Cols     int
}

// Placement is the complete footprint of one embedding call. Cols and Rows
// list the canvas indices touched along each axis, in write order; their
// product always equals the tile area no matter how many blocks the write
// was split into.
type Placement struct {
	Kind   PlacementKind
	Blocks []Block
	Cols   []int
	Rows   []int
}

// span is one contiguous destination range paired with the tile offset it
// reads from, along a single axis.
type span struct {
	dst, src, n int
}

// splitAxis decomposes the naive destination range [start, start+size) on
// an axis of extent limit into wrapped spans. A low-edge overflow puts the
// wrapped remainder first; a high-edge overflow keeps the in-bounds part
// first. The second return reports whether the range wrapped at all.
// Starts below -size or above limit would need a second wrap and are
// rejected.
func splitAxis(start, size, limit int) ([]span, bool, error) {
	end := start + size - 1
	switch {
	case start >= 0 && end <= limit-1:
		return []span{{dst: start, src: 0, n: size}}, false, nil
	case start < -size || start > limit:
		return nil, false, ErrOffsetOutOfRange
	case start < 0:
		wrapN := -start
		return []span{
			{dst: start + limit, src: 0, n: wrapN},
			{dst: 0, src: wrapN, n: size - wrapN},
		}, true, nil
	default:
		inN := limit - start
		return []span{
			{dst: start, src: 0, n: inN},
			{dst: 0, src: inN, n: size - inN},
		}, true, nil
	}
}

func kindFor(overX, overY bool) PlacementKind {
	switch {
	case overX && overY:
		return PlaceSplitXY
	case overX:
		return PlaceSplitX
	case overY:
		return PlaceSplitY
	default:
		return PlaceSimple
	}
}

// PlanEmbed computes the placement of a tileRows x tileCols tile centered
// at (centerX, centerY) on a canvasRows x canvasCols canvas, without
// touching any data. The center is measured from the canvas origin and may
// put part of the tile outside the canvas; the overhang relocates to the
// opposite edge (periodic boundary), splitting the write into up to four
// blocks when both axes wrap.
func PlanEmbed(canvasRows, canvasCols, tileRows, tileCols, centerX, centerY int) (Placement, error) {
	if tileRows > canvasRows || tileCols > canvasCols {
		return Placement{}, fmt.Errorf("%w: tile %dx%d on canvas %dx%d",
			ErrSizeMismatch, tileRows, tileCols, canvasRows, canvasCols)
	}

	xs, overX, err := splitAxis(centerX-tileCols/2, tileCols, canvasCols)
	if err != nil {
		return Placement{}, fmt.Errorf("%w: center (%d,%d)", err, centerX, centerY)
	}
	ys, overY, err := splitAxis(centerY-tileRows/2, tileRows, canvasRows)
	if err != nil {
		return Placement{}, fmt.Errorf("%w: center (%d,%d)", err, centerX, centerY)
	}

	p := Placement{Kind: kindFor(overX, overY)}
	for _, sx := range xs {
		for _, sy := range ys {
			p.Blocks = append(p.Blocks, Block{
				DstRow: sy.dst, DstCol: sx.dst,
				SrcRow: sy.src, SrcCol: sx.src,
				Rows: sy.n, Cols: sx.n,
			})
		}
	}
	for _, sx := range xs {
		for i := 0; i < sx.n; i++ {
			p.Cols = append(p.Cols, sx.dst+i)
		}
	}
	for _, sy := range ys {
		for i := 0; i < sy.n; i++ {
			p.Rows = append(p.Rows, sy.dst+i)
		}
	}
	return p, nil
}
