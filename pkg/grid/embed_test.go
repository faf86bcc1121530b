package grid

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// ones creates a rows x cols matrix filled with 1.
func ones(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, 1)
		}
	}
	return m
}

// matSum adds up every cell of a matrix.
func matSum(m *mat.Dense) float64 {
	rows, cols := m.Dims()
	var sum float64
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			sum += m.At(r, c)
		}
	}
	return sum
}

// TestEmbedCentered verifies the no-overflow fast path: a 3x3 tile of ones
// centered at (4,4) on a 9x9 canvas must land exactly on rows 3-5 and
// columns 3-5 with everything else untouched.
func TestEmbedCentered(t *testing.T) {
	canvas := mat.NewDense(9, 9, nil)
	tile := ones(3, 3)

	cols, rows, err := Embed(canvas, tile, 4, 4, true)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			want := 0.0
			if r >= 3 && r <= 5 && c >= 3 && c <= 5 {
				want = 1.0
			}
			if got := canvas.At(r, c); got != want {
				t.Errorf("canvas[%d,%d] = %v, want %v", r, c, got, want)
			}
		}
	}

	wantIdx := []int{3, 4, 5}
	for i, c := range cols {
		if c != wantIdx[i] {
			t.Errorf("cols[%d] = %d, want %d", i, c, wantIdx[i])
		}
	}
	for i, r := range rows {
		if r != wantIdx[i] {
			t.Errorf("rows[%d] = %d, want %d", i, r, wantIdx[i])
		}
	}
}

// TestEmbedWrapTopLeft verifies the double-overflow case: centering a 3x3
// tile at the canvas origin wraps one row and one column to the far edges,
// so the wrapped corner lands at (5,5) on a 6x6 canvas.
func TestEmbedWrapTopLeft(t *testing.T) {
	canvas := mat.NewDense(6, 6, nil)
	tile := ones(3, 3)

	cols, rows, err := Embed(canvas, tile, 0, 0, true)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	inside := func(idx []int, v int) bool {
		for _, i := range idx {
			if i == v {
				return true
			}
		}
		return false
	}
	wantCols := []int{5, 0, 1}
	wantRows := []int{5, 0, 1}
	for i := range wantCols {
		if cols[i] != wantCols[i] {
			t.Errorf("cols[%d] = %d, want %d", i, cols[i], wantCols[i])
		}
		if rows[i] != wantRows[i] {
			t.Errorf("rows[%d] = %d, want %d", i, rows[i], wantRows[i])
		}
	}

	if got := canvas.At(5, 5); got != 1 {
		t.Errorf("wrapped corner canvas[5,5] = %v, want 1", got)
	}
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			want := 0.0
			if inside(wantRows, r) && inside(wantCols, c) {
				want = 1.0
			}
			if got := canvas.At(r, c); got != want {
				t.Errorf("canvas[%d,%d] = %v, want %v", r, c, got, want)
			}
		}
	}
}

// TestEmbedFootprintConservation checks that every offset, overflowing or
// not, touches exactly tile-area cells: the footprint splits but never
// shrinks or grows.
func TestEmbedFootprintConservation(t *testing.T) {
	tile := ones(2, 3)
	for cy := 0; cy < 9; cy++ {
		for cx := 0; cx < 9; cx++ {
			canvas := mat.NewDense(9, 9, nil)
			cols, rows, err := Embed(canvas, tile, cx, cy, true)
			if err != nil {
				t.Fatalf("Embed at (%d,%d) failed: %v", cx, cy, err)
			}
			if got := len(cols) * len(rows); got != 6 {
				t.Errorf("footprint at (%d,%d) covers %d cells, want 6", cx, cy, got)
			}
			if got := matSum(canvas); got != 6 {
				t.Errorf("canvas sum at (%d,%d) = %v, want 6", cx, cy, got)
			}
		}
	}
}

// TestEmbedCommitParity verifies that a dry run reports the same footprint
// as a committed run and leaves the canvas untouched.
func TestEmbedCommitParity(t *testing.T) {
	tile := mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	dry := mat.NewDense(6, 6, nil)
	dryCols, dryRows, err := Embed(dry, tile, 1, 5, false)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if got := matSum(dry); got != 0 {
		t.Fatalf("dry run mutated the canvas, sum = %v", got)
	}

	wet := mat.NewDense(6, 6, nil)
	wetCols, wetRows, err := Embed(wet, tile, 1, 5, true)
	if err != nil {
		t.Fatalf("committed run failed: %v", err)
	}
	if got := matSum(wet); got != 45 {
		t.Errorf("committed canvas sum = %v, want 45", got)
	}

	if len(dryCols) != len(wetCols) || len(dryRows) != len(wetRows) {
		t.Fatalf("footprint sizes differ: dry %dx%d, committed %dx%d",
			len(dryCols), len(dryRows), len(wetCols), len(wetRows))
	}
	for i := range dryCols {
		if dryCols[i] != wetCols[i] {
			t.Errorf("cols[%d]: dry %d, committed %d", i, dryCols[i], wetCols[i])
		}
	}
	for i := range dryRows {
		if dryRows[i] != wetRows[i] {
			t.Errorf("rows[%d]: dry %d, committed %d", i, dryRows[i], wetRows[i])
		}
	}
}

// TestEmbedSizeMismatch ensures an oversized tile is rejected before any
// cell is written.
func TestEmbedSizeMismatch(t *testing.T) {
	canvas := mat.NewDense(3, 3, nil)
	tile := ones(4, 4)

	_, _, err := Embed(canvas, tile, 1, 1, true)
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("Embed error = %v, want ErrSizeMismatch", err)
	}
	if got := matSum(canvas); got != 0 {
		t.Errorf("canvas modified after rejected embed, sum = %v", got)
	}
}

// TestEmbedCenterBeyondWrap rejects centers so far off the canvas that the
// tile would have to wrap around more than once, without writing anything.
func TestEmbedCenterBeyondWrap(t *testing.T) {
	tile := ones(3, 3)

	// A 3x3 tile on a 9x9 canvas stays within a single wrap for centers
	// in [-2, 10] on each axis.
	for _, c := range [][2]int{{-3, 4}, {4, -3}, {11, 4}, {4, 11}, {-20, -20}} {
		canvas := mat.NewDense(9, 9, nil)
		_, _, err := Embed(canvas, tile, c[0], c[1], true)
		if !errors.Is(err, ErrOffsetOutOfRange) {
			t.Errorf("center (%d,%d): err = %v, want ErrOffsetOutOfRange", c[0], c[1], err)
		}
		if got := matSum(canvas); got != 0 {
			t.Errorf("canvas modified after rejected embed at (%d,%d), sum = %v", c[0], c[1], got)
		}
	}

	// The extreme still-valid centers embed the whole tile.
	for _, c := range [][2]int{{-2, 4}, {10, 4}, {4, -2}, {4, 10}} {
		canvas := mat.NewDense(9, 9, nil)
		if _, _, err := Embed(canvas, tile, c[0], c[1], true); err != nil {
			t.Fatalf("center (%d,%d): Embed failed: %v", c[0], c[1], err)
		}
		if got := matSum(canvas); got != 9 {
			t.Errorf("center (%d,%d): canvas sum = %v, want 9", c[0], c[1], got)
		}
	}
}

// TestPlanEmbedKinds exercises each placement variant in isolation.
func TestPlanEmbedKinds(t *testing.T) {
	cases := []struct {
		name       string
		cx, cy     int
		wantKind   PlacementKind
		wantBlocks int
	}{
		{"centered", 4, 4, PlaceSimple, 1},
		{"left edge", 0, 4, PlaceSplitX, 2},
		{"right edge", 8, 4, PlaceSplitX, 2},
		{"top edge", 4, 0, PlaceSplitY, 2},
		{"bottom edge", 4, 8, PlaceSplitY, 2},
		{"corner", 0, 8, PlaceSplitXY, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := PlanEmbed(9, 9, 3, 3, tc.cx, tc.cy)
			if err != nil {
				t.Fatalf("PlanEmbed failed: %v", err)
			}
			if p.Kind != tc.wantKind {
				t.Errorf("kind = %d, want %d", p.Kind, tc.wantKind)
			}
			if len(p.Blocks) != tc.wantBlocks {
				t.Errorf("blocks = %d, want %d", len(p.Blocks), tc.wantBlocks)
			}
			cells := 0
			for _, b := range p.Blocks {
				cells += b.Rows * b.Cols
			}
			if cells != 9 {
				t.Errorf("blocks cover %d cells, want 9", cells)
			}
		})
	}
}
