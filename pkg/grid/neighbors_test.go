package grid

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestNeighborMassPeriodic checks the wrap-around neighbourhood: a single
// corner cell contributes mass to the three far corners.
func TestNeighborMassPeriodic(t *testing.T) {
	m := mat.NewDense(4, 4, nil)
	m.Set(0, 0, 2)

	mass := NeighborMass(m)

	wantHot := map[[2]int]bool{
		{0, 1}: true, {1, 0}: true, {1, 1}: true,
		{0, 3}: true, {3, 0}: true, {3, 3}: true,
		{1, 3}: true, {3, 1}: true,
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			want := 0.0
			if wantHot[[2]int{r, c}] {
				want = 2.0
			}
			if got := mass.At(r, c); got != want {
				t.Errorf("mass[%d,%d] = %v, want %v", r, c, got, want)
			}
		}
	}
	if got := mass.At(0, 0); got != 0 {
		t.Errorf("cell does not count itself, mass[0,0] = %v", got)
	}
}

// TestRemoveIsolated drops single specks but keeps touching pairs.
func TestRemoveIsolated(t *testing.T) {
	m := mat.NewDense(8, 8, nil)
	m.Set(4, 4, 7) // isolated speck
	m.Set(1, 1, 3) // pair, diagonal contact
	m.Set(2, 2, 5)

	RemoveIsolated(m)

	if got := m.At(4, 4); got != 0 {
		t.Errorf("isolated speck survived: m[4,4] = %v", got)
	}
	if got := m.At(1, 1); got != 3 {
		t.Errorf("paired cell removed: m[1,1] = %v, want 3", got)
	}
	if got := m.At(2, 2); got != 5 {
		t.Errorf("paired cell removed: m[2,2] = %v, want 5", got)
	}
}

// TestShufflePreservesCells verifies shuffling permutes without losing or
// duplicating values.
func TestShufflePreservesCells(t *testing.T) {
	m := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})

	rng := rand.New(rand.NewSource(1))
	shuffled := Shuffle(m, rng)

	rows, cols := shuffled.Dims()
	if rows != 3 || cols != 4 {
		t.Fatalf("shape = %dx%d, want 3x4", rows, cols)
	}

	seen := map[float64]int{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			seen[shuffled.At(r, c)]++
		}
	}
	for v := 1.0; v <= 12; v++ {
		if seen[v] != 1 {
			t.Errorf("value %v appears %d times, want 1", v, seen[v])
		}
	}
	if got := matSum(m); got != 78 {
		t.Errorf("source matrix changed, sum = %v", got)
	}
}
