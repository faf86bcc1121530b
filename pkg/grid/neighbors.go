package grid

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// The eight discrete neighbour directions, axis-aligned before diagonal.
var neighborOffsets = [8][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
}

// NeighborMass returns, for every cell, the summed value of its eight
// neighbours with periodic wrap-around at the edges.
func NeighborMass(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum float64
			for _, d := range neighborOffsets {
				rr := ((r+d[0])%rows + rows) % rows
				cc := ((c+d[1])%cols + cols) % cols
				sum += m.At(rr, cc)
			}
			out.Set(r, c, sum)
		}
	}
	return out
}

// RemoveIsolated zeroes, in place, every nonzero cell whose entire
// periodic neighbourhood is empty. Single-pixel specks in a sparse element
// map are counting noise rather than signal.
func RemoveIsolated(m *mat.Dense) {
	mass := NeighborMass(m)
	rows, cols := m.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if m.At(r, c) != 0 && mass.At(r, c) == 0 {
				m.Set(r, c, 0)
			}
		}
	}
}

// Shuffle returns a copy of m with its cells randomly permuted.
func Shuffle(m *mat.Dense, rng *rand.Rand) *mat.Dense {
	rows, cols := m.Dims()
	data := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		data = append(data, m.RawRowView(r)...)
	}
	rng.Shuffle(len(data), func(i, j int) {
		data[i], data[j] = data[j], data[i]
	})
	return mat.NewDense(rows, cols, data)
}
