package lattice_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvising/hamiltonian"
)

// periodicSquare returns the rows of an L×L periodic square lattice with
// uniform coupling j.
func periodicSquare(L, j int) [][]int {
	var rows [][]int
	for r := 0; r < L; r++ {
		for c := 0; c < L; c++ {
			u := r*L + c
			rows = append(rows,
				[]int{j, u, r*L + (c+1)%L},
				[]int{j, u, ((r+1)%L)*L + c},
			)
		}
	}
	return rows
}

func squareGraph(t testing.TB, L int) *hamiltonian.Graph {
	t.Helper()
	g, err := hamiltonian.New(periodicSquare(L, 1),
		hamiltonian.WithShape(hamiltonian.ShapeSquare), hamiltonian.WithDimensions(L, L))
	require.NoError(t, err)
	return g
}

// openChain returns a 0-1-...-(n-1) ferromagnetic chain without shape.
func openChain(t testing.TB, n int) *hamiltonian.Graph {
	t.Helper()
	var rows [][]int
	for i := 0; i+1 < n; i++ {
		rows = append(rows, []int{1, i, i + 1})
	}
	g, err := hamiltonian.New(rows)
	require.NoError(t, err)
	return g
}
