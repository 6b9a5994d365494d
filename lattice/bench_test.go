package lattice_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvising/hamiltonian"
	"github.com/katalvlaran/lvising/lattice"
)

func benchEnsemble(b *testing.B, rows [][]int, mode lattice.SweepMode) *lattice.Ensemble {
	b.Helper()
	g, err := hamiltonian.New(rows)
	require.NoError(b, err)
	e, err := lattice.NewEnsemble(g, lattice.Ladder{Min: 1, Step: 0.25, Rungs: 8}, mode,
		lattice.WithSeed(1), lattice.WithClusterPolicy(lattice.ClusterAll))
	require.NoError(b, err)
	return e
}

// BenchmarkSweep_Uniform measures a full ensemble sweep on a 16×16 lattice
// served by the pairwise kernel.
func BenchmarkSweep_Uniform(b *testing.B) {
	e := benchEnsemble(b, periodicSquare(16, 1), lattice.Pseudo)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Sweep()
	}
}

// BenchmarkSweep_Generic measures the same lattice through the generic
// kernel (one extra zero-coupling plaquette forces it).
func BenchmarkSweep_Generic(b *testing.B) {
	rows := append(periodicSquare(16, 1), []int{0, 0, 1, 16, 17})
	e := benchEnsemble(b, rows, lattice.Pseudo)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Sweep()
	}
}
