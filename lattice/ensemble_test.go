package lattice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvising/lattice"
)

func spinsOf(vals ...int8) []int8 { return vals }

func uniformSpins(n int, s int8) []int8 {
	out := make([]int8, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestHoudayer_NoDisagreement(t *testing.T) {
	e, err := lattice.NewEnsemble(openChain(t, 6), oneRung, lattice.All, lattice.WithSeed(1))
	require.NoError(t, err)
	require.NoError(t, e.Replica(0, 0).SetSpins(uniformSpins(6, 1)))
	require.NoError(t, e.Replica(0, 1).SetSpins(uniformSpins(6, 1)))

	assert.Equal(t, lattice.MoveNone, e.HoudayerMove(0))
	assert.Equal(t, uniformSpins(6, 1), e.Replica(0, 0).Spins())
	assert.Zero(t, e.Counters().ClusterMoves)
}

// TestHoudayer_GlobalFlip: with most sites disagreeing, replica 0 is flipped
// first and the cluster is grown over the complement.
func TestHoudayer_GlobalFlip(t *testing.T) {
	e, err := lattice.NewEnsemble(openChain(t, 6), oneRung, lattice.All, lattice.WithSeed(1))
	require.NoError(t, err)
	require.NoError(t, e.Replica(0, 0).SetSpins(uniformSpins(6, 1)))
	require.NoError(t, e.Replica(0, 1).SetSpins(spinsOf(1, -1, -1, -1, -1, -1)))

	require.Equal(t, lattice.MoveCluster, e.HoudayerMove(0))
	assert.Equal(t, spinsOf(1, -1, -1, -1, -1, -1), e.Replica(0, 0).Spins())
	assert.Equal(t, uniformSpins(6, -1), e.Replica(0, 1).Spins())

	c := e.Counters()
	assert.Equal(t, uint64(1), c.GlobalFlips)
	assert.Equal(t, uint64(1), c.ClusterMoves)
	assert.Equal(t, uint64(1), c.ClusterSites)
}

// TestHoudayer_Cluster: the flipped set is one connected component of the
// disagreement set, flipped in both replicas, and the overlap is preserved.
func TestHoudayer_Cluster(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		e, err := lattice.NewEnsemble(openChain(t, 6), oneRung, lattice.All, lattice.WithSeed(seed))
		require.NoError(t, err)
		s0 := uniformSpins(6, 1)
		s1 := spinsOf(-1, -1, 1, 1, -1, 1)
		require.NoError(t, e.Replica(0, 0).SetSpins(s0))
		require.NoError(t, e.Replica(0, 1).SetSpins(s1))

		require.Equal(t, lattice.MoveCluster, e.HoudayerMove(0))
		a, b := e.Replica(0, 0).Spins(), e.Replica(0, 1).Spins()

		var flipped []int
		for i := range a {
			if a[i] != s0[i] {
				flipped = append(flipped, i)
				require.NotEqual(t, s1[i], b[i], "site %d flipped in both", i)
			} else {
				require.Equal(t, s1[i], b[i])
			}
			require.Equal(t, s0[i]*s1[i], a[i]*b[i], "overlap preserved at %d", i)
		}
		require.Contains(t, [][]int{{0, 1}, {4}}, flipped)
	}
}

// TestHoudayer_ReusesBuffers repeats cluster moves on one ensemble: every
// move flips the same component and the per-move allocation count does not
// depend on the number of sites.
func TestHoudayer_ReusesBuffers(t *testing.T) {
	allocs := make(map[int]float64)
	for _, n := range []int{16, 1024} {
		e, err := lattice.NewEnsemble(openChain(t, n), oneRung, lattice.All, lattice.WithSeed(5))
		require.NoError(t, err)
		s0 := uniformSpins(n, 1)
		s1 := uniformSpins(n, 1)
		s1[3], s1[4] = -1, -1

		move := func() {
			_ = e.Replica(0, 0).SetSpins(s0)
			_ = e.Replica(0, 1).SetSpins(s1)
			e.HoudayerMove(0)
		}
		for i := 0; i < 5; i++ {
			move()
			require.Equal(t, int8(-1), e.Replica(0, 0).Spin(3))
			require.Equal(t, int8(-1), e.Replica(0, 0).Spin(4))
			require.Equal(t, int8(1), e.Replica(0, 1).Spin(3))
			require.Equal(t, int8(1), e.Replica(0, 0).Spin(5))
		}
		allocs[n] = testing.AllocsPerRun(50, move)
	}
	assert.Equal(t, allocs[16], allocs[1024])
	assert.LessOrEqual(t, allocs[1024], 2.0)
}

// TestExchange_Accepts swaps pairs, not spins, and keeps slot labels.
func TestExchange_Accepts(t *testing.T) {
	g := squareGraph(t, 4)
	ladder := lattice.Ladder{Min: 1, Step: 1, Rungs: 2}
	e, err := lattice.NewEnsemble(g, ladder, lattice.All, lattice.WithSeed(7))
	require.NoError(t, err)

	checker := make([]int8, 16)
	for pos := range checker {
		if (pos/4+pos%4)%2 == 0 {
			checker[pos] = 1
		} else {
			checker[pos] = -1
		}
	}
	hot, cold := e.Replica(0, 0), e.Replica(1, 0)
	require.NoError(t, hot.SetSpins(checker))
	require.NoError(t, cold.SetSpins(uniformSpins(16, 1)))
	require.Equal(t, 64, hot.TotalEnergy())
	require.Equal(t, -64, cold.TotalEnergy())

	// ΔE·Δβ = 128 · (1/KB)(1 − 1/2) ≫ 1.
	require.Equal(t, 1, e.ExchangePass())
	assert.Same(t, cold, e.Replica(0, 0))
	assert.Same(t, hot, e.Replica(1, 0))
	assert.Equal(t, 1.0, cold.Temperature())
	assert.Equal(t, 2.0, hot.Temperature())
	assert.Equal(t, 1.0, e.Replica(0, 1).Temperature())
	assert.Equal(t, checker, hot.Spins(), "spins travel with the replica")

	// Reversed energies give a negative product: never accepted.
	require.Equal(t, 0, e.ExchangePass())
	c := e.Counters()
	assert.Equal(t, []uint64{2}, c.ExchangeAttempts)
	assert.Equal(t, []uint64{1}, c.ExchangeAccepts)
}

// TestEnsemble_LadderPermutation: after many sweeps every slot still carries
// its own ladder temperature and no replica was lost or duplicated.
func TestEnsemble_LadderPermutation(t *testing.T) {
	ladder := lattice.Ladder{Min: 0.5, Step: 0.75, Rungs: 5}
	e, err := lattice.NewEnsemble(squareGraph(t, 4), ladder, lattice.Pseudo,
		lattice.WithSeed(99), lattice.WithClusterPolicy(lattice.ClusterAll))
	require.NoError(t, err)

	seen := map[*lattice.Replica]bool{}
	for i := 0; i < e.Rungs(); i++ {
		seen[e.Replica(i, 0)] = true
		seen[e.Replica(i, 1)] = true
	}

	const sweeps = 300
	for s := 0; s < sweeps; s++ {
		e.Sweep()
		require.Equal(t, ladder.Temperatures(), e.Temperatures())
	}

	after := map[*lattice.Replica]bool{}
	for i := 0; i < e.Rungs(); i++ {
		for k := 0; k < lattice.ReplicasPerRung; k++ {
			r := e.Replica(i, k)
			require.Equal(t, ladder.Temperature(i), r.Temperature())
			requireIsing(t, r.Spins())
			after[r] = true
		}
	}
	require.Equal(t, seen, after)

	c := e.Counters()
	assert.Equal(t, uint64(sweeps), c.Sweeps)
	for i := range c.ExchangeAttempts {
		assert.Equal(t, uint64(sweeps), c.ExchangeAttempts[i])
		assert.LessOrEqual(t, c.ExchangeAccepts[i], c.ExchangeAttempts[i])
	}
}

// TestEnsemble_Junction: only rungs colder than the junction get cluster
// moves by default.
func TestEnsemble_Junction(t *testing.T) {
	ladder := lattice.Ladder{Min: 1, Step: 1, Rungs: 4}
	e, err := lattice.NewEnsemble(squareGraph(t, 3), ladder, lattice.All)
	require.NoError(t, err)
	assert.Equal(t, 3.0, e.Junction())

	e, err = lattice.NewEnsemble(squareGraph(t, 3), ladder, lattice.All,
		lattice.WithClusterPolicy(lattice.ClusterNone), lattice.WithJunction(10))
	require.NoError(t, err)
	assert.Equal(t, 10.0, e.Junction())
	for i := 0; i < 20; i++ {
		e.Sweep()
	}
	c := e.Counters()
	assert.Zero(t, c.ClusterMoves)
	assert.Zero(t, c.GlobalFlips)
}

// TestEnsemble_Reproducible: the same seed yields the same trajectory.
func TestEnsemble_Reproducible(t *testing.T) {
	ladder := lattice.Ladder{Min: 0.5, Step: 0.5, Rungs: 3}
	run := func() [][]int8 {
		e, err := lattice.NewEnsemble(squareGraph(t, 4), ladder, lattice.Random, lattice.WithSeed(2024))
		require.NoError(t, err)
		for i := 0; i < 40; i++ {
			e.Sweep()
		}
		var out [][]int8
		for i := 0; i < e.Rungs(); i++ {
			out = append(out, e.Replica(i, 0).Spins(), e.Replica(i, 1).Spins())
		}
		return out
	}
	assert.Equal(t, run(), run())
}
