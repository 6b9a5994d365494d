package lattice

import "github.com/katalvlaran/lvising/hamiltonian"

// kernel computes the local energy E_i of one position. It is chosen once
// per Properties and never switched afterwards.
type kernel interface {
	indexEnergy(spins []int8, pos int) int
	name() string
}

// genericKernel walks every interaction term of pos, multiplying the
// partner spins of multi-body terms.
type genericKernel struct {
	interactions [][]hamiltonian.Term
}

func newGenericKernel(g *hamiltonian.Graph) genericKernel {
	k := genericKernel{interactions: make([][]hamiltonian.Term, g.NumIndices())}
	for pos := range k.interactions {
		k.interactions[pos] = g.Interactions(pos)
	}
	return k
}

func (k genericKernel) indexEnergy(spins []int8, pos int) int {
	field := 0
	for _, term := range k.interactions[pos] {
		prod := term.Coupling
		for _, p := range term.Partners {
			prod *= int(spins[p])
		}
		field += prod
	}
	return -int(spins[pos]) * field
}

func (genericKernel) name() string { return "generic" }

// uniformKernel serves Hamiltonians whose terms are all pairs sharing one
// coupling: the field is the coupling times the sum of neighbor spins.
type uniformKernel struct {
	coupling int
	local    [][]int
}

func newUniformKernel(g *hamiltonian.Graph, coupling int) uniformKernel {
	k := uniformKernel{coupling: coupling, local: make([][]int, g.NumIndices())}
	for pos := range k.local {
		k.local[pos] = g.LocalTerms(pos)
	}
	return k
}

func (k uniformKernel) indexEnergy(spins []int8, pos int) int {
	sum := 0
	for _, p := range k.local[pos] {
		sum += int(spins[p])
	}
	return -int(spins[pos]) * k.coupling * sum
}

func (uniformKernel) name() string { return "uniform" }

func selectKernel(g *hamiltonian.Graph) kernel {
	if j, ok := g.Uniform(); ok {
		return newUniformKernel(g, j)
	}
	return newGenericKernel(g)
}
