package lattice

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/lvising/hamiltonian"
)

// Properties is the immutable context shared by reference by every replica
// of an ensemble.
type Properties struct {
	graph  *hamiltonian.Graph
	ladder Ladder
	mode   SweepMode
	shape  Shape

	rows, cols int
	size       int
	q          float64

	locations []hamiltonian.Location // nil in coordinate-free mode
	phases    []complex128           // e^{i·q·row}; nil in coordinate-free mode
	kernel    kernel
}

// NewProperties validates the inputs and resolves geometry. A nil shape
// selects ShapeFor(g.Shape()).
//
// Steps:
//  1. Validate ladder and sweep mode.
//  2. Check the shape against the Hamiltonian tag and resolve rows/cols.
//  3. Take coordinates from the graph, or derive them from the resolved
//     dimensions; fall back to coordinate-free mode if any is out of bounds.
//  4. Compute size = ⌊√n⌋, q = 2π/size and the per-site phases.
//  5. Select the energy kernel.
func NewProperties(g *hamiltonian.Graph, ladder Ladder, mode SweepMode, shape Shape) (*Properties, error) {
	if g == nil {
		return nil, fmt.Errorf("NewProperties: %w", hamiltonian.ErrEmpty)
	}
	if err := ladder.Validate(); err != nil {
		return nil, fmt.Errorf("NewProperties: %w", err)
	}
	if _, err := ParseSweepMode(byte(mode)); err != nil {
		return nil, fmt.Errorf("NewProperties: %w", err)
	}
	if shape == nil {
		shape = ShapeFor(g.Shape())
	}
	if err := shape.Check(g.Shape()); err != nil {
		return nil, fmt.Errorf("NewProperties: %w", err)
	}

	n := g.NumIndices()
	rows, cols, err := shape.Resolve(n, g.Rows(), g.Cols())
	if err != nil {
		return nil, fmt.Errorf("NewProperties: %s: %w", shape.Name(), err)
	}

	p := &Properties{
		graph:  g,
		ladder: ladder,
		mode:   mode,
		shape:  shape,
		rows:   rows,
		cols:   cols,
		size:   max(isqrt(n), 1),
		kernel: selectKernel(g),
	}
	p.q = 2 * math.Pi / float64(p.size)
	if _, custom := shape.(Custom); !custom {
		p.locations = resolveLocations(g, rows, cols)
	}
	if p.locations != nil {
		p.phases = make([]complex128, n)
		for pos, loc := range p.locations {
			p.phases[pos] = cmplx.Exp(complex(0, p.q*float64(loc.Row)))
		}
	}
	return p, nil
}

func resolveLocations(g *hamiltonian.Graph, rows, cols int) []hamiltonian.Location {
	n := g.NumIndices()
	if g.HasLocations() && g.Rows() == rows && g.Cols() == cols {
		locs := make([]hamiltonian.Location, n)
		for pos := range locs {
			locs[pos], _ = g.Location(pos)
		}
		return locs
	}
	if rows <= 0 || cols <= 0 {
		return nil
	}
	locs := make([]hamiltonian.Location, n)
	for pos := range locs {
		idx := g.Index(pos)
		r, c := idx/cols, idx%cols
		if idx < 0 || r >= rows {
			return nil
		}
		locs[pos] = hamiltonian.Location{Row: r, Col: c}
	}
	return locs
}

// Graph returns the shared Hamiltonian.
func (p *Properties) Graph() *hamiltonian.Graph { return p.graph }

// Ladder returns the temperature ladder.
func (p *Properties) Ladder() Ladder { return p.ladder }

// Mode returns the sweep mode.
func (p *Properties) Mode() SweepMode { return p.mode }

// Shape returns the geometry strategy.
func (p *Properties) Shape() Shape { return p.shape }

// Rows returns the resolved row count (NoDimension for custom shapes).
func (p *Properties) Rows() int { return p.rows }

// Cols returns the resolved column count (NoDimension for custom shapes).
func (p *Properties) Cols() int { return p.cols }

// Size returns ⌊√n⌋, the linear size used for the wavevector.
func (p *Properties) Size() int { return p.size }

// Q returns the structure-factor wavevector 2π/Size.
func (p *Properties) Q() float64 { return p.q }

// NumIndices returns the number of spins.
func (p *Properties) NumIndices() int { return p.graph.NumIndices() }

// KernelName reports which energy kernel was selected.
func (p *Properties) KernelName() string { return p.kernel.name() }

// HasCoordinates reports whether displacements come from real coordinates.
func (p *Properties) HasCoordinates() bool { return p.locations != nil }

// Location returns the coordinate of pos.
func (p *Properties) Location(pos int) (hamiltonian.Location, bool) {
	if p.locations == nil {
		return hamiltonian.Location{}, false
	}
	return p.locations[pos], true
}

// Displacement returns the (x, y) displacement between positions i and j.
// It depends only on static coordinates, never on spin state.
func (p *Properties) Displacement(i, j int) (dx, dy int) {
	if p.locations == nil {
		return Custom{}.Displacement(hamiltonian.Location{}, hamiltonian.Location{})
	}
	return p.shape.Displacement(p.locations[i], p.locations[j])
}

// XDisplacement returns the row displacement between i and j.
func (p *Properties) XDisplacement(i, j int) int {
	dx, _ := p.Displacement(i, j)
	return dx
}

// YDisplacement returns the column displacement between i and j.
func (p *Properties) YDisplacement(i, j int) int {
	_, dy := p.Displacement(i, j)
	return dy
}

// Distance returns the lattice distance between i and j.
func (p *Properties) Distance(i, j int) float64 {
	if p.locations == nil {
		return Custom{}.Distance(0, 0)
	}
	dx, dy := p.Displacement(i, j)
	return p.shape.Distance(dx, dy)
}

// IndexEnergy returns E_pos for the given configuration.
func (p *Properties) IndexEnergy(spins []int8, pos int) int {
	return p.kernel.indexEnergy(spins, pos)
}

// StructureFactor returns the unnormalized spin-spin sums of one
// configuration:
//
//	k0 = Σ_ij s_i s_j
//	kq = Σ_ij s_i s_j · e^{i·q·dx_ij}
//
// With coordinates dx_ij = x_i − x_j, so kq = |Σ_i s_i e^{i·q·x_i}|². In
// coordinate-free mode every dx_ij is 1 and kq = e^{i·q}·k0. Both are O(n).
func (p *Properties) StructureFactor(spins []int8) (k0 float64, kq complex128) {
	sum := 0
	for _, s := range spins {
		sum += int(s)
	}
	k0 = float64(sum * sum)
	if p.phases == nil {
		return k0, cmplx.Exp(complex(0, p.q)) * complex(k0, 0)
	}
	var z complex128
	for pos, s := range spins {
		z += complex(float64(s), 0) * p.phases[pos]
	}
	return k0, complex(real(z)*real(z)+imag(z)*imag(z), 0)
}
