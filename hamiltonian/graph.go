package hamiltonian

import (
	"fmt"
	"slices"
)

// Graph is the canonicalized Hamiltonian. It is immutable after New returns,
// so a single *Graph may be read from many goroutines without locking.
type Graph struct {
	terms    [][]int     // raw rows [J, i1, i2, ...] in input order (original indices)
	indices  []int       // sorted distinct original indices
	position map[int]int // original index -> dense position

	local        [][]int      // per position: other participants, with repetition
	interactions [][]Term     // per position: coupling + other participants
	locations    []Location   // per position; nil in coordinate-free mode
	shape        byte
	rows, cols   int
}

// New canonicalizes rows into a Graph.
//
// Steps:
//  1. Validate every row has a coupling and at least one index.
//  2. Collect distinct indices and sort them; positions follow that order.
//  3. For each term and each participant, record the other participants as
//     local terms and (coupling, others) as an interaction term.
//  4. When rows and cols are declared, derive row=index/cols, col=index%cols;
//     drop all coordinates if any falls outside the declared bounds.
//
// Complexity: O(T·k² + n log n) for T terms of arity k over n indices.
func New(rows [][]int, opts ...Option) (*Graph, error) {
	cfg := defaultGraphConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !ValidShape(cfg.shape) {
		return nil, fmt.Errorf("New: tag %q: %w", cfg.shape, ErrShape)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("New: %w", ErrEmpty)
	}

	g := &Graph{
		terms:    make([][]int, 0, len(rows)),
		position: make(map[int]int),
		shape:    cfg.shape,
		rows:     cfg.rows,
		cols:     cfg.cols,
	}
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("New: row %d %v: %w", i, row, ErrMalformedTerm)
		}
		g.terms = append(g.terms, slices.Clone(row))
	}

	g.generateIndices()
	g.generateLocalTerms()
	g.generateInteractions()
	g.generateLocations()

	return g, nil
}

func (g *Graph) generateIndices() {
	seen := make(map[int]struct{})
	for _, term := range g.terms {
		for _, idx := range term[1:] {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			g.indices = append(g.indices, idx)
		}
	}
	slices.Sort(g.indices)
	for pos, idx := range g.indices {
		g.position[idx] = pos
	}
}

func (g *Graph) generateLocalTerms() {
	g.local = make([][]int, len(g.indices))
	for _, term := range g.terms {
		members := term[1:]
		for a := range members {
			self := g.position[members[a]]
			for b := range members {
				if a == b {
					continue
				}
				g.local[self] = append(g.local[self], g.position[members[b]])
			}
		}
	}
}

func (g *Graph) generateInteractions() {
	g.interactions = make([][]Term, len(g.indices))
	for _, term := range g.terms {
		members := term[1:]
		for a := range members {
			self := g.position[members[a]]
			partners := make([]int, 0, len(members)-1)
			for b := range members {
				if a == b {
					continue
				}
				partners = append(partners, g.position[members[b]])
			}
			g.interactions[self] = append(g.interactions[self], Term{Coupling: term[0], Partners: partners})
		}
	}
}

func (g *Graph) generateLocations() {
	if g.rows == NoDimension || g.cols == NoDimension || g.rows <= 0 || g.cols <= 0 {
		return
	}
	locs := make([]Location, len(g.indices))
	for pos, idx := range g.indices {
		r, c := idx/g.cols, idx%g.cols
		if idx < 0 || r >= g.rows || c >= g.cols {
			return
		}
		locs[pos] = Location{Row: r, Col: c}
	}
	g.locations = locs
}

// NumIndices returns the number of distinct indices.
func (g *Graph) NumIndices() int { return len(g.indices) }

// Order implements bfs.Adjacency.
func (g *Graph) Order() int { return len(g.indices) }

// Neighbors implements bfs.Adjacency over the local-term lists.
// The returned slice is shared; callers must not modify it.
func (g *Graph) Neighbors(pos int) []int { return g.local[pos] }

// Indices returns a copy of the sorted original indices.
func (g *Graph) Indices() []int { return slices.Clone(g.indices) }

// Index returns the original index stored at pos.
func (g *Graph) Index(pos int) int { return g.indices[pos] }

// Position maps an original index to its dense position.
func (g *Graph) Position(index int) (int, bool) {
	pos, ok := g.position[index]
	return pos, ok
}

// LocalTerms returns the other participants of every term touching pos.
// Shared slice; read-only.
func (g *Graph) LocalTerms(pos int) []int { return g.local[pos] }

// Interactions returns the interaction terms of pos. Shared; read-only.
func (g *Graph) Interactions(pos int) []Term { return g.interactions[pos] }

// HasLocations reports whether 2-D coordinates are available.
func (g *Graph) HasLocations() bool { return g.locations != nil }

// Location returns the coordinate of pos; ok is false in coordinate-free mode.
func (g *Graph) Location(pos int) (Location, bool) {
	if g.locations == nil {
		return Location{}, false
	}
	return g.locations[pos], true
}

// Shape returns the declared shape tag (ShapeCustom when none).
func (g *Graph) Shape() byte { return g.shape }

// Rows returns the declared row count or NoDimension.
func (g *Graph) Rows() int { return g.rows }

// Cols returns the declared column count or NoDimension.
func (g *Graph) Cols() int { return g.cols }

// Terms returns a deep copy of the raw rows in input order.
func (g *Graph) Terms() [][]int {
	out := make([][]int, len(g.terms))
	for i, t := range g.terms {
		out[i] = slices.Clone(t)
	}
	return out
}

// Contiguous reports whether the indices are exactly 0..n-1.
func (g *Graph) Contiguous() bool {
	n := len(g.indices)
	return n > 0 && g.indices[0] == 0 && g.indices[n-1] == n-1
}

// Uniform reports the shared coupling when every term is a pair with the
// same coupling and the indices are contiguous. Samplers use it to select a
// cheaper energy kernel.
func (g *Graph) Uniform() (int, bool) {
	if !g.Contiguous() {
		return 0, false
	}
	coupling := g.terms[0][0]
	for _, t := range g.terms {
		if len(t) != 3 || t[0] != coupling {
			return 0, false
		}
	}
	return coupling, true
}
