// Package hamiltonian defines the immutable interaction graph of an
// Ising-type Hamiltonian, its options, and its sentinel errors.
//
// A Hamiltonian is a list of terms [J, i1, i2, ...]: the product of the
// listed spins weighted by the integer coupling J. Indices are arbitrary
// integers; the Graph assigns each distinct index a dense position in sorted
// order and stores everything else by position.
package hamiltonian

import (
	"github.com/katalvlaran/lvising/simerr"
)

// Shape tags as they appear in the Hamiltonian file header.
const (
	ShapeCustom         byte = 0
	ShapeRectangle      byte = 'r'
	ShapeSquare         byte = 's'
	ShapeTriangle       byte = 't'
	ShapeSquareTriangle byte = 'v'
)

// NoDimension marks rows/cols that were not declared and must be inferred.
const NoDimension = -1

// Sentinel errors for Hamiltonian construction and parsing.
var (
	// ErrEmpty is returned when no interaction terms were supplied.
	ErrEmpty = simerr.Sentinel("hamiltonian", "no interaction terms", simerr.ErrConfiguration)

	// ErrMalformedTerm is returned for a term without any partner index.
	ErrMalformedTerm = simerr.Sentinel("hamiltonian", "term needs a coupling and at least one index", simerr.ErrConfiguration)

	// ErrShape is returned for an unknown shape tag.
	ErrShape = simerr.Sentinel("hamiltonian", "unknown shape tag", simerr.ErrConfiguration)

	// ErrParse is returned when the text format cannot be read.
	ErrParse = simerr.Sentinel("hamiltonian", "malformed input", simerr.ErrConfiguration)
)

// Term is one interaction as seen from a participant: the coupling and the
// positions of all other participants.
type Term struct {
	Coupling int
	Partners []int
}

// Location is a 2-D lattice coordinate.
type Location struct {
	Row int
	Col int
}

// Option configures a Graph before construction.
type Option func(*graphConfig)

type graphConfig struct {
	shape byte
	rows  int
	cols  int
}

func defaultGraphConfig() graphConfig {
	return graphConfig{shape: ShapeCustom, rows: NoDimension, cols: NoDimension}
}

// WithShape declares the lattice shape tag ('r', 's', 't', 'v' or 0).
func WithShape(tag byte) Option {
	return func(c *graphConfig) { c.shape = tag }
}

// WithDimensions declares row and column counts. Use NoDimension for
// "infer".
func WithDimensions(rows, cols int) Option {
	return func(c *graphConfig) {
		c.rows = rows
		c.cols = cols
	}
}

// ValidShape reports whether tag is one of the known shape tags.
func ValidShape(tag byte) bool {
	switch tag {
	case ShapeCustom, ShapeRectangle, ShapeSquare, ShapeTriangle, ShapeSquareTriangle:
		return true
	default:
		return false
	}
}
