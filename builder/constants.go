// Package builder defines shared constants used by Hamiltonian generators,
// ensuring consistent defaults and validation across all constructors.
package builder

//-----------------------------------------------------------------------------
// Builder Method Name Constants
//   used to prefix errors with the constructor name for context.
//-----------------------------------------------------------------------------

const (
	// MethodRectangle is the canonical name for the Rectangle constructor.
	MethodRectangle = "Rectangle"
	// MethodSquare is the canonical name for the Square constructor.
	MethodSquare = "Square"
	// MethodTriangle is the canonical name for the Triangle constructor.
	MethodTriangle = "Triangle"
	// MethodSquareTriangle is the canonical name for the SquareTriangle constructor.
	MethodSquareTriangle = "SquareTriangle"
	// MethodComplete is the canonical name for the Complete constructor.
	MethodComplete = "Complete"
)

//-----------------------------------------------------------------------------
// Minimum sizes
//-----------------------------------------------------------------------------

// MinLatticeDim is the smallest allowed row or column count. A 1×1 lattice
// only has self-bonds and therefore fails with ErrConstructFailed, but 1×n
// rings are valid.
const MinLatticeDim = 1

// MinCompleteNodes is the smallest all-to-all system with at least one pair.
const MinCompleteNodes = 2

//-----------------------------------------------------------------------------
// Couplings and disorder
//-----------------------------------------------------------------------------

// DefaultCoupling is the ferromagnetic coupling used when WithCoupling is not
// given.
const DefaultCoupling = 1

// MaxDisorder is the upper bound (inclusive) of WithDisorder, in percent.
const MaxDisorder = 100
