package lattice

import "github.com/katalvlaran/lvising/simerr"

// Sentinel errors for lattice construction and replica state.
var (
	// ErrSweepMode is returned for a sweep mode other than 'a', 'p' or 'r'.
	ErrSweepMode = simerr.Sentinel("lattice", "invalid sweep mode", simerr.ErrConfiguration)

	// ErrLadder is returned for an invalid temperature ladder.
	ErrLadder = simerr.Sentinel("lattice", "invalid temperature ladder", simerr.ErrConfiguration)

	// ErrShapeMismatch is returned when a shape strategy rejects the
	// Hamiltonian's declared shape tag.
	ErrShapeMismatch = simerr.Sentinel("lattice", "shape does not match the Hamiltonian", simerr.ErrConfiguration)

	// ErrNotSquare is returned when a square shape cannot be satisfied by
	// the number of indices.
	ErrNotSquare = simerr.Sentinel("lattice", "index count is not a perfect square", simerr.ErrConfiguration)

	// ErrDimensions is returned for rows/cols that cannot hold the lattice.
	ErrDimensions = simerr.Sentinel("lattice", "invalid dimensions", simerr.ErrConfiguration)

	// ErrClusterPolicy is returned for an unknown ClusterPolicy.
	ErrClusterPolicy = simerr.Sentinel("lattice", "unknown cluster policy", simerr.ErrConfiguration)

	// ErrTemperatureRange is returned for a temperature outside the ladder.
	ErrTemperatureRange = simerr.Sentinel("lattice", "temperature outside the ladder", simerr.ErrRange)
)
