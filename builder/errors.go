// SPDX-License-Identifier: MIT
// Package: lvising/builder
//
// errors.go - sentinel errors for the builder package.
//
// Every sentinel wraps simerr.ErrConfiguration: a generator failure is always
// a parameter mistake. Callers branch with errors.Is; constructors attach
// context with %w.
//
// Priority when several validations fail:
//   - ErrTooFewVertices     size checks first (rows, cols, side, n);
//   - ErrInvalidProbability then disorder bounds;
//   - ErrNeedRandSource     then RNG presence for disordered lattices;
//   - ErrConstructFailed    only when nothing could be emitted.

package builder

import (
	"github.com/katalvlaran/lvising/simerr"
)

// ErrTooFewVertices indicates that a size parameter (rows, cols, side, n) is
// smaller than the constructor's minimum.
var ErrTooFewVertices = simerr.Sentinel("builder", "parameter too small", simerr.ErrConfiguration)

// ErrInvalidProbability indicates a disorder percentage outside [0,100].
var ErrInvalidProbability = simerr.Sentinel("builder", "probability out of range", simerr.ErrConfiguration)

// ErrNeedRandSource indicates a disordered lattice was requested without
// WithSeed or WithRand.
var ErrNeedRandSource = simerr.Sentinel("builder", "rng is required", simerr.ErrConfiguration)

// ErrConstructFailed indicates the constructors produced no usable
// Hamiltonian (nil constructor, no terms, or every bond a self-bond).
var ErrConstructFailed = simerr.Sentinel("builder", "construction failed", simerr.ErrConfiguration)
