// SPDX-License-Identifier: MIT
// Package: lvising/builder
//
// options.go - functional options for the builder package.
//
// Contract:
//   - Options are functional (type BuilderOption func(*builderConfig)).
//   - Nil RNGs panic in the option constructor (programmer error).
//   - Out-of-range disorder is recorded and returned by BuildHamiltonian as
//     ErrInvalidProbability, since it usually comes from user input.
//   - Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"fmt"
	"math/rand"
)

// BuilderOption customizes constructors by mutating a builderConfig before
// any term is emitted.
type BuilderOption func(*builderConfig)

// WithCoupling sets the integer coupling of every bond. Zero is allowed and
// yields a non-interacting Hamiltonian.
func WithCoupling(j int) BuilderOption {
	return func(c *builderConfig) {
		c.coupling = j
	}
}

// WithDisorder sets the percent chance (0..100) that each bond's coupling
// sign is flipped. Any positive value requires WithSeed or WithRand.
func WithDisorder(percent int) BuilderOption {
	return func(c *builderConfig) {
		if percent < 0 || percent > MaxDisorder {
			c.err = fmt.Errorf("disorder %d%% outside [0,%d]: %w", percent, MaxDisorder, ErrInvalidProbability)
			return
		}
		c.disorder = percent
	}
}

// WithRand provides an explicit RNG for disorder draws.
// Panics on nil; prefer WithSeed for reproducible runs.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}
