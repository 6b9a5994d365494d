// SPDX-License-Identifier: MIT
// Package: lvising/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   - coupling = DefaultCoupling (ferromagnetic)
//   - disorder = 0 (no sign flips, no RNG needed)
//   - rng      = nil (pure unless seeded)

package builder

import (
	"math/rand"
)

// builderConfig aggregates all knobs used by constructors.
type builderConfig struct {
	// Integer coupling assigned to every emitted bond before disorder.
	coupling int
	// Percent chance in [0,100] that a bond's sign is flipped.
	disorder int
	// RNG for disorder draws; nil means "no randomness".
	rng *rand.Rand
	// First option violation, reported by BuildHamiltonian.
	err error
}

// newBuilderConfig constructs a config with deterministic defaults and applies
// all options in order (last wins).
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		coupling: DefaultCoupling,
		disorder: 0,
		rng:      nil,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err == nil && cfg.disorder > 0 && cfg.rng == nil {
		cfg.err = ErrNeedRandSource
	}
	return cfg
}

// drawCoupling returns the configured coupling, sign-flipped with
// probability disorder/100.
func (c *builderConfig) drawCoupling() int {
	if c.disorder == 0 {
		return c.coupling
	}
	if c.rng.Intn(MaxDisorder) < c.disorder {
		return -c.coupling
	}
	return c.coupling
}
