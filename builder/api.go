// SPDX-License-Identifier: MIT
// Package: lvising/builder
//
// api.go - public entry-point for the builder package.
//
// Design contract:
//   - One orchestrator: BuildHamiltonian(bopts, cons...). Resolves cfg, runs
//     cons in order against a shared term list, then canonicalizes it.
//   - Functional options resolve into a builderConfig (no global state).
//   - Determinism: same options, seed and constructor order produce identical
//     term lists.
//   - Never panic; constructors return sentinel errors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvising/hamiltonian"
)

// Constructor appends interaction terms to t using the resolved
// builderConfig. Constructors validate parameters before emitting anything.
type Constructor func(t *termSet, cfg *builderConfig) error

// termSet accumulates raw rows and the geometry header of the lattice being
// built.
type termSet struct {
	rows       [][]int
	shape      byte
	dimRows    int
	dimCols    int
	geometries int
	freeform   bool
}

// declare records the header of a geometric constructor.
func (t *termSet) declare(shape byte, rows, cols int) {
	t.shape, t.dimRows, t.dimCols = shape, rows, cols
	t.geometries++
}

// markFreeform records that a constructor emitted bonds with no geometry,
// which rules out any shape header for the whole set.
func (t *termSet) markFreeform() { t.freeform = true }

// bond appends a two-body term unless it is a self-bond.
func (t *termSet) bond(cfg *builderConfig, a, b int) {
	if a == b {
		return
	}
	t.rows = append(t.rows, []int{cfg.drawCoupling(), a, b})
}

// BuildHamiltonian resolves the builder configuration from bopts, applies all
// constructors in order and returns the canonical Hamiltonian.
//
// The shape header is kept only when exactly one constructor ran and it
// declared a geometry; overlays of any kind are emitted coordinate-free.
//
// Errors:
//   - option violations (ErrInvalidProbability) surface before any constructor;
//   - constructor errors are wrapped with "BuildHamiltonian: %w";
//   - ErrConstructFailed when the constructors emitted no terms.
func BuildHamiltonian(bopts []BuilderOption, cons ...Constructor) (*hamiltonian.Graph, error) {
	cfg := newBuilderConfig(bopts...)
	if cfg.err != nil {
		return nil, fmt.Errorf("BuildHamiltonian: %w", cfg.err)
	}

	set := &termSet{dimRows: hamiltonian.NoDimension, dimCols: hamiltonian.NoDimension}
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildHamiltonian: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(set, &cfg); err != nil {
			return nil, fmt.Errorf("BuildHamiltonian: %w", err)
		}
	}
	if len(set.rows) == 0 {
		return nil, fmt.Errorf("BuildHamiltonian: no terms emitted: %w", ErrConstructFailed)
	}

	opts := []hamiltonian.Option{}
	if set.geometries == 1 && !set.freeform {
		opts = append(opts,
			hamiltonian.WithShape(set.shape),
			hamiltonian.WithDimensions(set.dimRows, set.dimCols))
	}
	g, err := hamiltonian.New(set.rows, opts...)
	if err != nil {
		return nil, fmt.Errorf("BuildHamiltonian: %v: %w", err, ErrConstructFailed)
	}
	return g, nil
}
