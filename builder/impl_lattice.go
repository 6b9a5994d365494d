// SPDX-License-Identifier: MIT
// Package: lvising/builder
//
// impl_lattice.go - periodic 2-D lattices.
//
// Canonical model:
//   - Sites are numbered row-major: index = r*cols + c.
//   - Every site bonds to its right (r, c+1) and bottom (r+1, c) neighbor,
//     wrapping around both edges; triangular lattices also bond to the
//     bottom-right (r+1, c+1) neighbor.
//   - Bonds that wrap onto the site itself (1-wide dimensions) are skipped.
//   - The header declares the shape tag and dimensions so samplers can
//     recover coordinates.
//
// Complexity: O(rows*cols) terms (2 or 3 per site).
//
// Determinism: row-major site order; per site Right, Bottom, then Diagonal.

package builder

import (
	"github.com/katalvlaran/lvising/hamiltonian"
)

// Rectangle returns a Constructor for a periodic rows×cols square-grid
// lattice.
func Rectangle(rows, cols int) Constructor {
	return grid(MethodRectangle, hamiltonian.ShapeRectangle, rows, cols, false)
}

// Square returns a Constructor for a periodic side×side lattice.
func Square(side int) Constructor {
	return grid(MethodSquare, hamiltonian.ShapeSquare, side, side, false)
}

// Triangle returns a Constructor for a periodic rows×cols triangular lattice
// (square grid plus one diagonal per plaquette).
func Triangle(rows, cols int) Constructor {
	return grid(MethodTriangle, hamiltonian.ShapeTriangle, rows, cols, true)
}

// SquareTriangle returns a Constructor for a periodic side×side triangular
// lattice.
func SquareTriangle(side int) Constructor {
	return grid(MethodSquareTriangle, hamiltonian.ShapeSquareTriangle, side, side, true)
}

func grid(method string, shape byte, rows, cols int, diagonal bool) Constructor {
	return func(t *termSet, cfg *builderConfig) error {
		if err := validateMin(method, MinLatticeDim, rows, cols); err != nil {
			return err
		}
		t.declare(shape, rows, cols)

		for r := 0; r < rows; r++ {
			down := (r + 1) % rows
			for c := 0; c < cols; c++ {
				next := (c + 1) % cols
				self := r*cols + c
				t.bond(cfg, self, r*cols+next)
				t.bond(cfg, self, down*cols+c)
				if diagonal {
					t.bond(cfg, self, down*cols+next)
				}
			}
		}
		return nil
	}
}
