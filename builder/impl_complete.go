// SPDX-License-Identifier: MIT
// Package: lvising/builder
//
// impl_complete.go - implementation of Complete(n) constructor.
//
// Contract:
//   - n ≥ MinCompleteNodes (else ErrTooFewVertices).
//   - Emits each unordered pair {i,j} with i<j exactly once as "J,i,j".
//   - No geometry is declared; the result is coordinate-free.
//
// Complexity: O(n²) terms.
//
// Determinism: lexicographic pair order; couplings drawn in that order.

package builder

// Complete returns a Constructor for the all-to-all (Sherrington-Kirkpatrick
// style) Hamiltonian on n sites.
func Complete(n int) Constructor {
	return func(t *termSet, cfg *builderConfig) error {
		if err := validateMin(MethodComplete, MinCompleteNodes, n); err != nil {
			return err
		}
		t.markFreeform()
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				t.bond(cfg, i, j)
			}
		}
		return nil
	}
}
