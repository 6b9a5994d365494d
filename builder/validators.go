// Package builder provides validation helpers to enforce parameter contracts
// in Constructor factories.
package builder

import "fmt"

// validateMin ensures that every value in got is ≥ min.
// Returns "<Method>: parameter must be ≥ <min>, got <v>: ErrTooFewVertices".
//
// Complexity: O(len(got)).
func validateMin(method string, min int, got ...int) error {
	for _, v := range got {
		if v < min {
			return fmt.Errorf("%s: parameter must be ≥ %d, got %d: %w", method, min, v, ErrTooFewVertices)
		}
	}
	return nil
}
