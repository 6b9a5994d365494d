package lattice

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvising/hamiltonian"
)

// Shape supplies the geometry of a lattice variant.
type Shape interface {
	// Tag is the shape character this variant is selected by.
	Tag() byte
	// Name is a human-readable label for logs.
	Name() string
	// Check returns ErrShapeMismatch unless tag is accepted.
	Check(tag byte) error
	// Resolve fixes rows and cols for n indices, guessing undeclared values.
	Resolve(n, rows, cols int) (int, int, error)
	// Displacement returns (row_a − row_b, col_a − col_b).
	Displacement(a, b hamiltonian.Location) (dx, dy int)
	// Distance is the lattice metric for a displacement.
	Distance(dx, dy int) float64
}

// ShapeFor selects the strategy for a Hamiltonian shape tag. Unknown tags
// fall back to Custom.
func ShapeFor(tag byte) Shape {
	switch tag {
	case hamiltonian.ShapeRectangle:
		return Rectangle{}
	case hamiltonian.ShapeSquare:
		return Square{}
	case hamiltonian.ShapeTriangle:
		return Triangle{}
	case hamiltonian.ShapeSquareTriangle:
		return SquareTriangle{}
	default:
		return Custom{}
	}
}

func checkTag(s Shape, tag byte, accepted ...byte) error {
	for _, a := range accepted {
		if tag == a {
			return nil
		}
	}
	return fmt.Errorf("%s: tag %q: %w", s.Name(), tag, ErrShapeMismatch)
}

// guessRowsCols returns declared dimensions when both are present, otherwise
// the most square factorization rows ≤ cols of n.
func guessRowsCols(n, rows, cols int) (int, int, error) {
	if rows != hamiltonian.NoDimension && cols != hamiltonian.NoDimension {
		if rows <= 0 || cols <= 0 {
			return 0, 0, fmt.Errorf("rows=%d cols=%d: %w", rows, cols, ErrDimensions)
		}
		return rows, cols, nil
	}
	for guess := isqrt(n); guess > 0; guess-- {
		if n%guess == 0 {
			return guess, n / guess, nil
		}
	}
	return 0, 0, fmt.Errorf("%d indices: %w", n, ErrDimensions)
}

// guessSide returns the side of a square lattice: the declared rows when
// present, otherwise √n, which must be exact.
func guessSide(n, rows, cols int) (int, int, error) {
	if rows != hamiltonian.NoDimension {
		if rows <= 0 {
			return 0, 0, fmt.Errorf("side=%d: %w", rows, ErrDimensions)
		}
		return rows, rows, nil
	}
	side := isqrt(n)
	if side*side != n {
		return 0, 0, fmt.Errorf("%d indices: %w", n, ErrNotSquare)
	}
	return side, side, nil
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	s := int(math.Sqrt(float64(n)))
	for s*s > n {
		s--
	}
	for (s+1)*(s+1) <= n {
		s++
	}
	return s
}

func planeDisplacement(a, b hamiltonian.Location) (int, int) {
	return a.Row - b.Row, a.Col - b.Col
}

// Rectangle is a rows×cols lattice with Euclidean distance.
type Rectangle struct{}

func (Rectangle) Tag() byte { return hamiltonian.ShapeRectangle }
func (Rectangle) Name() string { return "rectangle" }
func (r Rectangle) Check(tag byte) error {
	return checkTag(r, tag, hamiltonian.ShapeRectangle, hamiltonian.ShapeSquare)
}
func (Rectangle) Resolve(n, rows, cols int) (int, int, error) { return guessRowsCols(n, rows, cols) }
func (Rectangle) Displacement(a, b hamiltonian.Location) (int, int) {
	return planeDisplacement(a, b)
}
func (Rectangle) Distance(dx, dy int) float64 { return math.Hypot(float64(dx), float64(dy)) }

// Square is a side×side rectangle.
type Square struct{ Rectangle }

func (Square) Tag() byte { return hamiltonian.ShapeSquare }
func (Square) Name() string { return "square" }
func (s Square) Check(tag byte) error {
	return checkTag(s, tag, hamiltonian.ShapeSquare)
}
func (Square) Resolve(n, rows, cols int) (int, int, error) { return guessSide(n, rows, cols) }

// Triangle is a rows×cols lattice with right, bottom and bottom-right bonds.
// Distances are Euclidean in row/column coordinates, like Rectangle, so a
// diagonal bond measures √2.
type Triangle struct{}

func (Triangle) Tag() byte { return hamiltonian.ShapeTriangle }
func (Triangle) Name() string { return "triangle" }
func (t Triangle) Check(tag byte) error {
	return checkTag(t, tag, hamiltonian.ShapeTriangle, hamiltonian.ShapeSquareTriangle)
}
func (Triangle) Resolve(n, rows, cols int) (int, int, error) { return guessRowsCols(n, rows, cols) }
func (Triangle) Displacement(a, b hamiltonian.Location) (int, int) {
	return planeDisplacement(a, b)
}
func (Triangle) Distance(dx, dy int) float64 { return math.Hypot(float64(dx), float64(dy)) }

// SquareTriangle is a side×side triangle.
type SquareTriangle struct{ Triangle }

func (SquareTriangle) Tag() byte { return hamiltonian.ShapeSquareTriangle }
func (SquareTriangle) Name() string { return "square triangle" }
func (s SquareTriangle) Check(tag byte) error {
	return checkTag(s, tag, hamiltonian.ShapeSquareTriangle)
}
func (SquareTriangle) Resolve(n, rows, cols int) (int, int, error) { return guessSide(n, rows, cols) }

// Custom has no coordinates: every pair of sites is one unit apart.
type Custom struct{}

func (Custom) Tag() byte { return hamiltonian.ShapeCustom }
func (Custom) Name() string { return "custom" }
func (Custom) Check(byte) error { return nil }
func (Custom) Resolve(_, rows, cols int) (int, int, error) { return rows, cols, nil }
func (Custom) Displacement(_, _ hamiltonian.Location) (int, int) {
	return 1, 1
}
func (Custom) Distance(int, int) float64 { return 1 }
