// Package builder generates Hamiltonians for standard lattices using
// "functional options" building blocks, so fixtures and input files for the
// sampler can be produced deterministically instead of written by hand.
//
// The package offers the following key components:
//
//   - Orchestrator:
//     – BuildHamiltonian: resolves options, runs constructors in order and
//     canonicalizes the emitted terms into a *hamiltonian.Graph.
//   - Constructors (periodic boundaries, row-major site numbering):
//     – Rectangle(rows, cols), Square(side): right and bottom bonds.
//     – Triangle(rows, cols), SquareTriangle(side): plus bottom-right bonds.
//     – Complete(n): all-to-all pairs, coordinate-free.
//   - Options:
//     – WithCoupling: integer coupling of every bond (default 1).
//     – WithDisorder: percent chance that a bond's sign is flipped.
//     – WithSeed / WithRand: RNG for disorder draws.
//
// Guarantees:
//
//   - Same options, seed and constructor order produce identical term lists.
//   - Self-bonds are never emitted.
//   - All errors wrap simerr.ErrConfiguration.
//
// Example:
//
//	g, err := builder.BuildHamiltonian(
//		[]builder.BuilderOption{builder.WithDisorder(10), builder.WithSeed(7)},
//		builder.Square(16),
//	)
//	if err != nil { ... }
//	_ = hamiltonian.WriteFile("square16.csv", g)
package builder
