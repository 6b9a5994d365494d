// Package lvising simulates Ising-type Hamiltonians with parallel-tempering
// Monte Carlo, from lattice generation through checkpointed multi-trial runs
// to trimmed-mean estimates of magnetization, Binder cumulant and correlation
// length.
//
// Every temperature rung carries two replicas sweeping the same Hamiltonian.
// Replica pairs feed Houdayer cluster moves below a junction temperature, and
// neighbouring rungs exchange configurations with the Metropolis criterion.
//
// Layout:
//
//	simerr/      - error classes (configuration, data integrity, range)
//	rng/         - multiply-with-carry generator and seed-stream derivation
//	hamiltonian/ - interaction graph, file format reader and writer
//	builder/     - periodic lattice and all-to-all Hamiltonian constructors
//	bfs/         - breadth-first walker used for Houdayer clusters
//	lattice/     - replicas, temperature ladder, ensemble sweeps and exchanges
//	stats/       - means, trimmed means, Binder cumulant, correlation length
//	trial/       - stability detection and one checkpointed trial
//	checkpoint/  - per-trial CSV checkpoints with atomic writes
//	workerpool/  - bounded FIFO pool running trials
//	simulation/  - orchestration, replay, aggregation, reports and metrics
//	config/      - YAML, environment and flag layering; slog setup
//	cmd/lvising/ - the command-line binary
//
// Quick start:
//
//	lvising generate --shape s --rows 16 --output square16.csv
//	lvising run square16.csv 1.5 0.1 12 0 8 p
//
// A run resumes from temp/ next to the input file; pass --fresh to discard
// earlier checkpoints.
package lvising
