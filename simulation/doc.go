// Package simulation orchestrates the independent trials of one Hamiltonian
// file and reduces them to per-rung ensemble statistics.
//
// What:
//
//   - New validates the configuration, checks the input's declared shape,
//     replays the checkpoint directory (temp/ next to the input) and computes
//     the trials still to run.
//   - Run schedules those trials on a workerpool.Pool. Every trial reads its
//     own copy of the graph (the read is serialized by a file lock), builds a
//     private ensemble seeded from rng.DeriveSeed(seed, trial), runs the
//     trial schedule, checkpoints and merges its rows.
//   - Aggregates keeps five per-rung sample maps (|m|, m², m⁴, χ(0), χ(q)),
//     each behind its own lock.
//   - Summarize applies the trimmed mean per rung and derives the Binder
//     cumulant U = 1 − ⟨m⁴⟩/(3⟨m²⟩²) and the correlation length from
//     χ(0)/χ(q).
//   - WriteReport emits magnetizations/, binder_cumulants/ and
//     correlation_functions/ files with header "temperature,result".
//
// Restart semantics:
//
// A trial whose checkpoint exists is never recomputed. Because per-trial
// seeds depend only on the root seed and the trial index, and checkpoint
// floats round-trip exactly, stopping after any trial and rerunning yields
// the same report as one uninterrupted run.
//
// Errors:
//
// Configuration problems wrap simerr.ErrConfiguration. Checkpoints for
// unexpected trials, rows that do not cover the ladder, moments outside
// [0,1], and rungs whose sample count differs from the trial count wrap
// simerr.ErrDataIntegrity.
//
// Concurrency:
//
// New and Run must not be called concurrently on the same Simulation. Run
// honors ctx only between trials.
package simulation
