// SPDX-License-Identifier: MIT
// Package: lvising/lattice
//
// Package lattice implements the Monte Carlo sampler: single-chain Metropolis
// replicas and the parallel-tempering ensemble that drives them.
//
// What
//
//   - Properties: immutable bundle shared by every replica of an ensemble
//     (graph, temperature ladder, sweep mode, resolved shape, energy kernel).
//   - Replica: one ±1 spin configuration at one ladder temperature, with its
//     own MWC stream. Update performs one sweep in the configured SweepMode.
//   - Ensemble: two replicas per rung. Sweep runs, in order, a local sweep of
//     every replica, Houdayer cluster moves between the two replicas of a
//     rung, and one ascending parallel-tempering exchange pass.
//
// Energy convention
//
//	E_i = −s_i · Σ_terms J · Π partner spins
//
// A positive coupling is ferromagnetic. TotalEnergy sums E_i over every
// position, so a k-body term is counted k times. Derived observables were
// calibrated against this normalization; do not divide it out.
//
// Acceptance
//
//	p(i) = exp(2·E_i / T)  when E_i < 0
//	p(i) = 1               otherwise
//
// The spin flips when p exceeds a fresh uniform draw in [0,1).
//
// Exchange
//
// Slot i always carries ladder temperature i. An accepted exchange between
// slots i and i+1 swaps the two replica pairs between the slots and relabels
// their temperatures; spins are never copied.
//
// Shapes
//
// A Shape strategy resolves rows/cols and supplies displacement and
// distance between coordinates. Rectangle accepts 'r' and 's', Square only
// 's', Triangle 't' and 'v', SquareTriangle only 'v'. Custom is the
// coordinate-free fallback with unit displacement between any two sites.
//
// Concurrency
//
// Properties and the underlying graph are read-only and may be shared.
// Replicas and Ensembles are owned by exactly one goroutine.
package lattice
