// SPDX-License-Identifier: MIT
// Package: lvising/trial
//
// Package trial runs one independent stochastic trial on an ensemble:
// warm-up, production sampling, and the per-rung result rows.
//
// Production runs in one of two modes:
//
//   - Fixed count (Config.Updates > 0): Updates samples, each taken after
//     Skip ensemble sweeps.
//   - Stability seeking (Config.Updates == 0): cycles of BaseUpdates·2^cycle
//     samples feed a StabilityDetector until every rung is stable or
//     MaxCycles is reached; a production batch of
//     BaseUpdates·2^min(cycle, PowerMax) samples follows.
//
// Per sample and per rung the trial accumulates |m|, m², m⁴ and the k=0 and
// k=q structure-factor sums of replica 0. Results are divided by the number
// of indices and by the number of samples; nothing partial escapes Run.
package trial
