// SPDX-License-Identifier: MIT
// Package: lvising/stats
//
// Package stats merges per-trial samples into ensemble estimates.
//
// Exposed API:
//   - Mean, PopStdDev, MeanComplex          plain moments (gonum/stat backed)
//   - TrimmedMean, TrimmedMeanComplex       outlier-resistant averages
//   - Retained                              the subset TrimmedMean averages
//   - BinderCumulant, CorrelationLength     derived observables per rung
//
// Trimmed mean:
//  1. Sort a copy of the samples.
//  2. Keep the band whose rank percentile i/len lies in [min(lo,hi), max(lo,hi)].
//  3. Take the band's mean and population standard deviation (floored at 1e-6).
//  4. Keep every sample within one deviation of the band mean and average them.
//
// A band that selects nothing (a single sample, or a very narrow band) falls
// back to the plain mean of all samples. Complex samples are trimmed on the
// real and imaginary parts independently.
//
// Determinism:
//   - No randomness; inputs are never mutated.
package stats
