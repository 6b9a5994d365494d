// SPDX-License-Identifier: MIT
// Package: lvising/checkpoint
//
// Package checkpoint persists one CSV file per completed trial so an
// interrupted simulation resumes without recomputing finished work.
//
// Layout:
//
//	<inputdir>/temp/<trial><basename>
//
//	temperature,avg_mag,avg_mag2,avg_mag4,chi0_re,chi0_im,chiq_re,chiq_im
//	0.5,0.91,0.84,0.71,3.6,0,0.2,0
//	...
//
// One row per temperature rung. Files are written to a hidden temporary name
// and renamed into place, so a crash never leaves a half-written checkpoint
// that a restart would mistake for a finished trial. Floats use the shortest
// representation that round-trips, so replayed statistics are bit-identical
// to the ones that were saved.
//
// Concurrency:
//   - A *Store may be shared by all trial goroutines; directory creation is
//     serialized by the store's lock and every trial writes its own file.
package checkpoint
