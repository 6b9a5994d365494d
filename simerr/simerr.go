// SPDX-License-Identifier: MIT
// Package: lvising/simerr
//
// Package simerr defines the three failure classes shared by every lvising
// package. Package-level sentinels elsewhere wrap exactly one of them, so a
// caller can classify any error with errors.Is without knowing which package
// produced it.
//
// Error policy:
//   - ErrConfiguration: caller or programmer mistake (bad shape, sweep mode,
//     percentile bounds, dimensions). Surfaced immediately, never retried.
//   - ErrDataIntegrity: persisted or computed data is inconsistent
//     (checkpoint rows, unexpected trial files, moments outside [0,1]).
//   - ErrRange: a temperature outside the declared ladder.
//
// No component retries; the binary exits non-zero on any of them.
package simerr

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration classifies invalid parameters and shape mismatches.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataIntegrity classifies corrupt or inconsistent statistics.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrRange classifies out-of-ladder temperatures.
	ErrRange = errors.New("range error")
)

// Sentinel returns a package sentinel "<pkg>: <msg>" that wraps class.
// Intended for package-level var blocks only.
func Sentinel(pkg, msg string, class error) error {
	return fmt.Errorf("%s: %s: %w", pkg, msg, class)
}

// Classify reports which taxonomy class err belongs to, or "" when none.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrDataIntegrity):
		return "data_integrity"
	case errors.Is(err, ErrRange):
		return "range"
	default:
		return ""
	}
}
