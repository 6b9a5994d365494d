package trial

import (
	"math"

	"github.com/katalvlaran/lvising/stats"
)

// StabilityDetector decides when every rung has reached a steady state.
//
// It keeps the per-rung means of the last Window−1 unstable cycles. A new
// cycle is stable when, for every rung, its mean differs from each kept mean
// by less than max(σ, 1e-6), σ being the population deviation of the new
// cycle's samples. The first Window−1 cycles only seed the window.
type StabilityDetector struct {
	window int
	bins   [][]float64
	cycles int
}

// NewStabilityDetector returns a detector comparing against window−1 past
// cycles.
func NewStabilityDetector(window int) *StabilityDetector {
	return &StabilityDetector{window: max(window, 2)}
}

// Cycles returns the number of cycles observed so far.
func (d *StabilityDetector) Cycles() int { return d.cycles }

// Observe consumes one cycle of samples, indexed [rung][sample], and reports
// whether every rung is stable.
func (d *StabilityDetector) Observe(samples [][]float64) bool {
	d.cycles++
	means := make([]float64, len(samples))
	stds := make([]float64, len(samples))
	for i, s := range samples {
		means[i] = stats.Mean(s)
		stds[i] = stats.PopStdDev(s)
	}

	if len(d.bins) < d.window-1 {
		d.bins = append(d.bins, means)
		return false
	}

	stable := true
	for i := range means {
		tol := math.Max(stds[i], stats.MinStdDev)
		for j := 1; j < d.window; j++ {
			prev := d.bins[len(d.bins)-j][i]
			if !(math.Abs(means[i]-prev) < tol) {
				stable = false
			}
		}
	}
	if !stable {
		d.bins = append(d.bins, means)
		if extra := len(d.bins) - (d.window - 1); extra > 0 {
			d.bins = d.bins[extra:]
		}
	}
	return stable
}
