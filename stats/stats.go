package stats

import (
	"math"
	"math/cmplx"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/lvising/simerr"
)

// MinStdDev floors the band deviation so that identical samples are kept.
const MinStdDev = 1e-6

// Default percentile band used by the orchestrator.
const (
	DefaultLowPercentile  = 0.33
	DefaultHighPercentile = 0.67
)

var (
	// ErrPercentile is returned for a percentile outside [0,1].
	ErrPercentile = simerr.Sentinel("stats", "percentile must be within [0,1]", simerr.ErrConfiguration)

	// ErrNoSamples is returned when a statistic is requested over nothing.
	ErrNoSamples = simerr.Sentinel("stats", "no samples", simerr.ErrDataIntegrity)
)

// Mean returns the arithmetic mean of v, or NaN for an empty slice.
func Mean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

// PopStdDev returns the population standard deviation of v.
func PopStdDev(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	_, std := stat.PopMeanStdDev(v, nil)
	return std
}

// MeanComplex averages real and imaginary parts independently.
func MeanComplex(v []complex128) complex128 {
	re, im := split(v)
	return complex(Mean(re), Mean(im))
}

// Retained returns, sorted ascending, the samples TrimmedMean averages.
//
// Complexity: O(n log n) time, O(n) space.
func Retained(v []float64, lo, hi float64) ([]float64, error) {
	if len(v) == 0 {
		return nil, ErrNoSamples
	}
	if lo < 0 || lo > 1 || hi < 0 || hi > 1 || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil, ErrPercentile
	}
	lo, hi = min(lo, hi), max(lo, hi)

	sorted := slices.Clone(v)
	slices.Sort(sorted)

	n := float64(len(sorted))
	band := make([]float64, 0, len(sorted))
	for i, d := range sorted {
		p := float64(i) / n
		if p >= lo && p <= hi {
			band = append(band, d)
		}
	}
	if len(band) == 0 {
		return sorted, nil
	}

	mean, std := stat.PopMeanStdDev(band, nil)
	std = max(std, MinStdDev)

	kept := make([]float64, 0, len(sorted))
	for _, d := range sorted {
		if math.Abs(d-mean) <= std {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		// Only reachable through NaN samples.
		return sorted, nil
	}
	return kept, nil
}

// TrimmedMean returns the outlier-trimmed mean of v for the percentile band
// [lo, hi]. The order of lo and hi does not matter.
func TrimmedMean(v []float64, lo, hi float64) (float64, error) {
	kept, err := Retained(v, lo, hi)
	if err != nil {
		return 0, err
	}
	return floats.Sum(kept) / float64(len(kept)), nil
}

// TrimmedMeanComplex trims real and imaginary parts independently.
func TrimmedMeanComplex(v []complex128, lo, hi float64) (complex128, error) {
	re, im := split(v)
	r, err := TrimmedMean(re, lo, hi)
	if err != nil {
		return 0, err
	}
	i, err := TrimmedMean(im, lo, hi)
	if err != nil {
		return 0, err
	}
	return complex(r, i), nil
}

// BinderCumulant returns U = 1 − ⟨m⁴⟩ / (3⟨m²⟩²).
func BinderCumulant(m2, m4 float64) float64 {
	return 1 - m4/(3*m2*m2)
}

// CorrelationLength estimates ξ = √(χ(0)/χ(q) − 1) / (2·size·sin q) and
// reports its real part. A non-physical ratio below one yields an imaginary
// root and therefore 0.
func CorrelationLength(chi0, chiq complex128, size int, q float64) float64 {
	xi := cmplx.Sqrt(chi0/chiq-1) / complex(2*float64(size)*math.Sin(q), 0)
	return real(xi)
}

func split(v []complex128) (re, im []float64) {
	re = make([]float64, len(v))
	im = make([]float64, len(v))
	for i, c := range v {
		re[i], im[i] = real(c), imag(c)
	}
	return re, im
}
