package simulation

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/katalvlaran/lvising/lattice"
	"github.com/katalvlaran/lvising/stats"
	"github.com/katalvlaran/lvising/trial"
)

// series is one per-rung sample collection behind its own lock.
type series[T any] struct {
	mu     sync.Mutex
	byRung map[int][]T
}

func newSeries[T any]() *series[T] {
	return &series[T]{byRung: make(map[int][]T)}
}

func (s *series[T]) add(rung int, v T) {
	s.mu.Lock()
	s.byRung[rung] = append(s.byRung[rung], v)
	s.mu.Unlock()
}

func (s *series[T]) snapshot(rung int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.byRung[rung])
}

func (s *series[T]) count(rung int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byRung[rung])
}

// Aggregates collects one sample per rung and trial for each of the five
// statistics. Each statistic has its own lock, so concurrent trials only
// contend on the statistic they are currently merging.
type Aggregates struct {
	ladder lattice.Ladder

	mag, mag2, mag4 *series[float64]
	chi0, chiq      *series[complex128]
}

// NewAggregates returns empty aggregates for ladder.
func NewAggregates(ladder lattice.Ladder) *Aggregates {
	return &Aggregates{
		ladder: ladder,
		mag:    newSeries[float64](),
		mag2:   newSeries[float64](),
		mag4:   newSeries[float64](),
		chi0:   newSeries[complex128](),
		chiq:   newSeries[complex128](),
	}
}

// Add merges the rows of one trial. The rows must cover every rung exactly
// once and carry moments in [0,1]; nothing is merged otherwise.
func (a *Aggregates) Add(rows []trial.Row) error {
	if len(rows) != a.ladder.Rungs {
		return fmt.Errorf("%d rows for %d rungs: %w", len(rows), a.ladder.Rungs, ErrRowCount)
	}
	rungs := make([]int, len(rows))
	seen := make([]bool, a.ladder.Rungs)
	for i, r := range rows {
		rung, err := a.ladder.Index(r.Temperature)
		if err != nil {
			return fmt.Errorf("row %d: %v: %w", i, err, ErrRowCount)
		}
		if want := a.ladder.Temperature(rung); math.Abs(r.Temperature-want) > 1e-9*math.Max(1, math.Abs(want)) {
			return fmt.Errorf("temperature %v is not a rung: %w", r.Temperature, ErrRowCount)
		}
		if seen[rung] {
			return fmt.Errorf("temperature %v listed twice: %w", r.Temperature, ErrRowCount)
		}
		seen[rung] = true
		for _, m := range []float64{r.AvgMag, r.AvgMag2, r.AvgMag4} {
			if !(m >= 0 && m <= 1) {
				return fmt.Errorf("temperature %v value %v: %w", r.Temperature, m, trial.ErrMoment)
			}
		}
		rungs[i] = rung
	}

	for i, r := range rows {
		a.mag.add(rungs[i], r.AvgMag)
	}
	for i, r := range rows {
		a.mag2.add(rungs[i], r.AvgMag2)
	}
	for i, r := range rows {
		a.mag4.add(rungs[i], r.AvgMag4)
	}
	for i, r := range rows {
		a.chi0.add(rungs[i], r.Chi0)
	}
	for i, r := range rows {
		a.chiq.add(rungs[i], r.Chiq)
	}
	return nil
}

// Count returns the number of trials merged into rung.
func (a *Aggregates) Count(rung int) int { return a.mag.count(rung) }

// Counts returns Count for every rung.
func (a *Aggregates) Counts() []int {
	out := make([]int, a.ladder.Rungs)
	for i := range out {
		out[i] = a.Count(i)
	}
	return out
}

// Magnetizations returns a copy of the |m| samples of rung.
func (a *Aggregates) Magnetizations(rung int) []float64 { return a.mag.snapshot(rung) }

// Summarize reduces every rung with trimmed means over [lo, hi] and derives
// the Binder cumulant and correlation length. size and q come from the
// lattice geometry.
func (a *Aggregates) Summarize(lo, hi float64, size int, q float64) (*Report, error) {
	n := a.ladder.Rungs
	rep := &Report{
		Temperatures:       a.ladder.Temperatures(),
		Magnetizations:     make([]float64, n),
		Magnetizations2:    make([]float64, n),
		Magnetizations4:    make([]float64, n),
		BinderCumulants:    make([]float64, n),
		CorrelationLengths: make([]float64, n),
		Chi0:               make([]complex128, n),
		Chiq:               make([]complex128, n),
		Samples:            a.Counts(),
	}
	for i := 0; i < n; i++ {
		var err error
		if rep.Magnetizations[i], err = stats.TrimmedMean(a.mag.snapshot(i), lo, hi); err != nil {
			return nil, fmt.Errorf("rung %d magnetization: %w", i, err)
		}
		if rep.Magnetizations2[i], err = stats.TrimmedMean(a.mag2.snapshot(i), lo, hi); err != nil {
			return nil, fmt.Errorf("rung %d magnetization²: %w", i, err)
		}
		if rep.Magnetizations4[i], err = stats.TrimmedMean(a.mag4.snapshot(i), lo, hi); err != nil {
			return nil, fmt.Errorf("rung %d magnetization⁴: %w", i, err)
		}
		if rep.Chi0[i], err = stats.TrimmedMeanComplex(a.chi0.snapshot(i), lo, hi); err != nil {
			return nil, fmt.Errorf("rung %d chi0: %w", i, err)
		}
		if rep.Chiq[i], err = stats.TrimmedMeanComplex(a.chiq.snapshot(i), lo, hi); err != nil {
			return nil, fmt.Errorf("rung %d chiq: %w", i, err)
		}
		for _, m := range []float64{rep.Magnetizations[i], rep.Magnetizations2[i], rep.Magnetizations4[i]} {
			if !(m >= 0 && m <= 1) {
				return nil, fmt.Errorf("rung %d value %v: %w", i, m, trial.ErrMoment)
			}
		}
		rep.BinderCumulants[i] = stats.BinderCumulant(rep.Magnetizations2[i], rep.Magnetizations4[i])
		rep.CorrelationLengths[i] = stats.CorrelationLength(rep.Chi0[i], rep.Chiq[i], size, q)
	}
	return rep, nil
}
