package trial

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/lvising/checkpoint"
	"github.com/katalvlaran/lvising/lattice"
)

// Row is the per-rung result of one trial.
type Row = checkpoint.Row

// Result is the outcome of one trial.
type Result struct {
	Trial    int
	Rows     []Row
	Cycles   int // stability cycles; 0 in fixed-count mode
	Samples  int
	Counters lattice.Counters
	Duration time.Duration
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	store  *checkpoint.Store
	logger *slog.Logger
}

// WithCheckpoint persists the rows to store once the trial finishes.
func WithCheckpoint(store *checkpoint.Store) Option {
	return func(o *runOptions) { o.store = store }
}

// WithLogger sets the logger; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// accumulator holds the per-slot running sums of one trial.
type accumulator struct {
	mag, mag2, mag4 []float64
	k0              []float64
	kq              []complex128
	samples         int
}

func newAccumulator(rungs int) *accumulator {
	return &accumulator{
		mag:  make([]float64, rungs),
		mag2: make([]float64, rungs),
		mag4: make([]float64, rungs),
		k0:   make([]float64, rungs),
		kq:   make([]complex128, rungs),
	}
}

func (a *accumulator) sample(e *lattice.Ensemble) {
	for i := 0; i < e.Rungs(); i++ {
		r := e.Replica(i, 0)
		m := r.Magnetization()
		m2 := m * m
		if m < 0 {
			m = -m
		}
		a.mag[i] += m
		a.mag2[i] += m2
		a.mag4[i] += m2 * m2

		k0, kq := r.StructureFactor()
		a.k0[i] += k0
		a.kq[i] += kq
	}
	a.samples++
}

// Run executes one trial of index trial on e.
//
// Steps:
//  1. Warm-up: Preupdates ensemble sweeps.
//  2. Production: fixed count or stability seeking (see package doc).
//  3. Normalize and validate the moments.
//  4. Checkpoint the rows when a store is configured.
func Run(trial int, e *lattice.Ensemble, cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("trial %d: %w", trial, err)
	}
	o := runOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With(slog.Int("trial", trial))
	start := time.Now()

	for i := 0; i < cfg.Preupdates; i++ {
		e.Sweep()
	}

	acc := newAccumulator(e.Rungs())
	res := &Result{Trial: trial}
	if cfg.Updates > 0 {
		produce(e, acc, cfg.Updates, cfg.Skip)
	} else {
		res.Cycles = reachStability(e, cfg)
		power := min(res.Cycles, cfg.PowerMax)
		produce(e, acc, cfg.BaseUpdates<<power, cfg.Skip)
		log.Debug("stability reached", slog.Int("cycles", res.Cycles), slog.Int("power", power))
	}

	rows, err := finish(e, acc)
	if err != nil {
		return nil, fmt.Errorf("trial %d: %w", trial, err)
	}
	res.Rows = rows
	res.Samples = acc.samples
	res.Counters = e.Counters()
	res.Duration = time.Since(start)

	if o.store != nil {
		if err := o.store.Save(trial, rows); err != nil {
			return nil, err
		}
	}
	log.Debug("trial finished",
		slog.Int("samples", res.Samples),
		slog.Uint64("sweeps", res.Counters.Sweeps),
		slog.Duration("duration", res.Duration))
	return res, nil
}

func produce(e *lattice.Ensemble, acc *accumulator, samples, skip int) {
	for s := 0; s < samples; s++ {
		for k := 0; k < skip; k++ {
			e.Sweep()
		}
		acc.sample(e)
	}
}

// reachStability runs detector cycles until every rung is stable or
// MaxCycles is reached, and returns the last cycle number.
func reachStability(e *lattice.Ensemble, cfg Config) int {
	det := NewStabilityDetector(cfg.Window)
	samples := make([][]float64, e.Rungs())
	cycle := 1
	for {
		count := cfg.BaseUpdates << cycle
		for i := range samples {
			samples[i] = make([]float64, 0, count)
		}
		for s := 0; s < count; s++ {
			for k := 0; k < cfg.Skip; k++ {
				e.Sweep()
			}
			for i := range samples {
				samples[i] = append(samples[i], cfg.Observable.Measure(e.Replica(i, 0)))
			}
		}
		seeding := det.Cycles() < cfg.Window-1
		stable := det.Observe(samples)
		if !seeding && (stable || cycle >= cfg.MaxCycles) {
			return cycle
		}
		cycle++
	}
}

func finish(e *lattice.Ensemble, acc *accumulator) ([]Row, error) {
	n := float64(e.Properties().NumIndices())
	s := float64(acc.samples)
	rows := make([]Row, e.Rungs())
	for i := range rows {
		rows[i] = Row{
			Temperature: e.Temperature(i),
			AvgMag:      acc.mag[i] / s,
			AvgMag2:     acc.mag2[i] / s,
			AvgMag4:     acc.mag4[i] / s,
			Chi0:        complex(acc.k0[i]/(n*s), 0),
			Chiq:        acc.kq[i] / complex(n*s, 0),
		}
		for _, m := range []float64{rows[i].AvgMag, rows[i].AvgMag2, rows[i].AvgMag4} {
			if !(m >= 0 && m <= 1) {
				return nil, fmt.Errorf("rung %d value %v: %w", i, m, ErrMoment)
			}
		}
	}
	return rows, nil
}
