package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvising/checkpoint"
	"github.com/katalvlaran/lvising/hamiltonian"
	"github.com/katalvlaran/lvising/lattice"
	"github.com/katalvlaran/lvising/rng"
	"github.com/katalvlaran/lvising/trial"
	"github.com/katalvlaran/lvising/workerpool"
)

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records orchestrator activity on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Simulation) { s.metrics = m }
}

// WithRunID sets the identifier attached to every log line; a random UUID
// is used otherwise.
func WithRunID(id string) Option {
	return func(s *Simulation) {
		if id != "" {
			s.runID = id
		}
	}
}

// Simulation schedules the trials of one input file and aggregates their
// results. It owns all mutable cross-trial state: the checkpoint store, the
// input-file lock, and the aggregates.
type Simulation struct {
	cfg     Config
	ladder  lattice.Ladder
	mode    lattice.SweepMode
	policy  lattice.ClusterPolicy
	size    int
	q       float64
	shape   string
	kernel  string
	store   *checkpoint.Store
	agg     *Aggregates
	fileMu  sync.Mutex
	logger  *slog.Logger
	metrics *Metrics
	runID   string

	remaining []int
	restored  []int

	doneMu sync.Mutex
	done   []int // trials completed by Run in this process
}

// New validates cfg, checks the input against the declared shape, replays
// existing checkpoints and computes the trials still to run.
//
// Checkpoint files are parsed concurrently and ingested in trial order. A
// file for a trial outside [0, Trials), a duplicated trial, or rows that do
// not cover the ladder is a data-integrity error.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulation.New: %w", err)
	}
	s := &Simulation{
		cfg:    cfg,
		ladder: cfg.Ladder(),
		logger: slog.Default(),
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("run_id", s.runID))
	s.mode, _ = cfg.sweepMode()
	s.policy, _ = lattice.ParseClusterPolicy(cfg.ClusterPolicy)

	if _, err := os.Stat(cfg.Input); err != nil {
		return nil, fmt.Errorf("simulation.New: %v: %w", err, ErrInput)
	}
	g, err := hamiltonian.ReadFile(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("simulation.New: %w", err)
	}
	props, err := lattice.NewProperties(g, s.ladder, s.mode, nil)
	if err != nil {
		return nil, fmt.Errorf("simulation.New: %w", err)
	}
	s.size, s.q = props.Size(), props.Q()
	s.shape, s.kernel = props.Shape().Name(), props.KernelName()

	s.store = checkpoint.NewStore(cfg.Input)
	if cfg.Fresh {
		n, err := s.store.Clear()
		if err != nil {
			return nil, fmt.Errorf("simulation.New: %w", err)
		}
		s.logger.Info("discarded checkpoints", slog.Int("files", n))
	}
	if err := s.store.EnsureDir(); err != nil {
		return nil, fmt.Errorf("simulation.New: %w", err)
	}

	s.agg = NewAggregates(s.ladder)
	if err := s.replay(); err != nil {
		return nil, fmt.Errorf("simulation.New: %w", err)
	}
	done := make([]bool, cfg.Trials)
	for _, t := range s.restored {
		done[t] = true
	}
	for t := range done {
		if !done[t] {
			s.remaining = append(s.remaining, t)
		}
	}
	s.metrics.observeRestored(len(s.restored))

	s.logger.Info("simulation ready",
		slog.String("input", cfg.Input),
		slog.String("shape", s.shape),
		slog.String("kernel", s.kernel),
		slog.String("mode", s.mode.String()),
		slog.Int("indices", props.NumIndices()),
		slog.Int("rungs", s.ladder.Rungs),
		slog.Int("restored", len(s.restored)),
		slog.Int("remaining", len(s.remaining)))
	return s, nil
}

// replay loads every checkpoint of the store into the aggregates.
func (s *Simulation) replay() error {
	entries, err := s.store.Scan()
	if err != nil {
		return err
	}
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e.Trial < 0 || e.Trial >= s.cfg.Trials || seen[e.Trial] {
			return fmt.Errorf("%s (trial %d of %d): %w", e.Path, e.Trial, s.cfg.Trials, ErrUnexpectedTrial)
		}
		seen[e.Trial] = true
	}

	rows := make([][]trial.Row, len(entries))
	var g errgroup.Group
	g.SetLimit(workerpool.MaxWorkers())
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			r, err := checkpoint.Load(e.Path)
			if err != nil {
				return err
			}
			rows[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, e := range entries {
		if err := s.agg.Add(rows[i]); err != nil {
			return fmt.Errorf("%s: %w", e.Path, err)
		}
		s.restored = append(s.restored, e.Trial)
	}
	return nil
}

// Remaining returns the trial indices still to run, ascending.
func (s *Simulation) Remaining() []int { return slices.Clone(s.remaining) }

// Restored returns the trial indices replayed from checkpoints, ascending.
func (s *Simulation) Restored() []int { return slices.Clone(s.restored) }

// Aggregates exposes the per-rung samples collected so far.
func (s *Simulation) Aggregates() *Aggregates { return s.agg }

// Size returns the lattice size used by the correlation length.
func (s *Simulation) Size() int { return s.size }

// Q returns the structure-factor wavevector 2π/size.
func (s *Simulation) Q() float64 { return s.q }

// RunID returns the identifier attached to every log line.
func (s *Simulation) RunID() string { return s.runID }

// Run executes the remaining trials on a worker pool and summarizes every
// rung. Cancelling ctx stops trials that have not started; running trials
// finish and are checkpointed, so a later run resumes from them.
func (s *Simulation) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	if len(s.remaining) > 0 {
		workers := s.cfg.Workers
		if workers == 0 {
			workers = workerpool.WorkersFor(len(s.remaining))
		}
		pool := workerpool.New(workers)
		s.logger.Info("scheduling trials",
			slog.Int("trials", len(s.remaining)),
			slog.Int("workers", pool.Size()))

		for _, t := range s.remaining {
			t := t
			if err := pool.AddTask(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return s.runTrial(t)
			}); err != nil {
				_ = pool.Shutdown(false)
				return nil, fmt.Errorf("Simulation.Run: %w", err)
			}
		}
		err := pool.WaitAll()
		_ = pool.Shutdown(true)
		s.settle()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.logger.Warn("run interrupted; completed trials are checkpointed",
					slog.Int("remaining", len(s.remaining)))
			}
			return nil, fmt.Errorf("Simulation.Run: %w", err)
		}
	}

	for rung, n := range s.agg.Counts() {
		if n != s.cfg.Trials {
			return nil, fmt.Errorf("Simulation.Run: rung %d has %d samples, want %d: %w",
				rung, n, s.cfg.Trials, ErrIncomplete)
		}
	}
	rep, err := s.agg.Summarize(s.cfg.LowPercentile, s.cfg.HighPercentile, s.size, s.q)
	if err != nil {
		return nil, fmt.Errorf("Simulation.Run: %w", err)
	}
	s.logger.Info("simulation finished",
		slog.Int("trials", s.cfg.Trials),
		slog.Duration("duration", time.Since(start)))
	return rep, nil
}

// settle removes the trials completed by the last Run from the remaining
// list.
func (s *Simulation) settle() {
	s.doneMu.Lock()
	defer s.doneMu.Unlock()
	s.remaining = slices.DeleteFunc(s.remaining, func(t int) bool {
		return slices.Contains(s.done, t)
	})
}

// Completed returns the trials finished by Run in this process, ascending.
func (s *Simulation) Completed() []int {
	s.doneMu.Lock()
	defer s.doneMu.Unlock()
	out := slices.Clone(s.done)
	slices.Sort(out)
	return out
}

// runTrial builds a private graph and ensemble for trial t, runs it and
// merges its rows.
func (s *Simulation) runTrial(t int) error {
	s.fileMu.Lock()
	g, err := hamiltonian.ReadFile(s.cfg.Input)
	s.fileMu.Unlock()
	if err != nil {
		return fmt.Errorf("trial %d: %w", t, err)
	}

	opts := []lattice.Option{
		lattice.WithSeed(rng.DeriveSeed(s.cfg.Seed, uint64(t))),
		lattice.WithClusterPolicy(s.policy),
	}
	if s.cfg.Junction > 0 {
		opts = append(opts, lattice.WithJunction(s.cfg.Junction))
	}
	e, err := lattice.NewEnsemble(g, s.ladder, s.mode, opts...)
	if err != nil {
		return fmt.Errorf("trial %d: %w", t, err)
	}

	res, err := trial.Run(t, e, s.cfg.Trial,
		trial.WithCheckpoint(s.store),
		trial.WithLogger(s.logger))
	if err != nil {
		return err
	}
	if err := s.agg.Add(res.Rows); err != nil {
		return fmt.Errorf("trial %d: %w", t, err)
	}
	s.doneMu.Lock()
	s.done = append(s.done, t)
	s.doneMu.Unlock()
	s.metrics.observeTrial(res)
	s.logger.Info("trial complete",
		slog.Int("trial", t),
		slog.Int("samples", res.Samples),
		slog.Int("cycles", res.Cycles),
		slog.Duration("duration", res.Duration))
	return nil
}
