package simulation

import (
	"fmt"

	"github.com/katalvlaran/lvising/lattice"
	"github.com/katalvlaran/lvising/simerr"
	"github.com/katalvlaran/lvising/stats"
	"github.com/katalvlaran/lvising/trial"
	"github.com/katalvlaran/lvising/workerpool"
)

var (
	// ErrConfig is returned by Config.Validate.
	ErrConfig = simerr.Sentinel("simulation", "invalid configuration", simerr.ErrConfiguration)

	// ErrInput is returned when the Hamiltonian file cannot be opened.
	ErrInput = simerr.Sentinel("simulation", "input file unavailable", simerr.ErrConfiguration)

	// ErrUnexpectedTrial is returned for a checkpoint whose trial index is
	// not in the expected set, or that appears twice.
	ErrUnexpectedTrial = simerr.Sentinel("simulation", "unexpected checkpoint trial", simerr.ErrDataIntegrity)

	// ErrRowCount is returned for a checkpoint whose rows do not cover the
	// ladder exactly once.
	ErrRowCount = simerr.Sentinel("simulation", "checkpoint rows do not match the ladder", simerr.ErrDataIntegrity)

	// ErrIncomplete is returned when a rung ends up with fewer or more
	// samples than declared trials.
	ErrIncomplete = simerr.Sentinel("simulation", "sample count differs from trial count", simerr.ErrDataIntegrity)
)

// Config is the full parameter set of one simulation.
type Config struct {
	// Input is the Hamiltonian file; checkpoints and outputs live next to it.
	Input string `yaml:"input"`

	MinTemperature  float64 `yaml:"min_temperature"`
	TemperatureStep float64 `yaml:"temperature_step"`
	Rungs           int     `yaml:"rungs"`
	Trials          int     `yaml:"trials"`

	// Mode is the sweep mode letter: a, p or r.
	Mode string `yaml:"mode"`

	// Seed is the root of every per-trial stream.
	Seed uint64 `yaml:"seed"`

	// Workers is the pool size; 0 sizes the pool from the remaining trials.
	Workers int `yaml:"workers"`

	// Trimmed-mean percentile band.
	LowPercentile  float64 `yaml:"low_percentile"`
	HighPercentile float64 `yaml:"high_percentile"`

	// ClusterPolicy is one of below-junction, all, none.
	ClusterPolicy string `yaml:"cluster_policy"`
	// Junction overrides the junction temperature when positive.
	Junction float64 `yaml:"junction"`

	// Fresh discards existing checkpoints instead of resuming.
	Fresh bool `yaml:"fresh"`

	Trial trial.Config `yaml:"trial"`
}

// DefaultConfig returns a one-rung, one-trial configuration with the
// default schedule; Input must still be set.
func DefaultConfig() Config {
	return Config{
		MinTemperature:  1,
		TemperatureStep: 0.1,
		Rungs:           1,
		Trials:          1,
		Mode:            string(rune(lattice.Pseudo)),
		LowPercentile:   stats.DefaultLowPercentile,
		HighPercentile:  stats.DefaultHighPercentile,
		ClusterPolicy:   lattice.ClusterBelowJunction.String(),
		Trial:           trial.DefaultConfig(),
	}
}

// Ladder returns the temperature ladder described by c.
func (c Config) Ladder() lattice.Ladder {
	return lattice.Ladder{Min: c.MinTemperature, Step: c.TemperatureStep, Rungs: c.Rungs}
}

// Validate checks every parameter that does not need the input file.
func (c Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input file not set: %w", ErrConfig)
	}
	if c.Trials < 1 {
		return fmt.Errorf("trials %d: %w", c.Trials, ErrConfig)
	}
	if c.Workers < 0 || c.Workers > workerpool.MaxThreads {
		return fmt.Errorf("workers %d outside [0,%d]: %w", c.Workers, workerpool.MaxThreads, ErrConfig)
	}
	if c.Junction < 0 {
		return fmt.Errorf("junction %v: %w", c.Junction, ErrConfig)
	}
	if err := c.Ladder().Validate(); err != nil {
		return err
	}
	if _, err := c.sweepMode(); err != nil {
		return err
	}
	if _, err := lattice.ParseClusterPolicy(c.ClusterPolicy); err != nil {
		return err
	}
	for _, p := range []float64{c.LowPercentile, c.HighPercentile} {
		if !(p >= 0 && p <= 1) {
			return fmt.Errorf("percentile %v: %w", p, stats.ErrPercentile)
		}
	}
	return c.Trial.Validate()
}

func (c Config) sweepMode() (lattice.SweepMode, error) {
	if len(c.Mode) != 1 {
		return 0, fmt.Errorf("mode %q: %w", c.Mode, lattice.ErrSweepMode)
	}
	return lattice.ParseSweepMode(c.Mode[0])
}
