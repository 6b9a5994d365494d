package simulation_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvising/builder"
	"github.com/katalvlaran/lvising/checkpoint"
	"github.com/katalvlaran/lvising/hamiltonian"
	"github.com/katalvlaran/lvising/simerr"
	"github.com/katalvlaran/lvising/simulation"
	"github.com/katalvlaran/lvising/trial"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// writeSquare writes a periodic 4×4 ferromagnet into dir and returns its
// path.
func writeSquare(t *testing.T, dir string) string {
	t.Helper()
	g, err := builder.BuildHamiltonian(nil, builder.Square(4))
	require.NoError(t, err)
	path := filepath.Join(dir, "square.csv")
	require.NoError(t, hamiltonian.WriteFile(path, g))
	return path
}

func testConfig(input string) simulation.Config {
	cfg := simulation.DefaultConfig()
	cfg.Input = input
	cfg.MinTemperature = 1.5
	cfg.TemperatureStep = 1
	cfg.Rungs = 2
	cfg.Trials = 3
	cfg.Mode = "p"
	cfg.Seed = 11
	cfg.Workers = 2
	cfg.Trial = trial.Config{
		Preupdates:  5,
		Updates:     20,
		Skip:        1,
		BaseUpdates: 5,
		MaxCycles:   10,
		Window:      3,
		PowerMax:    5,
		Observable:  trial.ObserveMagnetization,
	}
	return cfg
}

func runAll(t *testing.T, cfg simulation.Config) *simulation.Report {
	t.Helper()
	sim, err := simulation.New(cfg, simulation.WithLogger(quiet))
	require.NoError(t, err)
	rep, err := sim.Run(context.Background())
	require.NoError(t, err)
	return rep
}

// TestConfig_Validate classifies every rejected parameter as a
// configuration error.
func TestConfig_Validate(t *testing.T) {
	base := testConfig("in.csv")
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*simulation.Config)
	}{
		{"no input", func(c *simulation.Config) { c.Input = "" }},
		{"no trials", func(c *simulation.Config) { c.Trials = 0 }},
		{"too many workers", func(c *simulation.Config) { c.Workers = 33 }},
		{"bad mode", func(c *simulation.Config) { c.Mode = "x" }},
		{"long mode", func(c *simulation.Config) { c.Mode = "ap" }},
		{"percentile", func(c *simulation.Config) { c.HighPercentile = 1.5 }},
		{"cluster policy", func(c *simulation.Config) { c.ClusterPolicy = "sometimes" }},
		{"zero rungs", func(c *simulation.Config) { c.Rungs = 0 }},
		{"negative junction", func(c *simulation.Config) { c.Junction = -1 }},
		{"trial schedule", func(c *simulation.Config) { c.Trial.Skip = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), simerr.ErrConfiguration)
		})
	}
}

// TestNew_InputErrors covers a missing file and a non-square lattice
// declared square.
func TestNew_InputErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := simulation.New(testConfig(filepath.Join(dir, "missing.csv")), simulation.WithLogger(quiet))
	require.ErrorIs(t, err, simulation.ErrInput)
	require.ErrorIs(t, err, simerr.ErrConfiguration)

	g, err := hamiltonian.New([][]int{{1, 0, 1}, {1, 1, 2}}, hamiltonian.WithShape('s'))
	require.NoError(t, err)
	path := filepath.Join(dir, "bad.csv")
	require.NoError(t, hamiltonian.WriteFile(path, g))
	_, err = simulation.New(testConfig(path), simulation.WithLogger(quiet))
	require.ErrorIs(t, err, simerr.ErrConfiguration)
}

// TestRun_Complete runs every trial and checks the report shape and the
// checkpoint side effects.
func TestRun_Complete(t *testing.T) {
	input := writeSquare(t, t.TempDir())
	cfg := testConfig(input)

	reg := prometheus.NewRegistry()
	sim, err := simulation.New(cfg,
		simulation.WithLogger(quiet),
		simulation.WithMetrics(simulation.NewMetrics(reg)),
		simulation.WithRunID("test-run"))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, sim.Remaining())
	require.Empty(t, sim.Restored())
	require.Equal(t, "test-run", sim.RunID())
	require.Equal(t, 4, sim.Size())

	rep, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2.5}, rep.Temperatures)
	require.Equal(t, []int{3, 3}, rep.Samples)
	for i := range rep.Temperatures {
		assert.GreaterOrEqual(t, rep.Magnetizations[i], 0.0)
		assert.LessOrEqual(t, rep.Magnetizations[i], 1.0)
		assert.GreaterOrEqual(t, real(rep.Chi0[i]), 0.0)
	}
	require.Equal(t, []int{0, 1, 2}, sim.Completed())
	require.Empty(t, sim.Remaining())

	store := checkpoint.NewStore(input)
	entries, err := store.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	families, err := reg.Gather()
	require.NoError(t, err)
	completed := 0.0
	for _, mf := range families {
		if mf.GetName() == "lvising_trial_completed_total" {
			completed = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	require.Equal(t, 3.0, completed)

	// A second Run has nothing left to schedule and reports the same data.
	again, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, rep.Magnetizations, again.Magnetizations)
}

// TestRun_ResumeIsIdempotent stops after two of three trials and reruns:
// the report must equal the uninterrupted run.
func TestRun_ResumeIsIdempotent(t *testing.T) {
	full := runAll(t, testConfig(writeSquare(t, t.TempDir())))

	input := writeSquare(t, t.TempDir())
	cfg := testConfig(input)
	runAll(t, cfg)
	require.NoError(t, checkpoint.NewStore(input).Remove(2))

	sim, err := simulation.New(cfg, simulation.WithLogger(quiet))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, sim.Restored())
	require.Equal(t, []int{2}, sim.Remaining())

	resumed, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{2}, sim.Completed())

	assert.Equal(t, full.Magnetizations, resumed.Magnetizations)
	assert.Equal(t, full.Magnetizations2, resumed.Magnetizations2)
	assert.Equal(t, full.Magnetizations4, resumed.Magnetizations4)
	assert.Equal(t, full.Chi0, resumed.Chi0)
	assert.Equal(t, full.Chiq, resumed.Chiq)
	assert.Equal(t, fmt.Sprint(full.BinderCumulants), fmt.Sprint(resumed.BinderCumulants))
	assert.Equal(t, fmt.Sprint(full.CorrelationLengths), fmt.Sprint(resumed.CorrelationLengths))
}

// TestNew_RejectsBadCheckpoints: an unexpected trial file or a file missing
// a rung is a data-integrity error.
func TestNew_RejectsBadCheckpoints(t *testing.T) {
	input := writeSquare(t, t.TempDir())
	cfg := testConfig(input)
	runAll(t, cfg)
	store := checkpoint.NewStore(input)

	rows, err := checkpoint.Load(store.Path(1))
	require.NoError(t, err)

	require.NoError(t, store.Save(7, rows))
	_, err = simulation.New(cfg, simulation.WithLogger(quiet))
	require.ErrorIs(t, err, simulation.ErrUnexpectedTrial)
	require.ErrorIs(t, err, simerr.ErrDataIntegrity)
	require.NoError(t, store.Remove(7))

	require.NoError(t, store.Save(1, rows[:1]))
	_, err = simulation.New(cfg, simulation.WithLogger(quiet))
	require.ErrorIs(t, err, simulation.ErrRowCount)
	require.ErrorIs(t, err, simerr.ErrDataIntegrity)

	bad := append([]checkpoint.Row(nil), rows...)
	bad[0].AvgMag = 1.5
	require.NoError(t, store.Save(1, bad))
	_, err = simulation.New(cfg, simulation.WithLogger(quiet))
	require.ErrorIs(t, err, trial.ErrMoment)

	cfg.Fresh = true
	sim, err := simulation.New(cfg, simulation.WithLogger(quiet))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, sim.Remaining())
}

// TestRun_Cancelled schedules nothing once the context is done.
func TestRun_Cancelled(t *testing.T) {
	input := writeSquare(t, t.TempDir())
	sim, err := simulation.New(testConfig(input), simulation.WithLogger(quiet))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []int{0, 1, 2}, sim.Remaining())

	entries, err := checkpoint.NewStore(input).Scan()
	require.NoError(t, err)
	require.Empty(t, entries)
}

// TestWriteReport writes the three result files next to the input.
func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lattice.csv")
	rep := &simulation.Report{
		Temperatures:       []float64{1, 1.5},
		Magnetizations:     []float64{0.9, 0.25},
		BinderCumulants:    []float64{0.6, 0.1},
		CorrelationLengths: []float64{2, 0.5},
	}
	paths, err := simulation.WriteReport(input, rep, simulation.OutputNames{Correlations: "correlation_lengths"})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "magnetizations", "lattice.csv"),
		filepath.Join(dir, "binder_cumulants", "lattice.csv"),
		filepath.Join(dir, "correlation_lengths", "lattice.csv"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.Equal(t, "temperature,result\n1,0.9\n1.5,0.25\n", string(data))

	require.Equal(t, filepath.Join("a", "b", "m", "in.csv"), simulation.OutputPath(filepath.Join("a", "b", "in.csv"), "m"))
}
