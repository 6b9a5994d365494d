package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvising/config"
	"github.com/katalvlaran/lvising/simerr"
	"github.com/katalvlaran/lvising/trial"
)

func withInput(path string) config.Override {
	return func(c *config.Config) { c.Simulation.Input = path }
}

// TestLoad_Defaults needs only an input file to validate.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", withInput("h.csv"))
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, 1, cfg.Simulation.Rungs)
	require.Equal(t, trial.DefaultConfig(), cfg.Simulation.Trial)
	require.Equal(t, "magnetizations", cfg.Outputs.Magnetizations)

	_, err = config.Load("")
	require.ErrorIs(t, err, simerr.ErrConfiguration, "input is required")
}

// TestLoad_Priority layers file, environment and overrides.
func TestLoad_Priority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lvising.yaml")
	yml := `
simulation:
  input: from-file.csv
  min_temperature: 0.5
  temperature_step: 0.25
  rungs: 8
  trials: 4
  mode: r
  trial:
    updates: 100
log:
  level: debug
  format: json
metrics:
  addr: ":9100"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("LVISING_TRIALS", "6")
	t.Setenv("LVISING_SEED", "42")
	t.Setenv("LVISING_HIGH_PERCENTILE", "0.9")

	cfg, err := config.Load(path, func(c *config.Config) { c.Simulation.Rungs = 3 })
	require.NoError(t, err)

	s := cfg.Simulation
	assert.Equal(t, "from-file.csv", s.Input)
	assert.Equal(t, 0.5, s.MinTemperature)
	assert.Equal(t, 0.25, s.TemperatureStep)
	assert.Equal(t, 3, s.Rungs, "override beats file")
	assert.Equal(t, 6, s.Trials, "environment beats file")
	assert.Equal(t, uint64(42), s.Seed)
	assert.Equal(t, 0.9, s.HighPercentile)
	assert.Equal(t, "r", s.Mode)
	assert.Equal(t, 100, s.Trial.Updates)
	assert.Equal(t, trial.DefaultSkip, s.Trial.Skip, "unset nested keys keep defaults")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

// TestLoad_Errors covers unreadable files, unknown keys, bad env values and
// invalid log settings.
func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := config.Load(filepath.Join(dir, "missing.yaml"), withInput("h.csv"))
	require.ErrorIs(t, err, config.ErrFile)

	typo := filepath.Join(dir, "typo.yaml")
	require.NoError(t, os.WriteFile(typo, []byte("simulation:\n  trails: 3\n"), 0o644))
	_, err = config.Load(typo, withInput("h.csv"))
	require.ErrorIs(t, err, config.ErrFile)

	t.Setenv("LVISING_RUNGS", "many")
	_, err = config.Load("", withInput("h.csv"))
	require.ErrorIs(t, err, config.ErrEnv)
	require.ErrorIs(t, err, simerr.ErrConfiguration)
	t.Setenv("LVISING_RUNGS", "2")

	_, err = config.Load("", withInput("h.csv"), func(c *config.Config) { c.Log.Format = "xml" })
	require.ErrorIs(t, err, config.ErrLog)
	_, err = config.Load("", withInput("h.csv"), func(c *config.Config) { c.Log.Level = "loud" })
	require.ErrorIs(t, err, config.ErrLog)
}

// TestEncode_Decode round-trips the YAML form.
func TestEncode_Decode(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Input = "x.csv"
	cfg.Simulation.Seed = 7

	var buf bytes.Buffer
	require.NoError(t, config.Encode(&buf, cfg))
	require.True(t, strings.Contains(buf.String(), "min_temperature:"))

	back := config.Default()
	require.NoError(t, config.Decode(&buf, &back))
	require.Equal(t, cfg, back)
}

// TestApplyEnv_Lookup uses an injected lookup instead of the process env.
func TestApplyEnv_Lookup(t *testing.T) {
	env := map[string]string{
		"LVISING_MODE":       "a",
		"LVISING_FRESH":      "true",
		"LVISING_OBSERVABLE": "energy",
		"LVISING_JUNCTION":   "1.25",
		"LVISING_WINDOW":     "4",
		"LVISING_POWER_MAX":  "7",
		"LVISING_MAX_CYCLES": "12",
	}
	cfg := config.Default()
	require.NoError(t, config.ApplyEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	require.Equal(t, "a", cfg.Simulation.Mode)
	require.True(t, cfg.Simulation.Fresh)
	require.Equal(t, trial.ObserveEnergy, cfg.Simulation.Trial.Observable)
	require.Equal(t, 1.25, cfg.Simulation.Junction)
	require.Equal(t, 4, cfg.Simulation.Trial.Window)
	require.Equal(t, 7, cfg.Simulation.Trial.PowerMax)
	require.Equal(t, 12, cfg.Simulation.Trial.MaxCycles)
	require.NoError(t, cfg.Simulation.Trial.Validate())

	bad := config.Default()
	err := config.ApplyEnv(&bad, func(k string) (string, bool) {
		if k == "LVISING_FRESH" {
			return "maybe", true
		}
		return "", false
	})
	require.ErrorIs(t, err, config.ErrEnv)

	err = config.ApplyEnv(&bad, func(k string) (string, bool) {
		if k == "LVISING_POWER_MAX" {
			return "lots", true
		}
		return "", false
	})
	require.ErrorIs(t, err, config.ErrEnv)
}

// TestNewLogger honors level and format.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := config.LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", slog.Int("trial", 3))
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"trial":3`)

	_, err = config.LogConfig{Level: "info", Format: "xml"}.NewLogger(&buf)
	require.ErrorIs(t, err, config.ErrLog)
}
