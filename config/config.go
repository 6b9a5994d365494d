// Package config loads the lvising run configuration.
//
// Priority (lowest to highest): defaults, YAML file, LVISING_* environment
// variables, caller overrides (command-line flags). The merged result is
// validated before it is returned.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvising/simerr"
	"github.com/katalvlaran/lvising/simulation"
	"github.com/katalvlaran/lvising/trial"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LVISING_"

var (
	// ErrFile is returned for an unreadable or malformed config file.
	ErrFile = simerr.Sentinel("config", "unreadable config file", simerr.ErrConfiguration)

	// ErrEnv is returned for an environment override that does not parse.
	ErrEnv = simerr.Sentinel("config", "malformed environment override", simerr.ErrConfiguration)

	// ErrLog is returned for an unknown log level or format.
	ErrLog = simerr.Sentinel("config", "invalid log settings", simerr.ErrConfiguration)
)

// Config is the full configuration of the lvising binary.
type Config struct {
	Simulation simulation.Config      `yaml:"simulation"`
	Outputs    simulation.OutputNames `yaml:"outputs"`
	Log        LogConfig              `yaml:"log"`
	Metrics    MetricsConfig          `yaml:"metrics"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address of /metrics; empty disables the endpoint.
	Addr string `yaml:"addr"`
}

// Override mutates a loaded configuration before validation.
type Override func(*Config)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Simulation: simulation.DefaultConfig(),
		Outputs:    simulation.DefaultOutputNames(),
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// Load merges defaults, the YAML file at path (skipped when path is empty),
// the environment, and overrides, then validates the result.
func Load(path string, overrides ...Override) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %v: %w", err, ErrFile)
		}
		if err := Decode(bytes.NewReader(data), &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Decode reads YAML from r into cfg. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%v: %w", err, ErrFile)
	}
	return nil
}

// Encode writes cfg as YAML.
func Encode(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// ApplyEnv applies LVISING_* overrides found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	s := &cfg.Simulation
	strs := map[string]*string{
		"INPUT":          &s.Input,
		"MODE":           &s.Mode,
		"CLUSTER_POLICY": &s.ClusterPolicy,
		"LOG_LEVEL":      &cfg.Log.Level,
		"LOG_FORMAT":     &cfg.Log.Format,
		"METRICS_ADDR":   &cfg.Metrics.Addr,
	}
	ints := map[string]*int{
		"RUNGS":        &s.Rungs,
		"TRIALS":       &s.Trials,
		"WORKERS":      &s.Workers,
		"UPDATES":      &s.Trial.Updates,
		"PREUPDATES":   &s.Trial.Preupdates,
		"SKIP":         &s.Trial.Skip,
		"BASE_UPDATES": &s.Trial.BaseUpdates,
		"MAX_CYCLES":   &s.Trial.MaxCycles,
		"WINDOW":       &s.Trial.Window,
		"POWER_MAX":    &s.Trial.PowerMax,
	}
	floats := map[string]*float64{
		"MIN_TEMPERATURE":  &s.MinTemperature,
		"TEMPERATURE_STEP": &s.TemperatureStep,
		"LOW_PERCENTILE":   &s.LowPercentile,
		"HIGH_PERCENTILE":  &s.HighPercentile,
		"JUNCTION":         &s.Junction,
	}

	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s=%q: %w", EnvPrefix, key, v, ErrEnv)
			}
			*dst = i
		}
	}
	for key, dst := range floats {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s%s=%q: %w", EnvPrefix, key, v, ErrEnv)
			}
			*dst = f
		}
	}
	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED=%q: %w", EnvPrefix, v, ErrEnv)
		}
		s.Seed = seed
	}
	if v, ok := lookup(EnvPrefix + "FRESH"); ok {
		fresh, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sFRESH=%q: %w", EnvPrefix, v, ErrEnv)
		}
		s.Fresh = fresh
	}
	if v, ok := lookup(EnvPrefix + "OBSERVABLE"); ok {
		s.Trial.Observable = trial.Observable(v)
	}
	return nil
}

// Validate checks the log settings and the simulation parameters.
func (c Config) Validate() error {
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format %q: %w", c.Log.Format, ErrLog)
	}
	return c.Simulation.Validate()
}

func (c LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.Level, ErrLog)
	}
	return lvl, nil
}

// NewLogger builds the slog logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch c.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q: %w", c.Format, ErrLog)
	}
}
