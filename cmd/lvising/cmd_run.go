package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvising/config"
	"github.com/katalvlaran/lvising/rng"
	"github.com/katalvlaran/lvising/simerr"
	"github.com/katalvlaran/lvising/simulation"
)

// errArgs marks a malformed positional argument.
var errArgs = simerr.Sentinel("lvising", "invalid argument", simerr.ErrConfiguration)

type runFlags struct {
	input          string
	minTemp        float64
	step           float64
	rungs          int
	updates        int
	trials         int
	mode           string
	seed           uint64
	timeSeed       bool
	workers        int
	fresh          bool
	metricsAddr    string
	clusterPolicy  string
	junction       float64
	lowPercentile  float64
	highPercentile float64
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [file minT dT rungs updates trials mode]",
		Short: "Run the remaining trials and write the result files",
		Long: `Run samples every remaining trial of the Hamiltonian file, resuming from
checkpoints in temp/ next to it, then writes magnetizations/,
binder_cumulants/ and correlation_functions/ result files.

updates = 0 selects stability-seeking production; mode is a (all),
p (pseudo-random order) or r (random with replacement).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 1 && len(args) != 7 {
				return fmt.Errorf("want 0, 1 or 7 positional arguments, got %d: %w", len(args), errArgs)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := runOverrides(cmd, g, f, args)
			if err != nil {
				return err
			}
			cfg, err := config.Load(g.configPath, overrides...)
			if err != nil {
				return err
			}
			return execRun(cmd, cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "Hamiltonian file")
	fl.Float64Var(&f.minTemp, "min-temp", 0, "lowest rung temperature")
	fl.Float64Var(&f.step, "step", 0, "temperature increment between rungs")
	fl.IntVar(&f.rungs, "rungs", 0, "number of temperature rungs")
	fl.IntVar(&f.updates, "updates", 0, "samples per trial; 0 seeks stability")
	fl.IntVar(&f.trials, "trials", 0, "number of independent trials")
	fl.StringVar(&f.mode, "mode", "", "sweep mode: a, p or r")
	fl.Uint64Var(&f.seed, "seed", 0, "root seed of every trial stream")
	fl.BoolVar(&f.timeSeed, "time-seed", false, "seed from the clock; resumed runs then draw new streams")
	fl.IntVar(&f.workers, "workers", 0, "worker threads; 0 sizes the pool from the remaining trials")
	fl.BoolVar(&f.fresh, "fresh", false, "discard existing checkpoints")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fl.StringVar(&f.clusterPolicy, "cluster-policy", "", "Houdayer rungs: below-junction, all or none")
	fl.Float64Var(&f.junction, "junction", 0, "junction temperature for cluster moves")
	fl.Float64Var(&f.lowPercentile, "low-percentile", 0, "lower trimmed-mean percentile")
	fl.Float64Var(&f.highPercentile, "high-percentile", 0, "upper trimmed-mean percentile")
	return cmd
}

// runOverrides turns positional arguments and changed flags into config
// overrides. Flags win over positional arguments.
func runOverrides(cmd *cobra.Command, g *globalFlags, f *runFlags, args []string) ([]config.Override, error) {
	var out []config.Override
	if len(args) >= 1 {
		input := args[0]
		out = append(out, func(c *config.Config) { c.Simulation.Input = input })
	}
	if len(args) == 7 {
		minT, err1 := strconv.ParseFloat(args[1], 64)
		step, err2 := strconv.ParseFloat(args[2], 64)
		rungs, err3 := strconv.Atoi(args[3])
		updates, err4 := strconv.Atoi(args[4])
		trials, err5 := strconv.Atoi(args[5])
		if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
			return nil, fmt.Errorf("%v: %w", err, errArgs)
		}
		mode := args[6]
		out = append(out, func(c *config.Config) {
			s := &c.Simulation
			s.MinTemperature, s.TemperatureStep, s.Rungs = minT, step, rungs
			s.Trial.Updates, s.Trials, s.Mode = updates, trials, mode
		})
	}

	changed := cmd.Flags().Changed
	set := func(name string, fn config.Override) {
		if changed(name) {
			out = append(out, fn)
		}
	}
	set("input", func(c *config.Config) { c.Simulation.Input = f.input })
	set("min-temp", func(c *config.Config) { c.Simulation.MinTemperature = f.minTemp })
	set("step", func(c *config.Config) { c.Simulation.TemperatureStep = f.step })
	set("rungs", func(c *config.Config) { c.Simulation.Rungs = f.rungs })
	set("updates", func(c *config.Config) { c.Simulation.Trial.Updates = f.updates })
	set("trials", func(c *config.Config) { c.Simulation.Trials = f.trials })
	set("mode", func(c *config.Config) { c.Simulation.Mode = f.mode })
	set("seed", func(c *config.Config) { c.Simulation.Seed = f.seed })
	set("workers", func(c *config.Config) { c.Simulation.Workers = f.workers })
	set("fresh", func(c *config.Config) { c.Simulation.Fresh = f.fresh })
	set("metrics-addr", func(c *config.Config) { c.Metrics.Addr = f.metricsAddr })
	set("cluster-policy", func(c *config.Config) { c.Simulation.ClusterPolicy = f.clusterPolicy })
	set("junction", func(c *config.Config) { c.Simulation.Junction = f.junction })
	set("low-percentile", func(c *config.Config) { c.Simulation.LowPercentile = f.lowPercentile })
	set("high-percentile", func(c *config.Config) { c.Simulation.HighPercentile = f.highPercentile })
	if f.timeSeed {
		out = append(out, func(c *config.Config) { c.Simulation.Seed = rng.TimeSeed() })
	}
	if g.logLevel != "" {
		out = append(out, func(c *config.Config) { c.Log.Level = g.logLevel })
	}
	if g.logFormat != "" {
		out = append(out, func(c *config.Config) { c.Log.Format = g.logFormat })
	}
	return out, nil
}

func execRun(cmd *cobra.Command, cfg config.Config) error {
	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	logger.Info("starting run",
		slog.String("run_id", runID),
		slog.String("version", version),
		slog.Uint64("seed", cfg.Simulation.Seed))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := simulation.New(cfg.Simulation,
		simulation.WithLogger(logger),
		simulation.WithMetrics(simulation.NewMetrics(reg)),
		simulation.WithRunID(runID))
	if err != nil {
		return err
	}
	rep, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	paths, err := simulation.WriteReport(cfg.Simulation.Input, rep, cfg.Outputs)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Info("wrote results", slog.String("path", p))
	}
	return printReport(cmd, rep)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint failed", slog.String("addr", addr), slog.Any("error", err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", addr))
	return srv
}

func printReport(cmd *cobra.Command, rep *simulation.Report) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "temperature\t|m|\tbinder\tcorrelation length")
	for i, t := range rep.Temperatures {
		fmt.Fprintf(w, "%g\t%.6f\t%.6f\t%.6f\n",
			t, rep.Magnetizations[i], rep.BinderCumulants[i], rep.CorrelationLengths[i])
	}
	return w.Flush()
}
