package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/experiment"
	"github.com/san-kum/nbodysim/internal/export"
	"github.com/san-kum/nbodysim/internal/integrators"
	"github.com/san-kum/nbodysim/internal/logging"
	"github.com/san-kum/nbodysim/internal/sim"
	"github.com/san-kum/nbodysim/internal/storage"
	"github.com/san-kum/nbodysim/internal/viz"
)

const sampleBodies = 10

// resolveConfig layers the sources: defaults, then preset, then config
// file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.InitState.NumBodies = numBodies
		cfg.InitState.Bodies = nil
		cfg.InitState.File = ""
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("softening") {
		cfg.Softening = softening
	}
	if flags.Changed("equal-mass") {
		cfg.InitState.EqualMass = equalMass
	}
	if flags.Changed("init-vel") {
		cfg.InitState.InitVel = initVel
	}
	if flags.Changed("scale") {
		cfg.InitState.Scale = scale
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("init-file") {
		cfg.InitState.File = initFile
		cfg.InitState.Bodies = nil
	}
	if flags.Changed("fps") {
		cfg.View.FPS = frameRate
	}
	if flags.Changed("view-lim") {
		cfg.View.ViewLim = viewLim
	}
	if flags.Changed("autoscroll") {
		cfg.View.Autoscroll = autoscroll
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(logLevel, os.Stderr)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exp := experiment.New(cfg, logger)
	if logging.ParseLevel(logLevel) <= logging.LevelTrace {
		exp.AddObserver(sim.NewStepTracer(logger, 1))
	}
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("running n-body simulation (%s, dt=%g, time=%g)...\n", exp.Integrator(), cfg.Dt, cfg.Duration)
	start := time.Now()

	out, err := exp.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) && out != nil {
			return fmt.Errorf("interrupted after %d steps: %w", out.Result.StepsTaken, err)
		}
		return err
	}
	elapsed := time.Since(start)

	if out.Report.Warning != nil {
		logger.Warn("initial conditions replaced by a random system",
			"err", out.Report.Warning, "n", out.Report.N)
	}

	result := out.Result
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("bodies: %d\n", result.Bodies())
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printFinalState(result)
	printMetrics(result)

	if csvOut != "" {
		if err := export.WriteTrajectoryFile(csvOut, result); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Printf("trajectory written to %s\n", csvOut)
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := storage.NewRunMetadata(cfg.SimConfig(), exp.Integrator(), out.Initial.Mass)
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if visualize {
		return viz.Animate(result, out.Initial.Mass, viz.Options{
			FPS:        cfg.View.FPS,
			ViewLim:    cfg.View.ViewLim,
			Autoscroll: cfg.View.Autoscroll,
			GIFPath:    gifPath,
			Logger:     logger,
		})
	}
	return nil
}

func printFinalState(r *dynamo.Result) {
	last := r.Steps()
	n := min(sampleBodies, r.Bodies())
	fmt.Println("\nFinal state sample:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tX\tY\tZ\tVX\tVY\tVZ")
	for i := 0; i < n; i++ {
		p, v := r.Position(last, i), r.Velocity(last, i)
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", i, p[0], p[1], p[2], v[0], v[1], v[2])
	}
	w.Flush()
	if r.Bodies() > n {
		fmt.Printf("... %d more\n", r.Bodies()-n)
	}
}

func printMetrics(r *dynamo.Result) {
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, r.Metrics[name])
	}
	fmt.Printf("  energy_drift (final): %.3e\n", r.EnergyDrift)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Printf("comparing integrators for %d bodies (dt=%.4f, time=%.1f, seed=%d)\n\n", numBodies, dt, duration, seed)
	fmt.Printf("%-12s  %-12s  %-14s  %-12s\n", "integrator", "energy_drift", "momentum_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 56))

	for _, name := range names {
		cfg := config.DefaultConfig()
		cfg.InitState.NumBodies = numBodies
		cfg.InitState.InitVel = initVel
		cfg.Dt = dt
		cfg.Duration = duration
		cfg.Seed = seed
		cfg.Integrator = name

		exp := experiment.New(cfg, logging.Discard())
		if err := exp.Setup(); err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		out, err := exp.Run(cmd.Context())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-12s  %12.2e  %14.2e  %12.2f\n", name,
			out.Result.EnergyDrift, out.Result.Metrics["momentum_drift"], float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func benchEngine(cmd *cobra.Command, args []string) error {
	bodies := []int{3, 10, 50, 200}
	dts := []float64{0.01, 0.001}
	backends := []int{1, workers}
	const benchDuration = 0.1

	fmt.Printf("benchmarking %s\n\n", config.DefaultIntegrator)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tDT\tBACKEND\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range bodies {
		for _, step := range dts {
			for _, nw := range backends {
				cfg := config.DefaultConfig()
				cfg.InitState.NumBodies = n
				cfg.Dt = step
				cfg.Duration = benchDuration
				cfg.Workers = nw

				exp := experiment.New(cfg, logging.Discard())
				if err := exp.Setup(); err != nil {
					return err
				}

				start := time.Now()
				out, err := exp.Run(cmd.Context())
				if err != nil {
					return err
				}
				elapsed := time.Since(start)

				steps := out.Result.StepsTaken
				fmt.Fprintf(w, "%d\t%.4f\t%s\t%d\t%v\t%.0f\n",
					n, step, compute.New(nw).Name(), steps, elapsed, float64(steps)/elapsed.Seconds())
			}
		}
	}
	return w.Flush()
}
