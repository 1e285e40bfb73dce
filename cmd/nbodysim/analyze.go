package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/analysis"
	"github.com/san-kum/nbodysim/internal/automation"
	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/experiment"
	"github.com/san-kum/nbodysim/internal/integrators"
	"github.com/san-kum/nbodysim/internal/logging"
	"github.com/san-kum/nbodysim/internal/optim"
	"github.com/san-kum/nbodysim/internal/storage"
)

var (
	lyapunov     bool
	perturbation float64

	sweepDts        []float64
	sweepSoftenings []float64
	sweepMetric     string

	trials   int
	parallel int
)

func analyzeRun(cmd *cobra.Command, args []string) error {
	result, meta, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("bodies: %d, samples: %d\n\n", meta.Bodies, len(result.States))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tMASS\tRADIAL PERIOD")
	for i := 0; i < min(sampleBodies, result.Bodies()); i++ {
		period := analysis.DominantPeriod(analysis.RadialDistance(result, i), result.Dt)
		mass := 0.0
		if i < len(meta.Masses) {
			mass = meta.Masses[i]
		}
		fmt.Fprintf(w, "%d\t%.3f\t%s\n", i, mass, formatPeriod(period))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	energyPeriod := analysis.DominantPeriod(analysis.TotalEnergy(result), result.Dt)
	fmt.Printf("\nenergy oscillation period: %s\n", formatPeriod(energyPeriod))

	if !lyapunov {
		return nil
	}

	x0, err := result.StateAt(0, meta.Masses)
	if err != nil {
		return err
	}
	cfg := dynamo.Config{G: meta.G, Softening: meta.Softening, Dt: meta.Dt, Duration: meta.Duration, Seed: meta.Seed}
	name := meta.Integrator
	if _, err := integrators.New(name); err != nil {
		return err
	}
	lambda, err := analysis.LyapunovExponent(cmd.Context(), x0, cfg, func() integrators.Stepper {
		s, _ := integrators.New(name)
		return s
	}, perturbation)
	if err != nil {
		return err
	}
	fmt.Printf("largest lyapunov exponent: %.4f", lambda)
	if lambda > 0 {
		fmt.Print(" (chaotic)")
	}
	fmt.Println()
	return nil
}

func formatPeriod(p float64) string {
	if p == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", p)
}

func sweepParams(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var params []optim.Param
	if len(sweepDts) > 0 {
		params = append(params, optim.Param{Name: "dt", Values: sweepDts})
	}
	if len(sweepSoftenings) > 0 {
		params = append(params, optim.Param{Name: "softening", Values: sweepSoftenings})
	}
	if len(params) == 0 {
		return fmt.Errorf("nothing to sweep: pass --dts and/or --softenings")
	}

	grid := optim.NewGridSearch(params...)
	fmt.Printf("sweeping %d points, minimizing %s\n\n", grid.Size(), sweepMetric)

	build := func(p map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		if v, ok := p["dt"]; ok {
			cfg.Dt = v
		}
		if v, ok := p["softening"]; ok {
			cfg.Softening = v
		}
		return experiment.New(&cfg, logging.Discard()), nil
	}

	best, all, err := grid.Search(cmd.Context(), build, sweepMetric)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSOFTENING\tVALUE")
	for _, t := range all {
		dtVal, sVal := base.Dt, base.Softening
		if v, ok := t.Params["dt"]; ok {
			dtVal = v
		}
		if v, ok := t.Params["softening"]; ok {
			sVal = v
		}
		if t.Err != nil {
			fmt.Fprintf(w, "%g\t%g\terror: %v\n", dtVal, sVal, t.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%g\t%.3e\n", dtVal, sVal, t.Value)
	}
	w.Flush()
	if err != nil {
		return err
	}

	fmt.Printf("\nbest: %v (%s = %.3e)\n", best.Params, sweepMetric, best.Value)
	return nil
}

func runScenarioFile(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(logLevel, os.Stderr)

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), sc, st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tINTEG\tBODIES\tDRIFT\tRUN")
	for _, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2e\t%s\n", r.Name, r.Integrator, r.Bodies, r.EnergyDrift, runID)
	}
	w.Flush()
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("monte carlo: %d trials, seeds %d..%d\n\n", trials, base.Seed, base.Seed+int64(trials)-1)
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:      base,
		NumTrials: trials,
		Seed:      base.Seed,
		Parallel:  parallel,
	}, logging.NewLogger(logLevel, os.Stderr))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tBODIES\tDRIFT\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2e\t%t\n", r.TrialID, r.Seed, r.Bodies, r.EnergyDrift, r.Stable)
	}
	w.Flush()

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}

// addSystemFlags registers the flags read by resolveConfig that describe
// the simulated system.
func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&numBodies, "bodies", "n", 0, "number of bodies (0 -> random 2..max_pts)")
	cmd.Flags().Float64VarP(&duration, "time", "t", config.DefaultDuration, "total simulation time")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&softening, "softening", config.DefaultSoftening, "softening length")
	cmd.Flags().BoolVar(&equalMass, "equal-mass", false, "use equal masses")
	cmd.Flags().BoolVar(&initVel, "init-vel", false, "use non-zero initial velocities")
	cmd.Flags().Float64Var(&scale, "scale", config.DefaultScale, "position/velocity scale for random init")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, fmt.Sprintf("integrator %v", integrators.Names()))
	cmd.Flags().IntVar(&workers, "workers", 0, "force evaluation goroutines (0 or 1 -> serial)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&initFile, "init-file", "", "csv table of initial conditions (7, 6, 4, 3 or 1 columns)")
}
