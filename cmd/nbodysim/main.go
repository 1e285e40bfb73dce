package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/config"
)

var (
	dataDir  string
	logLevel string

	numBodies  int
	duration   float64
	dt         float64
	gravity    float64
	softening  float64
	equalMass  bool
	initVel    bool
	scale      float64
	seed       int64
	integrator string
	workers    int
	// Config file
	configFile string
	// Preset name
	preset   string
	initFile string

	csvOut     string
	save       bool
	visualize  bool
	frameRate  int
	viewLim    float64
	autoscroll bool
	gifPath    string

	outPath  string
	frameIdx int
	svgSize  int
)

// main registers the nbodysim commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "nbodysim",
		Short:         "gravitational n-body simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nbodysim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().StringVar(&csvOut, "csv-out", "", "write trajectory CSV to PATH (default: simulation_output.csv)")
	runCmd.Flags().Lookup("csv-out").NoOptDefVal = "simulation_output.csv"
	runCmd.Flags().BoolVar(&save, "save", false, "save run to the data directory")
	runCmd.Flags().BoolVar(&visualize, "visualize", false, "replay the run in the terminal")
	runCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "animation frame rate")
	runCmd.Flags().Float64Var(&viewLim, "view-lim", config.DefaultViewLim, "view limit magnitude")
	runCmd.Flags().BoolVar(&autoscroll, "autoscroll", false, "expand the view to keep all bodies visible")
	runCmd.Flags().StringVar(&gifPath, "gif", "nbody.gif", "recording path for the g key during --visualize")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw run trajectories (or one frame with --frame) as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "render a single record instead of full paths")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")
	exportSVGCmd.Flags().Float64Var(&viewLim, "view-lim", config.DefaultViewLim, "view limit magnitude for --frame")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "animation frame rate")
	replayCmd.Flags().Float64Var(&viewLim, "view-lim", config.DefaultViewLim, "view limit magnitude")
	replayCmd.Flags().BoolVar(&autoscroll, "autoscroll", false, "expand the view to keep all bodies visible")
	replayCmd.Flags().StringVar(&gifPath, "gif", "nbody.gif", "recording path for the g key")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same initial conditions",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().IntVarP(&numBodies, "bodies", "n", 3, "number of bodies")
	compareCmd.Flags().Float64VarP(&duration, "time", "t", config.DefaultDuration, "total simulation time")
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	compareCmd.Flags().BoolVar(&initVel, "init-vel", false, "use non-zero initial velocities")
	compareCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integration engine",
		Args:  cobra.NoArgs,
		RunE:  benchEngine,
	}
	benchCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "goroutines for the parallel backend")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s dt=%g time=%g integrator=%s\n", name, p.Dt, p.Duration, p.Integrator)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital periods and chaos indicators of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate the largest lyapunov exponent")
	analyzeCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-8, "initial separation for --lyapunov")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search dt and softening for the smallest diagnostic",
		Args:  cobra.NoArgs,
		RunE:  sweepParams,
	}
	addSystemFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", nil, "time steps to try")
	sweepCmd.Flags().Float64SliceVar(&sweepSoftenings, "softenings", nil, "softening lengths to try")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations from YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenarioFile,
	}

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run an ensemble of random systems and count the bound ones",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSystemFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	montecarloCmd.Flags().IntVar(&parallel, "parallel", runtime.NumCPU(), "trials run concurrently")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, replayCmd,
		compareCmd, benchCmd, presetsCmd, analyzeCmd, sweepCmd, scenarioCmd, montecarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
