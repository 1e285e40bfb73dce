package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/export"
	"github.com/san-kum/nbodysim/internal/logging"
	"github.com/san-kum/nbodysim/internal/storage"
	"github.com/san-kum/nbodysim/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBODIES\tDURATION\tDT\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.4f\t%s\t%.2e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Dt,
			run.Integrator,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	result, meta, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d\n", meta.Bodies)
	fmt.Printf("samples: %d\n\n", len(result.Kinetic))

	bound := viz.EnergyBounds(result.Kinetic, result.Potential)
	fmt.Println(viz.EnergyPlot(result.Kinetic, result.Potential, 80, 15, bound))
	fmt.Printf("\nenergy drift: %.3e\n", meta.EnergyDrift)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	result, meta, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	cfg := dynamo.Config{
		G:         meta.G,
		Softening: meta.Softening,
		Dt:        meta.Dt,
		Duration:  meta.Duration,
		Seed:      meta.Seed,
	}
	return withOutput(func(w io.Writer) error {
		return export.WriteJSON(w, export.NewSummary(meta.Integrator, cfg, meta.Masses, result))
	})
}

func exportCSV(cmd *cobra.Command, args []string) error {
	result, _, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	return withOutput(func(w io.Writer) error {
		return export.WriteTrajectory(w, result)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	result, meta, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}

	var svg string
	if frameIdx >= 0 {
		canvas := viz.Snapshot(result, meta.Masses, frameIdx, viz.Options{ViewLim: viewLim, Logger: logging.Discard()})
		svg = export.CanvasToSVG(canvas, float64(svgSize)/float64(canvas.PixelWidth()))
	} else {
		svg = export.TrajectoriesToSVG(result, svgSize, svgSize)
	}
	return withOutput(func(w io.Writer) error {
		_, err := io.WriteString(w, svg+"\n")
		return err
	})
}

func replayRun(cmd *cobra.Command, args []string) error {
	result, meta, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	return viz.Animate(result, meta.Masses, viz.Options{
		FPS:        frameRate,
		ViewLim:    viewLim,
		Autoscroll: autoscroll,
		Title:      meta.ID,
		GIFPath:    gifPath,
		Logger:     logging.NewLogger(logLevel, os.Stderr),
	})
}

// withOutput writes to --out when given, stdout otherwise.
func withOutput(write func(io.Writer) error) error {
	if outPath == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
	return nil
}
