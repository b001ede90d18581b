package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/circlesim/internal/analysis"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/experiment"
	"github.com/san-kum/circlesim/internal/storage"
)

func newStore() *storage.Store {
	st := storage.New(dataDir)
	st.SetLogger(log)
	return st
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := newStore()
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	exp.SetLogger(log)
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("running %s scene with %d bodies...\n", cfg.Scene, exp.World().Len())
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("fingerprint: %016x\n", exp.World().Fingerprint())
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)

	return nil
}

func printMetrics(w io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6g\n", name, metrics[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := newStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tBODIES\tDURATION\tDT\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Dt,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := newStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states))

	maxPlots := 3
	if meta.Bodies < maxPlots {
		maxPlots = meta.Bodies
	}

	for b := 0; b < maxPlots; b++ {
		ys := analysis.Column(states, analysis.Index(b, analysis.Y))
		// screen y grows downwards; flip so the floor is at the bottom
		for i := range ys {
			ys[i] = -ys[i]
		}

		graph := asciigraph.Plot(ys,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d height (-y)", b)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := newStore().Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	f, err := os.Open(newStore().StatesPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(os.Stdout, f)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := newStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, *meta, states, times)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := newStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if body < 0 || body >= meta.Bodies {
		return fmt.Errorf("body %d out of range (run has %d)", body, meta.Bodies)
	}

	ys := analysis.Column(states, analysis.Index(body, analysis.Y))
	vys := analysis.Column(states, analysis.Index(body, analysis.VY))
	if len(ys) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s body %d\n", meta.ID, body)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	ps := analysis.PowerSpectrum(ys)
	plotData := ps[:len(ps)/4+1]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (y)"),
	)
	fmt.Println(graph)
	fmt.Println()

	stats := analysis.Describe(ys)
	fmt.Printf("y range: %.2f .. %.2f (mean %.2f, std %.2f)\n", stats.Min, stats.Max, stats.Mean, stats.Std)
	fmt.Printf("floor bounces: %d\n", analysis.Bounces(vys))

	if freq, ok := analysis.DominantFrequency(ys, meta.Dt); ok {
		fmt.Printf("dominant frequency: %.3f hz\n", freq)
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	} else {
		fmt.Println("dominant frequency: none")
	}

	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	ens := dynamo.NewEnsemble(registry.Factory(cfg), runs, cfg.Seed)
	simCfg := dynamo.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true}

	fmt.Printf("benchmarking %s: %d seeds from %d\n\n", cfg.Scene, runs, cfg.Seed)
	start := time.Now()
	results, err := ens.Run(cmd.Context(), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tDRIFT\tCOLLISIONS\tMAX_PEN\tCONTAINED")

	totalSteps := 0
	for i, res := range results {
		totalSteps += res.StepsTaken
		fmt.Fprintf(w, "%d\t%d\t%.3e\t%.0f\t%.3f\t%.2f\n",
			cfg.Seed+int64(i),
			res.StepsTaken,
			res.EnergyDrift,
			res.Metrics["collisions"],
			res.Metrics["max_penetration"],
			res.Metrics["containment"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d steps in %v (%.0f steps/sec)\n", totalSteps, elapsed, float64(totalSteps)/elapsed.Seconds())
	log.Info("bench finished", zap.Int("runs", runs), zap.Duration("elapsed", elapsed))
	return nil
}

func verifyScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	steps := int(cfg.Duration / cfg.Dt)

	fingerprint := func() (uint64, error) {
		w, err := registry.BuildWorld(cfg)
		if err != nil {
			return 0, err
		}
		for i := 0; i < steps; i++ {
			if err := w.Step(cfg.Dt); err != nil {
				return 0, err
			}
		}
		return w.Fingerprint(), nil
	}

	a, err := fingerprint()
	if err != nil {
		return err
	}
	b, err := fingerprint()
	if err != nil {
		return err
	}

	fmt.Printf("scene %s seed %d, %d steps\n", cfg.Scene, cfg.Seed, steps)
	fmt.Printf("  first:  %016x\n", a)
	fmt.Printf("  second: %016x\n", b)
	if a != b {
		return fmt.Errorf("runs diverged")
	}
	fmt.Println("deterministic")
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	fmt.Printf("comparing integrators for %s (dt=%.4f, duration=%.1fs)\n\n", base.Scene, base.Dt, base.Duration)
	fmt.Printf("%-14s  %-12s  %-12s  %-12s\n", "integrator", "energy_drift", "kinetic", "time_ms")
	fmt.Println(strings.Repeat("-", 56))

	for _, name := range args[1:] {
		cfg := base.Clone()
		cfg.Integrator = name

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(cmd.Context())
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-14s  %12.2e  %12.4g  %12.2f\n", name, result.EnergyDrift,
			result.Metrics["kinetic_energy"], float64(elapsed.Microseconds())/1000)
	}

	return nil
}
