package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/circlesim/internal/automation"
	"github.com/san-kum/circlesim/internal/experiment"
	"github.com/san-kum/circlesim/internal/export"
	"github.com/san-kum/circlesim/internal/optim"
)

var (
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	gridParams  []string
	tuneMetric  string
	tuneMax     bool
	svgOut      string
	saveResults bool
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	st := newStore()
	if saveResults {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tSEED\tCOLLISIONS\tMAX_PEN\tFINGERPRINT\tRUN")
	for _, r := range results {
		runID := "-"
		if saveResults {
			if runID, err = st.Save(r.Config, r.Result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%.3f\t%016x\t%s\n",
			r.Name, r.Config.Scene, r.Config.Seed,
			r.Result.Metrics["collisions"], r.Result.Metrics["max_penetration"],
			r.Fingerprint, runID)
	}
	return w.Flush()
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.Sweep{
		Base:  cfg,
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
	}, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDRIFT\tCOLLISIONS\tMAX_PEN\tCONTAINED\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.3e\t%.0f\t%.3f\t%.2f\n",
			r.ParamValue, r.Result.EnergyDrift,
			r.Result.Metrics["collisions"], r.Result.Metrics["max_penetration"], r.Result.Metrics["containment"])
	}
	return w.Flush()
}

// parseGrid reads name=v1,v2,... pairs.
func parseGrid(axes []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(axes))
	ranges := make([][]float64, 0, len(axes))
	for _, s := range axes {
		name, list, ok := strings.Cut(s, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", s)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", s, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("at least one --param is required")
	}
	return names, ranges, nil
}

func tuneScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}

	objective := optim.MetricObjective(cfg, experiment.NewRegistry(), tuneMetric, tuneMax)
	best, score, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(), objective)
	if err != nil {
		return err
	}
	if tuneMax {
		score = -score
	}

	fmt.Printf("best %s: %.6g\n", tuneMetric, score)
	for _, n := range names {
		fmt.Printf("  %s = %g\n", n, best[n])
	}
	log.Info("tune finished", zap.String("metric", tuneMetric), zap.Float64("score", score))
	return nil
}

func writeSVG(svg string) error {
	if svgOut == "" {
		_, err := fmt.Println(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
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

	svg := export.TrajectoriesToSVG(states, meta.Width, meta.Height)
	if svg == "" {
		return fmt.Errorf("run %s has too few states to draw", runID)
	}
	return writeSVG(svg)
}

func renderScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	w, err := experiment.NewRegistry().BuildWorld(cfg)
	if err != nil {
		return err
	}
	steps := int(cfg.Duration / cfg.Dt)
	for i := 0; i < steps; i++ {
		if err := w.Step(cfg.Dt); err != nil {
			return err
		}
	}
	return writeSVG(export.WorldToSVG(w))
}
