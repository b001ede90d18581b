package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/experiment"
	"github.com/san-kum/circlesim/internal/gui"
	"github.com/san-kum/circlesim/internal/logging"
	"github.com/san-kum/circlesim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	configFile string
	preset     string
	// world and spawn overrides
	width       float64
	height      float64
	gravity     float64
	iterations  int
	count       int
	restitution float64
	// analysis
	body int
	// ensembles
	runs      int
	withAudio bool

	log = zap.NewNop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("command failed", zap.Error(err))
		_ = log.Sync()
		stop()
		os.Exit(1)
	}
	_ = log.Sync()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "circlesim",
		Short:        "2d circle physics sandbox",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel, logFormat)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return openWindow(cmd, "random")
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".circlesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	addSimFlags(rootCmd)
	rootCmd.Flags().BoolVar(&withAudio, "audio", false, "play collision sounds")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a headless simulation and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body heights of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run states to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce and frequency analysis of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&body, "body", 0, "body index")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in the terminal, or pick one from a menu",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "run a scene in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene := "random"
			if len(args) > 0 {
				scene = args[0]
			}
			return openWindow(cmd, scene)
		},
	}
	addSimFlags(guiCmd)
	guiCmd.Flags().BoolVar(&withAudio, "audio", false, "play collision sounds")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "run seeded copies of a scene in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScene,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")

	verifyCmd := &cobra.Command{
		Use:   "verify [scene]",
		Short: "check that two runs of a scene are bit-identical",
		Args:  cobra.ExactArgs(1),
		RunE:  verifyScene,
	}
	addSimFlags(verifyCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [scene] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scene",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario in order",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveResults, "save", false, "store every step as a run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene across a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepScene,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", fmt.Sprintf("parameter to sweep %v", config.ParamNames()))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search parameters against a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneScene,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridParams, "param", nil, "grid axis as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "max_penetration", "metric to optimise")
	tuneCmd.Flags().BoolVar(&tuneMax, "maximize", false, "maximise the metric instead")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the trajectories of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	renderCmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "simulate a scene and draw its final frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  renderScene,
	}
	addSimFlags(renderCmd)
	renderCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		analyzeCmd, liveCmd, guiCmd, presetsCmd, benchCmd, verifyCmd, compareCmd,
		scenarioCmd, sweepCmd, tuneCmd, renderCmd)

	return rootCmd
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	f.StringVar(&integrator, "integrator", "semi-implicit", "integrator (semi-implicit, euler, verlet)")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&width, "width", config.DefaultWidth, "world width")
	f.Float64Var(&height, "height", config.DefaultHeight, "world height")
	f.Float64Var(&gravity, "gravity", config.DefaultGravityY, "downward gravity")
	f.IntVar(&iterations, "iterations", config.DefaultIterations, "collision passes per step")
	f.IntVar(&count, "count", config.DefaultCount, "generated circles")
	f.Float64Var(&restitution, "restitution", config.DefaultConfig().Spawn.Restitution, "restitution of generated circles")
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order. scene may be empty to keep the preset or file scene.
func resolveConfig(cmd *cobra.Command, scene string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if scene != "" {
		cfg.Scene = scene
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if scene != "" {
			cfg.Scene = scene
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("width") {
		cfg.World.Width = width
	}
	if flags.Changed("height") {
		cfg.World.Height = height
	}
	if flags.Changed("gravity") {
		cfg.World.GravityY = gravity
	}
	if flags.Changed("iterations") {
		cfg.World.CollisionIterations = iterations
	}
	if flags.Changed("count") {
		cfg.Spawn.Count = count
	}
	if flags.Changed("restitution") {
		cfg.Spawn.Restitution = restitution
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	if len(args) == 0 {
		base, err := resolveConfig(cmd, "")
		if err != nil {
			return err
		}
		final, err := tea.NewProgram(viz.NewMenu(registry, base)).Run()
		if err != nil {
			return err
		}
		return final.(viz.Menu).Err()
	}

	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	m, err := viz.NewModel(registry, cfg)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	return final.(viz.Model).Err()
}

func openWindow(cmd *cobra.Command, scene string) error {
	cfg, err := resolveConfig(cmd, scene)
	if err != nil {
		return err
	}
	return gui.Run(experiment.NewRegistry(), cfg, gui.Options{Audio: withAudio, Log: log})
}
