package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/flowgrid/internal/analysis"
	"github.com/san-kum/flowgrid/internal/automation"
	"github.com/san-kum/flowgrid/internal/config"
	"github.com/san-kum/flowgrid/internal/experiment"
	"github.com/san-kum/flowgrid/internal/export"
	"github.com/san-kum/flowgrid/internal/optim"
	"github.com/san-kum/flowgrid/internal/sim"
	"github.com/san-kum/flowgrid/internal/storage"
	"github.com/san-kum/flowgrid/internal/viz"
)

var (
	dataDir string
	debug   bool
	// Config sources
	preset     string
	configFile string
	// Overrides, applied only when set on the command line
	seed      int64
	ticks     int
	fps       int
	camera    string
	frameDir  string
	algorithm string
	gridSize  int
	workers   int
	// Command specific
	tickLogPath string
	outPath     string
	field       string
	xField      string
	yField      string
	theme       string
	gifPath     string
	svgScale    float64
	numRuns     int
	sweepMetric string
	sweepSteps  int
	maximize    bool
	minRange    string
	maxRange    string
	sweepParam  string
	paramRange  string
)

func main() {
	var logFile *os.File

	rootCmd := &cobra.Command{
		Use:   "flowgrid",
		Short: "particle grid driven by optical flow",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		RunE: runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flowgrid", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write logs to "+logDir+"/"+logFileName)
	addConfigFlags(rootCmd)
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and save the tick log",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&tickLogPath, "tick-log", "", "also stream ticks to this CSV file while running")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with the terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	addLiveFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a tick series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "ratio", "series to plot: "+strings.Join(analysis.PortraitFields(), ", "))

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bulk reset period and cycle statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "scatter one tick series against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xField, "x", "detached", "x-axis series")
	phaseCmd.Flags().StringVar(&yField, "y", "threshold", "y-axis series")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run ticks to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and ticks to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			return w.Flush()
		},
	}

	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "list camera sources and flow algorithms",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			fmt.Printf("cameras:    %s\n", strings.Join(reg.ListCameras(), ", "))
			fmt.Printf("algorithms: %s\n", strings.Join(reg.ListAlgorithms(), ", "))
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	addConfigFlags(initCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run, then write the final particle positions as SVG",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	addConfigFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "flowgrid.svg", "output file")
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 1, "svg units per world unit")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over the reset fractions",
		Args:  cobra.NoArgs,
		RunE:  sweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&minRange, "reset-min", "0.1,0.4", "lo,hi for reset_min")
	sweepCmd.Flags().StringVar(&maxRange, "reset-max", "0.5,0.9", "lo,hi for reset_max")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 3, "values per parameter")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "reset_cycles", "metric to optimise")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise instead of minimise")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "sweep this one parameter instead of the reset fractions")
	sweepCmd.Flags().StringVar(&paramRange, "range", "0,1", "lo,hi for --param")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run seeds seed..seed+n-1 in parallel and average the metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVarP(&numRuns, "runs", "n", 4, "number of runs")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, phaseCmd, exportCSVCmd, exportJSONCmd,
		presetsCmd, sourcesCmd, initCmd, snapshotCmd, sweepCmd, scenarioCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "start from a preset (see presets)")
	f.StringVar(&configFile, "config", "", "config file path (yaml), applied over the preset")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run, 0 for no limit")
	f.IntVar(&fps, "fps", config.DefaultFPS, "simulation ticks per second, 0 for unthrottled")
	f.StringVar(&camera, "camera", "noise", "camera source (see sources)")
	f.StringVar(&frameDir, "dir", "", "frame directory for the frames camera")
	f.StringVar(&algorithm, "algorithm", "lucas-kanade", "flow algorithm (see sources)")
	f.IntVar(&gridSize, "grid", config.DefaultGridSize, "particles per row and column")
	f.IntVar(&workers, "workers", 0, "physics goroutines, 0 for GOMAXPROCS")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "colour theme: "+strings.Join(viz.ThemeNames(), ", "))
	cmd.Flags().StringVar(&gifPath, "gif", "flowgrid.gif", "where G saves the recording")
}

// buildConfig resolves defaults, then the preset, then the config file, then
// any flag set explicitly on the command line.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("camera") {
		cfg.Camera.Source = camera
	}
	if flags.Changed("dir") {
		cfg.Camera.Dir = frameDir
		if !flags.Changed("camera") {
			cfg.Camera.Source = "frames"
		}
	}
	if flags.Changed("algorithm") {
		cfg.Flow.Algorithm = algorithm
	}
	if flags.Changed("grid") {
		cfg.Grid.Cols, cfg.Grid.Rows = gridSize, gridSize
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	if tickLogPath != "" {
		tl, err := storage.NewTickLog(tickLogPath)
		if err != nil {
			return err
		}
		exp.Runner().AddObserver(tl)
		defer func() {
			if err := tl.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "tick log: %v\n", err)
			}
		}()
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("running %dx%d grid on %s camera...\n", cfg.Grid.Cols, cfg.Grid.Rows, cfg.Camera.Source)
	result, err := exp.Run(ctx, true)
	if err != nil {
		if !interrupted(err) || result == nil {
			return err
		}
		fmt.Println("interrupted, saving partial run")
	}

	meta := storage.NewMetadata(cfg, preset, result)
	runID, err := st.Save(cfg, meta, result.Ticks)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.StepsTaken)
	printMetrics(os.Stdout, result.Metrics)
	return nil
}

func printMetrics(w io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	err = viz.Run(ctx, cfg, experiment.NewRegistry(), viz.Options{Theme: theme, GIFPath: gifPath})
	if interrupted(err) {
		return nil
	}
	return err
}

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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tTICKS\tPARTICLES\tCAMERA\tALGO\tDETACH")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%.3f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Particles,
			run.Camera,
			run.Algorithm,
			run.Metrics["detach_ratio"],
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.TickStats, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	ticks, err := st.LoadTicks(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(ticks) == 0 {
		return nil, nil, fmt.Errorf("run %s has no ticks", runID)
	}
	return meta, ticks, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, ticks, err := loadRun(args[0])
	if err != nil {
		return err
	}
	data, ok := analysis.FieldSeries(ticks, field)
	if !ok {
		return fmt.Errorf("unknown field %q (available: %v)", field, analysis.PortraitFields())
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("camera: %s\n", meta.Camera)
	fmt.Printf("ticks: %d\n\n", len(ticks))

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(field+" vs tick"),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, ticks, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("reset analysis: %s\n\n", meta.ID)

	series := storage.Series(ticks)
	ps := analysis.PowerSpectrum(series)
	if n := len(ps) / 4; n > 1 {
		fmt.Println(asciigraph.Plot(ps[1:n],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (detach ratio)"),
		))
		fmt.Println()
	}

	period, power := analysis.DominantPeriod(series)
	if period > 0 {
		fmt.Printf("dominant period: %.1f ticks (power %.3g)\n", period, power)
		if meta.FPS > 0 {
			fmt.Printf("                 %.2f s at %d fps\n", period/float64(meta.FPS), meta.FPS)
		}
	} else {
		fmt.Println("dominant period: none")
	}

	sum := analysis.Summarize(analysis.ResetCycles(ticks))
	fmt.Printf("reset cycles:    %d\n", sum.Count)
	if sum.Count > 0 {
		fmt.Printf("mean length:     %.1f ticks\n", sum.MeanLength)
		fmt.Printf("mean interval:   %.1f ticks\n", sum.MeanInterval)
		fmt.Printf("mean peak ratio: %.3f\n", sum.MeanPeak)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, ticks, err := loadRun(args[0])
	if err != nil {
		return err
	}
	p := analysis.NewPortrait(ticks, xField, yField)
	if p == nil {
		return fmt.Errorf("unknown series (available: %v)", analysis.PortraitFields())
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("x: %s, y: %s\n\n", xField, yField)
	fmt.Print(p.ToASCII(80, 24))
	return nil
}

// output opens outPath, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	_, ticks, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteTicksCSV(w, ticks); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, ticks, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		return storage.ExportJSONFile(outPath, *meta, ticks)
	}
	return storage.ExportJSON(os.Stdout, *meta, ticks)
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Ticks == 0 {
		return fmt.Errorf("snapshot needs a tick limit")
	}
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	if _, err := exp.Run(ctx, false); err != nil && !interrupted(err) {
		return err
	}

	if err := os.WriteFile(outPath, []byte(export.SceneToSVG(exp.Scene(), svgScale)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s after %d ticks\n", outPath, exp.Scene().Last().Tick+1)
	return nil
}

func parseRange(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("range %q: want lo,hi", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("range %q: %w", s, err)
	}
	return lo, hi, nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Ticks == 0 {
		return fmt.Errorf("sweep needs a tick limit")
	}
	if sweepParam != "" {
		return sweepOne(cfg)
	}
	minLo, minHi, err := parseRange(minRange)
	if err != nil {
		return err
	}
	maxLo, maxHi, err := parseRange(maxRange)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	gs := optim.NewGridSearch(
		[]string{"reset_min", "reset_max"},
		[][]float64{optim.Linspace(minLo, minHi, sweepSteps), optim.Linspace(maxLo, maxHi, sweepSteps)},
	)
	gs.Maximize = maximize

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *cfg
		for k, v := range params {
			c.SetParam(k, v)
		}
		return experiment.New(&c, reg)
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("sweeping %d combinations of %d ticks...\n", sweepSteps*sweepSteps, cfg.Ticks)
	best, value, trials, err := gs.Search(ctx, build, sweepMetric)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no valid combination (reset_min must not exceed reset_max)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RESET_MIN\tRESET_MAX\t%s\n", strings.ToUpper(sweepMetric))
	for _, t := range trials {
		fmt.Fprintf(w, "%.3f\t%.3f\t%.4f\n", t.Params["reset_min"], t.Params["reset_max"], t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: reset_min=%.3f reset_max=%.3f %s=%.4f\n", best["reset_min"], best["reset_max"], sweepMetric, value)
	return nil
}

// sweepOne runs cfg across --range of a single --param and prints a metric
// table, marking values the config rejects.
func sweepOne(cfg *config.Config) error {
	lo, hi, err := parseRange(paramRange)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  sweepSteps,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(sweepMetric))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%.4f\tinvalid: %v\n", r.ParamValue, r.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.4f\n", r.ParamValue, r.Metrics[sweepMetric])
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st)
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Printf("  step %d: %d ticks detach=%.3f resets=%.0f run=%s\n",
			r.Step, r.Result.StepsTaken, r.Result.Metrics["detach_ratio"], r.Result.Metrics["reset_cycles"], id)
	}
	return err
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Ticks == 0 {
		return fmt.Errorf("ensemble needs a tick limit")
	}
	if numRuns < 1 {
		return fmt.Errorf("ensemble needs at least one run")
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("running %d seeds from %d...\n", numRuns, cfg.Seed)
	ens := sim.NewEnsemble(experiment.RunFunc(cfg, experiment.NewRegistry()), numRuns, cfg.Seed)
	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0)
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SEED\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for i, r := range results {
		row := make([]string, len(names))
		for j, name := range names {
			row[j] = fmt.Sprintf("%.4f", r.Metrics[name])
		}
		fmt.Fprintf(w, "%d\t%s\n", cfg.Seed+int64(i), strings.Join(row, "\t"))
	}
	row := make([]string, len(names))
	for j, name := range names {
		row[j] = fmt.Sprintf("%.4f", sim.Mean(results, name))
	}
	fmt.Fprintf(w, "mean\t%s\n", strings.Join(row, "\t"))
	return w.Flush()
}
