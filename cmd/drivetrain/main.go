package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/drivetrain/internal/analysis"
	"github.com/san-kum/drivetrain/internal/config"
	"github.com/san-kum/drivetrain/internal/export"
	"github.com/san-kum/drivetrain/internal/integrators"
	"github.com/san-kum/drivetrain/internal/logging"
	"github.com/san-kum/drivetrain/internal/metrics"
	"github.com/san-kum/drivetrain/internal/motion"
	"github.com/san-kum/drivetrain/internal/optim"
	"github.com/san-kum/drivetrain/internal/routine"
	"github.com/san-kum/drivetrain/internal/sim"
	"github.com/san-kum/drivetrain/internal/storage"
	"github.com/san-kum/drivetrain/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string
	logLevel   string
	scriptDir  string
	seed       int64
	noise      float64
	tick       time.Duration
	save       bool
	trace      int
	runs       int
	outFile    string
	svgFile    string
	band       float64
	gainsName  string
	target     float64
	timeout    time.Duration
	kpRange    []float64
	kiRange    []float64
	kdRange    []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "drivetrain",
		Short:         "differential-drive motion control simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".drivetrain", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [routine]",
		Short: "run a routine against the simulated robot",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRoutine,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")
	runCmd.Flags().IntVar(&trace, "trace", 0, "print every n-th tick (0 disables)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [routine]",
		Short: "run a routine across several seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepRoutine,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")

	primitivesCmd := &cobra.Command{
		Use:   "primitives",
		Short: "list script step kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tFIELDS")
			for _, k := range routine.StepKinds() {
				fmt.Fprintf(w, "%s\t%s\n", k.Do, k.Fields)
			}
			return w.Flush()
		},
	}

	routinesCmd := &cobra.Command{
		Use:   "routines",
		Short: "list available routines",
		RunE:  listRoutines,
	}
	routinesCmd.Flags().StringVar(&scriptDir, "scripts", "", "directory of yaml routine scripts")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&svgFile, "svg", "", "also draw the driven path to this svg file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "step response analysis per primitive",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&band, "band", 1, "settling band in error units")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search spin gains on a simulated turn",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&gainsName, "gains", "spin", "gain set to start from")
	tuneCmd.Flags().Float64Var(&target, "target", 90, "turn target heading (deg)")
	tuneCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "turn timeout")
	tuneCmd.Flags().Float64SliceVar(&kpRange, "kp", []float64{2, 3, 3.7, 5}, "kp values")
	tuneCmd.Flags().Float64SliceVar(&kiRange, "ki", []float64{0, 1.3}, "ki values")
	tuneCmd.Flags().Float64SliceVar(&kdRange, "kd", []float64{0, 10, 26}, "kd values")

	rootCmd.AddCommand(runCmd, sweepCmd, tuneCmd, primitivesCmd, routinesCmd, presetsCmd, listCmd, plotCmd, exportCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	cmd.Flags().StringVar(&scriptDir, "scripts", "", "directory of yaml routine scripts")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&noise, "noise", 0, "heading noise standard deviation (deg)")
	cmd.Flags().DurationVar(&tick, "tick", config.DefaultTick, "control loop tick")
}

// loadConfig layers a preset, then a config file, then any flags that were
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, errors.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("seed") {
		cfg.Sim.Seed = seed
	}
	if flags.Changed("noise") {
		cfg.Sim.HeadingNoise = noise
	}
	if flags.Changed("tick") {
		cfg.Tick = tick
	}
	return cfg, cfg.Validate()
}

func loadRoutines() (*routine.Registry, error) {
	reg := routine.Builtins()
	if scriptDir != "" {
		if err := reg.LoadDir(scriptDir); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func routineName(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Routine
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func runRoutine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := routineName(cfg, args)

	logger, err := logging.New(cfg.LogLevel, "drivetrain")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg, err := loadRoutines()
	if err != nil {
		return err
	}
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return err
	}
	simCfg := cfg.SimConfig()
	s, err := sim.New(simCfg, integ)
	if err != nil {
		return err
	}

	rec := &motion.Recorder{}
	set := metrics.Standard()
	chassis := motion.New(s.Robot(), s.Scheduler(),
		motion.WithLogger(logger),
		motion.WithTuning(cfg.Tuning()),
		motion.WithObserver(rec),
		motion.WithObserver(set),
	)
	if trace > 0 {
		chassis.AddObserver(motion.NewPrinter(os.Stdout, trace))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("running routine", zap.String("routine", name), zap.String("integrator", cfg.Integrator))
	start := time.Now()
	runErr := s.Run(ctx, func(ctx context.Context) error {
		return reg.Run(ctx, name, chassis)
	})

	meta := storage.RunMetadata{
		Routine:    name,
		Preset:     preset,
		Timestamp:  time.Now(),
		Seed:       simCfg.Seed,
		TickMs:     ms(cfg.Tick),
		Integrator: cfg.Integrator,
		SimTimeMs:  ms(s.Elapsed()),
		Metrics:    set.Values(),
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	for _, r := range rec.Results {
		meta.Results = append(meta.Results, storage.NewResultRecord(r))
	}

	errTrace := make([]float64, len(rec.Samples))
	for i, smp := range rec.Samples {
		errTrace[i] = math.Abs(smp.Error)
	}
	fmt.Print(viz.Summary(meta, errTrace))
	fmt.Printf("completed in %v (%d steps)\n", time.Since(start), s.Steps())

	if save {
		id, err := storage.New(dataDir).Save(meta, rec.Samples)
		if err != nil {
			return errors.Wrap(err, "saving run")
		}
		fmt.Printf("run id: %s\n", id)
	}
	return runErr
}

type sweepRun struct {
	set     *metrics.Set
	results []motion.Result
}

func sweepRoutine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runs < 1 {
		return errors.Errorf("runs must be positive, got %d", runs)
	}
	name := routineName(cfg, args)

	// validate names before fanning out
	if _, err := integrators.ByName(cfg.Integrator); err != nil {
		return err
	}
	reg, err := loadRoutines()
	if err != nil {
		return err
	}
	if name != "" {
		if _, err := reg.Get(name); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.LogLevel, "sweep")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	newIntegrator := func() sim.Integrator {
		integ, _ := integrators.ByName(cfg.Integrator)
		return integ
	}
	simCfg := cfg.SimConfig()
	ens := sim.NewEnsemble(simCfg, newIntegrator, runs, simCfg.Seed)

	var mu sync.Mutex
	out := make(map[*sim.Simulator]*sweepRun, runs)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	sims, runErr := ens.Run(ctx, func(ctx context.Context, s *sim.Simulator) error {
		rec := &motion.Recorder{}
		set := metrics.Standard()
		chassis := motion.New(s.Robot(), s.Scheduler(),
			motion.WithLogger(logger),
			motion.WithTuning(cfg.Tuning()),
			motion.WithObserver(rec),
			motion.WithObserver(set),
		)
		err := reg.Run(ctx, name, chassis)

		mu.Lock()
		out[s] = &sweepRun{set: set, results: rec.Results}
		mu.Unlock()
		return err
	})
	if sims == nil {
		return runErr
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSIM MS\tPRIMITIVES\tTIMEOUTS\tIAE\tPATH")
	for i, s := range sims {
		r := out[s]
		if r == nil {
			continue
		}
		timeouts := 0
		for _, res := range r.results {
			if res.Reason == motion.Timeout {
				timeouts++
			}
		}
		vals := r.set.Values()
		fmt.Fprintf(w, "%d\t%.0f\t%d\t%d\t%.3f\t%.1f\n",
			simCfg.Seed+int64(i), ms(s.Elapsed()), len(r.results), timeouts, vals["iae"], vals["path_length"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := integrators.ByName(cfg.Integrator); err != nil {
		return err
	}
	tuning := cfg.Tuning()
	base, ok := tuning.Preset(gainsName)
	if !ok {
		return errors.Errorf("unknown gain set: %s", gainsName)
	}

	g, err := optim.NewGridSearch(
		[]string{optim.ParamP, optim.ParamI, optim.ParamD},
		[][]float64{kpRange, kiRange, kdRange},
	)
	if err != nil {
		return err
	}
	trial := optim.SpinTrial(optim.SpinSetup{
		Sim: cfg.SimConfig(),
		NewIntegrator: func() sim.Integrator {
			integ, _ := integrators.ByName(cfg.Integrator)
			return integ
		},
		Tuning:  tuning,
		Base:    base,
		Target:  target,
		Timeout: timeout,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fmt.Printf("searching %d gain sets for a %.1f deg turn...\n", g.Size(), target)
	best, err := g.Search(ctx, trial)
	if err != nil {
		return err
	}
	k := optim.Apply(base, best.Params)
	fmt.Printf("best %s: p=%g i=%g d=%g (score %.4f, %d trials, %d failed)\n",
		gainsName, k.P, k.I, k.D, best.Score, best.Trials, best.Failed)
	return nil
}

func listRoutines(cmd *cobra.Command, args []string) error {
	reg, err := loadRoutines()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, info := range reg.List() {
		n := info.Name
		if info.Default {
			n += " *"
		}
		fmt.Fprintf(w, "%s\t%s\n", n, info.Description)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tROUTINE\tTIME\tSIM\tTICK\tINTEG\tPRIMITIVES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.0fms\t%s\t%d\n",
			run.ID,
			run.Routine,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.SimTimeMs/1000,
			run.TickMs,
			run.Integrator,
			len(run.Results),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("routine: %s\n", meta.Routine)
	fmt.Printf("samples: %d\n\n", len(samples))

	for _, graph := range []string{viz.PlotError(samples), viz.PlotHeading(samples), viz.PlotCommands(samples)} {
		fmt.Println(graph)
		fmt.Println()
	}
	fmt.Println(viz.Title.Render("path"))
	fmt.Print(viz.PathMap(samples, 40, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if svgFile != "" {
		if err := export.SavePathSVG(svgFile, samples, 800, 800); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "path written to %s\n", svgFile)
	}

	data := storage.NewExportData(*meta, samples)
	if outFile == "" {
		return storage.ExportJSONStdout(data)
	}
	if err := storage.ExportJSON(outFile, data); err != nil {
		return err
	}
	fmt.Printf("exported %d samples to %s\n", len(samples), outFile)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return errors.New("no data")
	}

	runTick := time.Duration(meta.TickMs * float64(time.Millisecond))
	fmt.Printf("step response: %s\n\n", meta.ID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRIMITIVE\tTICKS\tINITIAL\tFINAL\tOVERSHOOT\tCROSSINGS\tRISE\tSETTLE\tRING HZ")
	for _, r := range analysis.AnalyzeAll(samples, band, runTick) {
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%.1f%%\t%d\t%v\t%v\t%.2f\n",
			r.Primitive, r.Ticks, r.InitialError, r.FinalError, r.Overshoot*100,
			r.Crossings, r.RiseTime, r.SettlingTime, r.DominantHz)
	}
	return w.Flush()
}
