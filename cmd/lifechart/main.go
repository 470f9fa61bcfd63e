package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifechart/internal/clock"
	"github.com/san-kum/lifechart/internal/config"
	"github.com/san-kum/lifechart/internal/ensemble"
	"github.com/san-kum/lifechart/internal/export"
	"github.com/san-kum/lifechart/internal/grid"
	"github.com/san-kum/lifechart/internal/machine"
	"github.com/san-kum/lifechart/internal/storage"
	"github.com/san-kum/lifechart/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dataDir    string
	logFile    string
	rows       int
	cols       int
	speed      float64
	seed       int64
	pattern    string
	theme      string
	workers    int
	name       string
	// run
	generations int
	save        bool
	// export
	output     string
	population bool
	// bench
	benchSize int
	benchGens int
	// ensemble
	runs         int
	ensembleGens int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "lifechart",
		Short:        "game of life driven by a statechart",
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&logFile, "log", "", "write debug trace to file")
	pf.IntVar(&rows, "rows", config.DefaultRows, "grid rows")
	pf.IntVar(&cols, "cols", config.DefaultCols, "grid columns")
	pf.Float64Var(&speed, "speed", config.DefaultSpeed, "speed multiplier (0.1-5)")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.StringVar(&pattern, "pattern", "", "preset name or pattern file (.cells)")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	pf.IntVar(&workers, "workers", 1, "goroutines per generation")
	pf.StringVar(&name, "name", "session", "name for saved sessions")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run generations headless",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVarP(&generations, "generations", "g", 100, "generations to run")
	runCmd.Flags().BoolVar(&save, "save", false, "save the final board as a session")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved sessions",
		RunE:  listSessions,
	}

	showCmd := &cobra.Command{
		Use:   "show [session_id]",
		Short: "print a saved board and its population",
		Args:  cobra.ExactArgs(1),
		RunE:  showSession,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [session_id]",
		Short: "export a saved board to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <id>.svg)")
	exportSVGCmd.Flags().BoolVar(&population, "population", false, "export the population chart instead of the board")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [session_id]",
		Short: "export a saved session to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tDESCRIPTION")
			for _, n := range config.ListPresets() {
				p := config.GetPreset(n)
				fmt.Fprintf(w, "%s\t%dx%d\t%s\n", n, p.Rows, p.Cols, p.Description)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare serial and parallel stepping",
		RunE:  benchStep,
	}
	benchCmd.Flags().IntVar(&benchSize, "size", 256, "square board size")
	benchCmd.Flags().IntVar(&benchGens, "gens", 100, "generations per measurement")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run many random seeds and summarise how they settle",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVarP(&ensembleGens, "generations", "g", 200, "generations per run")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, exportSVGCmd, exportJSONCmd, presetsCmd, benchCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the config file with flags; flags win only when set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if configFile == "" || flags.Changed("rows") {
		cfg.Rows = rows
	}
	if configFile == "" || flags.Changed("cols") {
		cfg.Cols = cols
	}
	if configFile == "" || flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("pattern") {
		cfg.Pattern = pattern
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	// a preset brings its own board size unless one was asked for
	if p := config.GetPreset(cfg.Pattern); p != nil {
		if !flags.Changed("rows") && p.Rows > cfg.Rows {
			cfg.Rows = p.Rows
		}
		if !flags.Changed("cols") && p.Cols > cfg.Cols {
			cfg.Cols = p.Cols
		}
	}

	cfg.Clamp()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, nil
}

func newLogger() (*slog.Logger, func(), error) {
	if logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func newMachine(cfg *config.Config, logger *slog.Logger, sched clock.Scheduler) *machine.Machine {
	density := cfg.Density
	return machine.New(machine.Config{
		Rows:    cfg.Rows,
		Cols:    cfg.Cols,
		Speed:   cfg.Speed,
		Base:    cfg.Interval(),
		Density: &density,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
		Logger:  logger,
	}, sched)
}

// initialBoard resolves the configured pattern. "random" and an empty
// pattern both return nil; the caller decides whether to randomize.
func initialBoard(cfg *config.Config) (*grid.Grid, error) {
	if cfg.Pattern == "" || cfg.Pattern == "random" {
		return nil, nil
	}
	return config.LoadPattern(cfg.Pattern)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	board, err := initialBoard(cfg)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	mach := newMachine(cfg, logger, clock.NewTicker())
	return viz.Run(mach, viz.Options{
		Store:     st,
		Name:      name,
		Seed:      cfg.Seed,
		Pattern:   board,
		Randomize: cfg.Pattern == "random",
		Theme:     cfg.Theme,
	})
}

// runHeadless drives the machine with a manual clock: one Fire per generation.
func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	board, err := initialBoard(cfg)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	manual := clock.NewManual()
	mach := newMachine(cfg, logger, manual)
	mach.Dispatch(machine.Init{})
	if board != nil {
		mach.Dispatch(machine.PatternLoaded{Pattern: board})
	} else {
		mach.Dispatch(machine.RandomizeClicked{})
	}

	start := mach.Snapshot()
	fmt.Printf("running %dx%d for %d generations (seed %d)\n", start.Rows, start.Cols, generations, cfg.Seed)

	began := time.Now()
	bar := pb.New(generations)
	bar.SetWriter(cmd.ErrOrStderr())
	bar.Start()
	if generations > 0 {
		// entering playing performs the first step
		mach.Dispatch(machine.StartClicked{})
		bar.Increment()
		for i := 1; i < generations; i++ {
			manual.Fire()
			bar.Increment()
		}
		mach.Dispatch(machine.StopClicked{})
	}
	bar.Finish()
	elapsed := time.Since(began)

	snap := mach.Snapshot()
	fmt.Printf("\ncompleted in %v\n", elapsed)
	fmt.Printf("generation: %d\n", snap.Generation)
	fmt.Printf("population: %d (start %d)\n\n", snap.Population, start.Population)
	fmt.Print(snap.Grid.String())
	printPopulation(snap.Populations)

	if save {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(name, cfg.Seed, snap)
		if err != nil {
			return err
		}
		fmt.Printf("\nsession id: %s\n", id)
	}
	return nil
}

func printPopulation(pops []int) {
	if len(pops) < 2 {
		return
	}
	data := make([]float64, len(pops))
	for i, p := range pops {
		data[i] = float64(p)
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("population"),
	))
}

func listSessions(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sessions, err := st.List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSIZE\tGEN\tPOP\tSPEED")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\t%.1f\n",
			s.ID,
			s.Name,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Rows, s.Cols,
			s.Generation,
			s.Population,
			s.Speed,
		)
	}
	return w.Flush()
}

func showSession(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	g, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}
	_, pops, err := st.LoadPopulation(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("session: %s\n", meta.ID)
	fmt.Printf("size: %dx%d  generation: %d  population: %d  mode: %s\n\n",
		meta.Rows, meta.Cols, meta.Generation, meta.Population, meta.Mode)
	fmt.Print(g.String())
	printPopulation(pops)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	id := args[0]
	st := storage.New(dataDir)

	var svg string
	if population {
		_, pops, err := st.LoadPopulation(id)
		if err != nil {
			return err
		}
		svg = export.PopulationToSVG(pops, 800, 300, "#008000")
	} else {
		g, err := st.LoadGrid(id)
		if err != nil {
			return err
		}
		svg = export.GridToSVG(g, export.DefaultSVGStyle())
	}

	path := output
	if path == "" {
		path = id + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", filepath.Clean(path))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	id := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return err
	}
	g, err := st.LoadGrid(id)
	if err != nil {
		return err
	}
	gens, pops, err := st.LoadPopulation(id)
	if err != nil {
		return err
	}

	data := export.NewExportData(meta.ID, meta.Name, meta.Speed, meta.Generation, g, gens, pops)
	if output == "" {
		return export.WriteJSON(os.Stdout, data)
	}
	return export.ExportJSON(output, data)
}

func benchStep(cmd *cobra.Command, args []string) error {
	base := grid.Randomize(grid.New(benchSize, benchSize), grid.NewRNG(42), config.DefaultDensity)
	counts := []int{1, 2, 4, runtime.NumCPU()}

	fmt.Printf("benchmarking %dx%d, %d generations\n\n", benchSize, benchSize, benchGens)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTIME\tGENS/SEC\tPOPULATION")

	ctx := context.Background()
	for _, n := range counts {
		g := base
		start := time.Now()
		for i := 0; i < benchGens; i++ {
			var err error
			if n == 1 {
				g = grid.Step(g)
			} else if g, err = grid.StepParallel(ctx, g, n); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t%v\t%.0f\t%d\n", n, elapsed, float64(benchGens)/elapsed.Seconds(), g.Population())
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running %d seeds on %dx%d for %d generations\n\n", runs, cfg.Rows, cfg.Cols, ensembleGens)
	results, err := ensemble.Run(cmd.Context(), ensemble.Config{
		Rows:        cfg.Rows,
		Cols:        cfg.Cols,
		Density:     cfg.Density,
		Generations: ensembleGens,
		Runs:        runs,
		SeedStart:   cfg.Seed,
		Parallel:    cfg.Workers,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tINITIAL\tPEAK\tFINAL\tSETTLED\tPERIOD")
	for _, r := range results {
		settled, period := "-", "-"
		if r.Settled >= 0 {
			settled, period = fmt.Sprint(r.Settled), fmt.Sprint(r.Period)
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\n", r.Seed, r.Initial, r.Peak, r.Final, settled, period)
	}
	return w.Flush()
}
