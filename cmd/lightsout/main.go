package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lightsout/internal/board"
	"github.com/san-kum/lightsout/internal/config"
	"github.com/san-kum/lightsout/internal/export"
	"github.com/san-kum/lightsout/internal/gui"
	"github.com/san-kum/lightsout/internal/solver"
	"github.com/san-kum/lightsout/internal/storage"
	"github.com/san-kum/lightsout/internal/survey"
	"github.com/san-kum/lightsout/internal/tui"
	"github.com/san-kum/lightsout/internal/web"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	height     int
	width      int
	chance     float64
	seed       int64
	solvable   bool
	dataDir    string
	theme      string
	verbose    bool

	addr       string
	showSteps  bool
	svgOut     string
	svgScale   float64
	recordOnly bool
	benchRuns  int
	benchJobs  int
)

// main runs the terminal game when no subcommand is given. It exits with
// status 1 if the command returns an error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd registers every command. Flag variables are reset to their
// defaults each time it is called.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lightsout",
		Short:         "lights out puzzle",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: runPlay,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset board settings")
	pf.IntVar(&height, "height", config.DefaultHeight, "rows")
	pf.IntVar(&width, "width", config.DefaultWidth, "columns")
	pf.Float64Var(&chance, "chance", config.DefaultProbability, "chance a light starts on")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	pf.BoolVar(&solvable, "solvable", false, "only deal boards that can be solved")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "directory for recorded wins (empty disables)")
	pf.StringVar(&theme, "theme", "", "terminal colour theme: classic, retro, ocean, sunset")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "play in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := setup(cmd)
			if err != nil {
				return err
			}
			return gui.Run(*cfg, st)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the game as a web page",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	solveCmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "print the presses that turn a board off",
		Long:  "Reads a board, one row per line with O for lit and . for unlit, from file or stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().BoolVar(&showSteps, "steps", false, "print the board after every press")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tCHANCE\tSOLVABLE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%dx%d\t%.2f\t%v\n", name, p.Height, p.Width, p.InitialOnProbability, p.EnsureSolvable)
			}
			return w.Flush()
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "list recorded wins",
		Args:  cobra.NoArgs,
		RunE:  listHistory,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [record_id]",
		Short: "plot moves per win, or lit cells per move of one game",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotHistory,
	}

	exportCmd := &cobra.Command{
		Use:   "export-svg [record_id|board_file]",
		Short: "draw a recorded starting board, or a board file, as SVG",
		Long:  "Draws a board as SVG. An output file ending in .png is rasterized instead.",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().Float64Var(&svgScale, "scale", 32, "cell size in pixels")
	exportCmd.Flags().BoolVar(&recordOnly, "record", false, "treat the argument as a record id only")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "deal many boards and report how many can be solved",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntVarP(&benchRuns, "runs", "n", 1000, "number of boards to deal")
	benchCmd.Flags().IntVar(&benchJobs, "jobs", 0, "parallel workers (0 uses every cpu)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "config file helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective settings as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			path := "lightsout.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(playCmd, guiCmd, serveCmd, solveCmd, presetsCmd, historyCmd, plotCmd, exportCmd, benchCmd, configCmd)
	return rootCmd
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// resolveConfig applies, in order: defaults, preset, config file, then any
// flag set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("chance") {
		cfg.InitialOnProbability = chance
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("solvable") {
		cfg.EnsureSolvable = solvable
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(dir string) (*storage.Store, error) {
	if dir == "" {
		return nil, nil
	}
	st := storage.New(dir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func setup(cmd *cobra.Command) (*config.Config, *storage.Store, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, st, err := setup(cmd)
	if err != nil {
		return err
	}
	return tui.Run(*cfg, st)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, st, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(*cfg, st, slog.Default())
	return srv.Run(ctx, cfg.Addr)
}

func runSolve(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	g, err := board.Parse(in)
	if err != nil {
		return fmt.Errorf("read board: %w", err)
	}

	start := time.Now()
	presses, err := solver.Solve(g)
	if err != nil {
		return err
	}
	slog.Debug("solved", slog.Int("presses", len(presses)), slog.Duration("elapsed", time.Since(start)))

	fmt.Printf("%d presses\n", len(presses))
	for i, c := range presses {
		fmt.Printf("  %2d. row %d col %d\n", i+1, c.Row, c.Col)
		if showSteps {
			g = g.ToggleAround(c)
			fmt.Println(indent(g.String()))
		}
	}
	return nil
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return "      " + strings.Join(lines, "\n      ")
}

// recordStore opens the data dir named by the effective config without
// creating it.
func recordStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("no data dir configured")
	}
	return storage.New(cfg.DataDir), nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	st, err := recordStore(cmd)
	if err != nil {
		return err
	}
	records, err := st.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no recorded games")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSURFACE\tFINISHED\tSIZE\tCHANCE\tMOVES\tTIME")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%.2f\t%d\t%s\n",
			r.ID,
			r.Surface,
			r.FinishedAt.Format("2006-01-02 15:04:05"),
			r.Height, r.Width,
			r.Probability,
			r.Moves,
			r.Duration.Round(time.Second),
		)
	}
	return w.Flush()
}

func plotHistory(cmd *cobra.Command, args []string) error {
	st, err := recordStore(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		g, err := board.ParseString(meta.Initial)
		if err != nil {
			return err
		}
		presses, err := st.LoadPresses(args[0])
		if err != nil {
			return err
		}
		data := []float64{float64(g.LitCount())}
		for _, c := range presses {
			g = g.ToggleAround(c)
			data = append(data, float64(g.LitCount()))
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("lit cells per move (%s)", meta.ID)),
		))
		return nil
	}

	records, err := st.List()
	if err != nil {
		return err
	}
	if len(records) < 2 {
		fmt.Println("need at least two recorded games to plot")
		return nil
	}
	data := make([]float64, len(records))
	for i, r := range records {
		data[i] = float64(r.Moves)
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("moves per win"),
	))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	g, err := loadBoardArg(cmd, args[0])
	if err != nil {
		return err
	}

	if svgOut == "" {
		fmt.Print(export.GridToSVG(g, svgScale))
		return nil
	}

	if strings.EqualFold(filepath.Ext(svgOut), ".png") {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		if err := export.WritePNG(f, g, svgScale); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	} else if err := os.WriteFile(svgOut, []byte(export.GridToSVG(g, svgScale)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

// loadBoardArg treats arg as a record id, falling back to a board file.
func loadBoardArg(cmd *cobra.Command, arg string) (board.Grid, error) {
	st, err := recordStore(cmd)
	if err != nil {
		return board.Grid{}, err
	}
	meta, err := st.Load(arg)
	if err == nil {
		return board.ParseString(meta.Initial)
	}
	if recordOnly {
		return board.Grid{}, err
	}
	f, ferr := os.Open(arg)
	if ferr != nil {
		return board.Grid{}, fmt.Errorf("%s is neither a record nor a board file: %w", arg, ferr)
	}
	defer f.Close()
	return board.Parse(f)
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if benchRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", benchRuns)
	}
	seedStart := cfg.Seed
	if seedStart == 0 {
		seedStart = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	outcomes, err := survey.NewEnsemble(*cfg, benchRuns, seedStart).WithWorkers(benchJobs).Run(ctx)
	if err != nil {
		return err
	}
	sum := survey.Summarize(outcomes)
	slog.Debug("bench done", slog.Int("runs", benchRuns), slog.Duration("elapsed", time.Since(start)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "board\t%dx%d, chance %.2f\n", cfg.Height, cfg.Width, cfg.InitialOnProbability)
	fmt.Fprintf(w, "seeds\t%d..%d\n", seedStart, seedStart+int64(benchRuns)-1)
	fmt.Fprintf(w, "solvable\t%d/%d (%.1f%%)\n", sum.Solvable, sum.Games, 100*sum.SolvableFraction())
	fmt.Fprintf(w, "mean presses\t%.2f\n", sum.MeanPresses)
	fmt.Fprintf(w, "max presses\t%d\n", sum.MaxPresses)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(sum.PressCounts) > 1 {
		data := make([]float64, len(sum.PressCounts))
		for i, n := range sum.PressCounts {
			data[i] = float64(n)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Caption("solvable boards by minimal presses"),
		))
	}
	return nil
}
