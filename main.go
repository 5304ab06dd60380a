package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/renderer"
	"github.com/pthm-cable/critters/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	tui := flag.Bool("tui", false, "Run in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stdout (terminal mode discards logs without it)")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var logOut io.Writer = os.Stdout
	if *tui {
		logOut = io.Discard
	}
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case *headless:
		err = runHeadless(ctx, cfg, opts, *maxTicks)
	case *tui:
		err = runTerminal(ctx, cfg, opts, *maxTicks)
	default:
		err = runWindow(cfg, opts, *maxTicks)
	}
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps the simulation as fast as possible without graphics.
func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, maxTicks int64) error {
	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", cfg.Telemetry.StatsWindow,
		"max_ticks", maxTicks,
	)

	for ctx.Err() == nil {
		g.Step()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}
	return g.Close()
}

// runTerminal drives the simulation in a tcell screen.
func runTerminal(ctx context.Context, cfg *config.Config, opts game.Options, maxTicks int64) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	store := renderer.NewStore()
	opts.RenderSink = store
	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}

	term := renderer.NewTerminal(screen, store, cfg.Derived.BoardW, cfg.Derived.BoardH, cfg.Board.Width, cfg.Board.Height)
	runErr := renderer.NewTUI(g, term, maxTicks).Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	if err := g.Close(); err != nil {
		return err
	}
	return runErr
}

// runWindow opens a raylib window and runs the interactive front end.
func runWindow(cfg *config.Config, opts game.Options, maxTicks int64) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Critters")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	store := renderer.NewStore()
	opts.RenderSink = store
	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}

	ui.NewApp(g, store).Run(maxTicks)
	return g.Close()
}
