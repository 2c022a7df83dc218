package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"herdsim/internal/agent"
	"herdsim/internal/config"
	"herdsim/internal/engine"
	"herdsim/internal/market"
	"herdsim/internal/plot"
	"herdsim/internal/report"
	"herdsim/internal/scheduler"
	"herdsim/internal/store"
)

func main() {
	// Parse CLI flags. Flags override the config file.
	agents := flag.Int("agents", 0, "Number of simulated agents (overrides config)")
	horizon := flag.Int("horizon", 0, "Number of years to simulate (overrides config)")
	seed := flag.Int64("seed", 0, "Random seed; 0 seeds from the clock")
	workers := flag.Int("workers", 0, "Goroutines for per-period agent updates (overrides config)")
	interactive := flag.Bool("interactive", false, "Prompt for each interval instead of using the schedule")
	noPlot := flag.Bool("no-plot", false, "Skip the terminal chart at the end of the run")
	flag.Parse()

	// Load configuration.
	configPath := "config.toml"
	if p := os.Getenv("HERDSIM_CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *agents > 0 {
		cfg.Simulation.Agents = *agents
	}
	if *horizon > 0 {
		cfg.Simulation.Horizon = *horizon
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *workers > 0 {
		cfg.Simulation.Workers = *workers
	}
	if *noPlot {
		cfg.General.Plot = false
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Set up structured logging on stderr; stdout carries the reports.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	runSeed := cfg.Simulation.Seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(runSeed))

	slog.Info("herdsim starting",
		"agents", cfg.Simulation.Agents,
		"horizon", cfg.Simulation.Horizon,
		"seed", runSeed,
		"start_state", cfg.Simulation.StartState,
	)

	// Initialize the run archive.
	database, err := store.Open(cfg.General.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := store.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database initialized", "path", cfg.General.DBPath)

	archive := store.New(database)
	runID, err := archive.CreateRun(runSeed, cfg.Simulation.Agents, cfg.Simulation.Horizon, cfg.Simulation.StartState)
	if err != nil {
		slog.Error("failed to create run record", "error", err)
		os.Exit(1)
	}

	// Build the core from the immutable default tables.
	model, err := market.NewModel(market.DefaultMatrix(), market.DefaultMultipliers())
	if err != nil {
		slog.Error("invalid market tables", "error", err)
		os.Exit(1)
	}
	pop, err := agent.NewRandomPopulation(cfg.Simulation.Agents, agent.DefaultProfiles(), rng)
	if err != nil {
		slog.Error("failed to build population", "error", err)
		os.Exit(1)
	}
	eng, err := engine.New(model, pop, cfg.StartState(), cfg.Simulation.Horizon, cfg.Simulation.Workers, rng)
	if err != nil {
		slog.Error("failed to build engine", "error", err)
		os.Exit(1)
	}

	var intervals scheduler.IntervalSource
	if *interactive {
		intervals = scheduler.NewPromptSource(os.Stdin, os.Stdout)
	} else {
		intervals = scheduler.NewScheduleSource(cfg.Simulation.Schedule)
	}

	sched := scheduler.New(eng, report.NewPrinter(os.Stdout), intervals, archive, runID)

	// Graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := sched.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	if cfg.General.Plot && isatty.IsTerminal(os.Stdout.Fd()) {
		if err := plot.Show(eng.History()); err != nil {
			slog.Warn("plot skipped", "error", err)
		}
	} else {
		slog.Info("run complete",
			"periods", eng.Period(),
			"final_index", eng.MarketIndex(),
			"final_active_value", pop.TotalActiveValue(),
		)
	}

	slog.Info("herdsim stopped", "run_id", runID)
}
