// Package main searches ecology parameters with CMA-ES for worlds where
// creatures sustain themselves through breeding rather than ambient spawns.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/critters/config"
)

// tuneRow is one line of tune_log.csv. Parameter columns hold the clamped
// values the evaluation actually ran with.
type tuneRow struct {
	Eval    int     `csv:"eval"`
	Fitness float64 `csv:"fitness"`
	Quality float64 `csv:"quality"`

	CreatureSpawnRate float64 `csv:"creature_spawn_rate"`
	MoveChance        float64 `csv:"move_chance"`
	BaseLifespan      float64 `csv:"base_lifespan"`
	FeedAmount        float64 `csv:"feed_amount"`
	SpeedSizePenalty  float64 `csv:"speed_size_penalty"`
	MaxUrge           float64 `csv:"max_urge"`
	FruitSpawnRate    float64 `csv:"fruit_spawn_rate"`
	FruitLifespan     float64 `csv:"fruit_lifespan"`
	Cooldown          float64 `csv:"cooldown"`
	Incubation        float64 `csv:"incubation"`
}

func newTuneRow(eval int, fitness, quality float64, cfg *config.Config) tuneRow {
	return tuneRow{
		Eval:              eval,
		Fitness:           fitness,
		Quality:           quality,
		CreatureSpawnRate: cfg.Creature.SpawnRate,
		MoveChance:        cfg.Creature.MoveChance,
		BaseLifespan:      cfg.Creature.BaseLifespan,
		FeedAmount:        cfg.Creature.FeedAmount,
		SpeedSizePenalty:  cfg.Creature.SpeedSizePenalty,
		MaxUrge:           cfg.Creature.MaxUrge,
		FruitSpawnRate:    cfg.Fruit.SpawnRate,
		FruitLifespan:     cfg.Fruit.Lifespan,
		Cooldown:          cfg.Reproduction.Cooldown,
		Incubation:        cfg.Reproduction.Incubation,
	}
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int64("max-ticks", 36000, "Maximum simulation duration in ticks (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	workers := flag.Int("workers", 0, "Seeds simulated in parallel (0 = all)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	// The simulations log every window at Info; keep the console for progress.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		fmt.Fprintln(os.Stderr, "--output is required")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("failed to create output directory", err)
	}

	if err := config.Init(*configPath); err != nil {
		fatal("failed to load config", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, baseCfg, *workers)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // seeds already run in parallel inside Evaluate
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		fatal("failed to create log file", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e18
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			quality := evaluator.LastQuality()
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			applied := baseCfg.Clone()
			params.ApplyToConfig(applied, clamped)
			rows := []tuneRow{newTuneRow(evalCount, fitness, quality, applied)}
			var werr error
			if evalCount == 1 {
				werr = gocsv.Marshal(rows, logFile)
			} else {
				werr = gocsv.MarshalWithoutHeaders(rows, logFile)
			}
			if werr != nil {
				slog.Warn("failed to write tune log", "error", werr)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			survivalSec := -fitness / (1.0 + 0.2*quality) / applied.Derived.TPS
			fmt.Printf("Eval %d/%d: survived=%.0fs quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, survivalSec, quality, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		fmt.Fprintln(os.Stderr, "no evaluations completed")
		os.Exit(1)
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.0f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		slog.Warn("failed to write best config", "error", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}

	if hof := evaluator.BestHallOfFame(); hof != nil {
		hofPath := filepath.Join(*outputDir, "hall_of_fame.json")
		hofData, err := json.MarshalIndent(hof, "", "  ")
		if err != nil {
			slog.Warn("failed to marshal hall of fame", "error", err)
		} else if err := os.WriteFile(hofPath, hofData, 0644); err != nil {
			slog.Warn("failed to write hall of fame", "error", err)
		} else {
			fmt.Printf("Hall of fame saved to: %s\n", hofPath)
		}
	}
}
