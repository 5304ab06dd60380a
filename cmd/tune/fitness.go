package main

import (
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config
	workers    int

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	bestFitness float64
	bestHOF     []telemetry.HallEntry
}

// NewFitnessEvaluator creates a new evaluator. workers bounds how many
// seeds run at once (0 = all).
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config, workers int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		workers:    workers,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// BestHallOfFame returns the hall of fame from the fittest single run so
// far, or nil before any run has finished.
func (fe *FitnessEvaluator) BestHallOfFame() []telemetry.HallEntry {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHOF
}

// A run counts as collapsed once creatures stay below minViablePop for
// extinctionGraceSec after the warmup.
const (
	minViablePop       = 2
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int64                   // ticks before collapse (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	hallOfFame    []telemetry.HallEntry
}

type seedResult struct {
	fitness    float64
	quality    float64
	hallOfFame []telemetry.HallEntry
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]seedResult, len(fe.seeds))
	var eg errgroup.Group
	if fe.workers > 0 {
		eg.SetLimit(fe.workers)
	}
	for i, seed := range fe.seeds {
		eg.Go(func() error {
			r, err := fe.runSimulation(cfg, seed)
			if err != nil {
				return err
			}
			results[i] = seedResult{
				fitness:    computeFitness(r),
				quality:    computeQuality(r.windowStats),
				hallOfFame: r.hallOfFame,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		// The parameters produced an unusable config: worst possible score.
		return 0
	}

	var totalFitness, totalQuality float64
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if fe.bestHOF == nil || r.fitness < fe.bestFitness {
			fe.bestFitness = r.fitness
			fe.bestHOF = r.hallOfFame
		}
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until collapse or maxTicks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) (*runResult, error) {
	result := &runResult{}

	g, err := game.New(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Close()

	tps := cfg.Derived.TPS
	warmupTicks := int64(warmupSec * tps)
	graceTicks := int64(extinctionGraceSec * tps)
	var belowTicks int64

	for g.Tick() < fe.maxTicks {
		g.Step()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		if g.NumCreatures() < minViablePop {
			belowTicks++
		} else {
			belowTicks = 0
		}
		if belowTicks >= graceTicks {
			result.survivalTicks = tick
			result.hallOfFame = g.HallOfFame()
			return result, nil
		}
	}

	result.survivalTicks = fe.maxTicks
	result.hallOfFame = g.HallOfFame()
	return result, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	return -(survival * (1.0 + 0.2*computeQuality(r.windowStats)))
}

// Quality component weights.
const (
	qualityWeightBirths    = 0.50
	qualityWeightStability = 0.30
	qualityWeightFeeding   = 0.20

	qualityWarmupWindows = 3 // skip first N windows (warmup)
)

// computeQuality scores a run in [0, 1]: populations sustained by births
// rather than ambient spawns, stable in size, with fruit actually eaten.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var births, spawns, eaten, expired int
	counts := make([]float64, 0, len(valid))
	for _, w := range valid {
		births += w.Births
		spawns += w.Spawns
		eaten += w.FruitEaten
		expired += w.FruitExpired
		counts = append(counts, float64(w.Creatures))
	}

	birthScore := 0.0
	if births+spawns > 0 {
		birthScore = float64(births) / float64(births+spawns)
	}

	stabilityScore := 0.0
	if len(counts) >= 2 {
		c := cv(counts)
		stabilityScore = math.Exp(-c * c)
	}

	feedScore := 0.0
	if eaten+expired > 0 {
		feedScore = float64(eaten) / float64(eaten+expired)
	}

	quality := qualityWeightBirths*birthScore +
		qualityWeightStability*stabilityScore +
		qualityWeightFeeding*feedScore
	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	mean, std := telemetry.MeanStd(values)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return max(0, min(x, 1))
}
