package game

import (
	"log/slog"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// samplePopulation collects the live distributions reported at window end.
func (g *Game) samplePopulation() telemetry.Population {
	pop := telemetry.Population{
		Creatures:     len(g.creatures),
		Fruits:        g.numFruits,
		Average:       g.popWindow.Average(),
		MaxGeneration: g.lifetimeTracker.MaxGeneration(),
		LifeFractions: make([]float64, 0, len(g.creatures)),
		Urges:         make([]float64, 0, len(g.creatures)),
	}

	query := g.creatureFilter.Query()
	for query.Next() {
		_, _, _, life, _, _, mind := query.Get()
		pop.LifeFractions = append(pop.LifeFractions, life.Fraction())
		pop.Urges = append(pop.Urges, mind.Urge)
	}
	return pop
}

// SampleGenes computes population gene means now. With no creatures the
// sample is all zeros.
func (g *Game) SampleGenes() telemetry.GeneSample {
	for i := range g.geneValues {
		g.geneValues[i] = g.geneValues[i][:0]
	}

	query := g.creatureFilter.Query()
	for query.Next() {
		_, _, _, _, _, genes, _ := query.Get()
		for i := components.Gene(0); i < components.NumGenes; i++ {
			g.geneValues[i] = append(g.geneValues[i], genes.Get(i))
		}
	}

	return telemetry.SampleGenes(g.tick, g.SimTime(), &g.geneValues)
}

// recordGeneSample takes the scheduled sample and feeds it to the
// statistics consumers.
func (g *Game) recordGeneSample() {
	sample := g.SampleGenes()
	g.lastSample = sample

	if g.sampleCallback != nil {
		g.sampleCallback(sample)
	}
	if g.outputManager != nil {
		if err := g.outputManager.WriteGenes(sample); err != nil {
			slog.Error("failed to write genes", "error", err)
		}
	}
}
