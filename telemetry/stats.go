package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Creatures     int     `csv:"creatures"`
	Fruits        int     `csv:"fruits"`
	PopulationAvg float64 `csv:"population_avg"`
	MaxGeneration int     `csv:"max_generation"`

	// Events during window
	Births          int `csv:"births"`
	Spawns          int `csv:"spawns"`
	Deaths          int `csv:"deaths"`
	FruitSpawned    int `csv:"fruit_spawned"`
	FruitEaten      int `csv:"fruit_eaten"`
	FruitExpired    int `csv:"fruit_expired"`
	Pairings        int `csv:"pairings"`
	PairingsAborted int `csv:"pairings_aborted"`

	// Remaining life fraction (sampled at window end)
	LifeMean float64 `csv:"life_mean"`
	LifeP10  float64 `csv:"life_p10"`
	LifeP50  float64 `csv:"life_p50"`
	LifeP90  float64 `csv:"life_p90"`

	// Reproductive urge (sampled at window end)
	UrgeMean float64 `csv:"urge_mean"`
	UrgeStd  float64 `csv:"urge_std"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean and percentiles. Empty input yields zeros.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// MeanStd returns the population mean and standard deviation.
// Empty input yields zeros.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("creatures", s.Creatures),
		slog.Int("fruits", s.Fruits),
		slog.Float64("population_avg", s.PopulationAvg),
		slog.Int("max_generation", s.MaxGeneration),
		slog.Int("births", s.Births),
		slog.Int("spawns", s.Spawns),
		slog.Int("deaths", s.Deaths),
		slog.Int("fruit_spawned", s.FruitSpawned),
		slog.Int("fruit_eaten", s.FruitEaten),
		slog.Int("fruit_expired", s.FruitExpired),
		slog.Int("pairings", s.Pairings),
		slog.Int("pairings_aborted", s.PairingsAborted),
		slog.Float64("life_mean", s.LifeMean),
		slog.Float64("life_p50", s.LifeP50),
		slog.Float64("urge_mean", s.UrgeMean),
		slog.Float64("urge_std", s.UrgeStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
