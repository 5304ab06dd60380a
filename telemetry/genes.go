package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/critters/components"
)

// GeneSample is one statistics-feed record: population gene means at a
// moment in simulated time.
type GeneSample struct {
	Tick       int64
	SimTimeSec float64
	Count      int
	Means      map[string]float64
	StdDevs    map[string]float64
}

// SampleGenes summarises gene values collected per gene index.
// With no creatures every mean is zero.
func SampleGenes(tick int64, simTime float64, values *[components.NumGenes][]float64) GeneSample {
	s := GeneSample{
		Tick:       tick,
		SimTimeSec: simTime,
		Count:      len(values[0]),
		Means:      make(map[string]float64, components.NumGenes),
		StdDevs:    make(map[string]float64, components.NumGenes),
	}
	for i := components.Gene(0); i < components.NumGenes; i++ {
		s.Means[i.String()], s.StdDevs[i.String()] = MeanStd(values[i])
	}
	return s
}

// Mean returns the mean of one gene.
func (s GeneSample) Mean(g components.Gene) float64 {
	return s.Means[g.String()]
}

// LogValue implements slog.LogValuer for structured logging.
func (s GeneSample) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("tick", s.Tick),
		slog.Int("count", s.Count),
	}
	for i := components.Gene(0); i < components.NumGenes; i++ {
		attrs = append(attrs, slog.Float64(i.String(), s.Means[i.String()]))
	}
	return slog.GroupValue(attrs...)
}

// GeneSampleCSV is a flat struct for CSV export of gene samples.
type GeneSampleCSV struct {
	Tick                 int64   `csv:"tick"`
	SimTimeSec           float64 `csv:"sim_time"`
	Count                int     `csv:"count"`
	SizeMean             float64 `csv:"size_mean"`
	SizeStd              float64 `csv:"size_std"`
	SpeedMean            float64 `csv:"speed_mean"`
	SpeedStd             float64 `csv:"speed_std"`
	VisionMean           float64 `csv:"vision_mean"`
	VisionStd            float64 `csv:"vision_std"`
	ReproductiveRateMean float64 `csv:"reproductive_rate_mean"`
	ReproductiveRateStd  float64 `csv:"reproductive_rate_std"`
	MutabilityMean       float64 `csv:"mutability_mean"`
	MutabilityStd        float64 `csv:"mutability_std"`
}

// ToCSV converts the sample to a flat CSV-friendly struct.
func (s GeneSample) ToCSV() GeneSampleCSV {
	m, sd := s.Means, s.StdDevs
	return GeneSampleCSV{
		Tick:                 s.Tick,
		SimTimeSec:           s.SimTimeSec,
		Count:                s.Count,
		SizeMean:             m["size"],
		SizeStd:              sd["size"],
		SpeedMean:            m["speed"],
		SpeedStd:             sd["speed"],
		VisionMean:           m["vision"],
		VisionStd:            sd["vision"],
		ReproductiveRateMean: m["reproductive_rate"],
		ReproductiveRateStd:  sd["reproductive_rate"],
		MutabilityMean:       m["mutability"],
		MutabilityStd:        sd["mutability"],
	}
}

// PopulationWindow keeps the most recent population counts for a moving
// average. It is a fixed-size ring.
type PopulationWindow struct {
	samples []int
	next    int
	count   int
}

// NewPopulationWindow creates a window holding size samples.
func NewPopulationWindow(size int) *PopulationWindow {
	return &PopulationWindow{samples: make([]int, max(size, 1))}
}

// Push records a sample, evicting the oldest once full.
func (w *PopulationWindow) Push(n int) {
	w.samples[w.next] = n
	w.next = (w.next + 1) % len(w.samples)
	if w.count < len(w.samples) {
		w.count++
	}
}

// Len returns the number of samples held.
func (w *PopulationWindow) Len() int {
	return w.count
}

// Average returns the mean of the held samples, or 0 when empty.
func (w *PopulationWindow) Average() float64 {
	if w.count == 0 {
		return 0
	}
	sum := 0
	for i := 0; i < w.count; i++ {
		sum += w.samples[i]
	}
	return float64(sum) / float64(w.count)
}

// Values returns the held samples, oldest first.
func (w *PopulationWindow) Values() []int {
	out := make([]int, 0, w.count)
	start := 0
	if w.count == len(w.samples) {
		start = w.next
	}
	for i := 0; i < w.count; i++ {
		out = append(out, w.samples[(start+i)%len(w.samples)])
	}
	return out
}
