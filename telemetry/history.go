package telemetry

import "github.com/pthm-cable/critters/components"

// HistoryPoint is one plotted moment of the statistics graph.
type HistoryPoint struct {
	SimTimeSec float64
	Creatures  int
	Means      [components.NumGenes]float64
}

// History is a bounded ring of gene samples for plotting.
// The oldest point is dropped once Capacity is reached.
type History struct {
	points []HistoryPoint
	start  int
	size   int
}

// NewHistory creates a history holding at most capacity points.
func NewHistory(capacity int) *History {
	return &History{points: make([]HistoryPoint, max(capacity, 1))}
}

// Push appends a gene sample.
func (h *History) Push(s GeneSample) {
	p := HistoryPoint{SimTimeSec: s.SimTimeSec, Creatures: s.Count}
	for g := components.Gene(0); g < components.NumGenes; g++ {
		p.Means[g] = s.Mean(g)
	}

	if h.size < len(h.points) {
		h.points[(h.start+h.size)%len(h.points)] = p
		h.size++
		return
	}
	h.points[h.start] = p
	h.start = (h.start + 1) % len(h.points)
}

// Len returns the number of points held.
func (h *History) Len() int { return h.size }

// At returns the i-th oldest point.
func (h *History) At(i int) HistoryPoint {
	return h.points[(h.start+i)%len(h.points)]
}

// MaxCreatures returns the largest population in the history, at least 1.
func (h *History) MaxCreatures() int {
	m := 1
	for i := 0; i < h.size; i++ {
		m = max(m, h.At(i).Creatures)
	}
	return m
}
