package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/telemetry"
)

// StatsGraph plots population and gene means over simulated time.
// Each gene is normalised to its configured range so all lines share
// one vertical axis.
type StatsGraph struct {
	renderer *Renderer
	history  *telemetry.History
	ranges   [components.NumGenes]config.GeneRange

	x, y, width, height int32
}

// NewStatsGraph creates a graph holding up to capacity samples.
func NewStatsGraph(capacity int, genes config.GenesConfig, x, y, width, height int32) *StatsGraph {
	return &StatsGraph{
		renderer: NewRenderer(),
		history:  telemetry.NewHistory(capacity),
		ranges:   components.GeneRanges(genes),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// Push records a gene sample.
func (sg *StatsGraph) Push(s telemetry.GeneSample) {
	sg.history.Push(s)
}

// SetBounds moves and resizes the graph.
func (sg *StatsGraph) SetBounds(x, y, width, height int32) {
	sg.x, sg.y, sg.width, sg.height = x, y, width, height
}

// Draw renders the graph panel with a legend.
func (sg *StatsGraph) Draw() {
	r := sg.renderer
	r.DrawPanel(sg.x, sg.y, sg.width, sg.height)

	pad := r.Theme.Padding
	legendH := r.Theme.LineHeight
	plotX := float32(sg.x + pad)
	plotY := float32(sg.y + pad + legendH)
	plotW := float32(sg.width - pad*2)
	plotH := float32(sg.height - pad*2 - legendH)

	// Legend
	lx := sg.x + pad
	for g := components.Gene(0); g < components.NumGenes; g++ {
		rl.DrawText(g.String(), lx, sg.y+pad-2, r.Theme.FontSize, r.Theme.GraphLines[g])
		lx += rl.MeasureText(g.String(), r.Theme.FontSize) + 10
	}
	rl.DrawText("population", lx, sg.y+pad-2, r.Theme.FontSize, rl.White)

	n := sg.history.Len()
	if n < 2 {
		return
	}

	step := plotW / float32(n-1)
	maxPop := float32(sg.history.MaxCreatures())
	prev := sg.history.At(0)
	for i := 1; i < n; i++ {
		cur := sg.history.At(i)
		x0 := plotX + float32(i-1)*step
		x1 := plotX + float32(i)*step

		for g := components.Gene(0); g < components.NumGenes; g++ {
			y0 := plotY + plotH*(1-sg.normalise(g, prev.Means[g]))
			y1 := plotY + plotH*(1-sg.normalise(g, cur.Means[g]))
			rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, r.Theme.GraphLines[g])
		}

		y0 := plotY + plotH*(1-float32(prev.Creatures)/maxPop)
		y1 := plotY + plotH*(1-float32(cur.Creatures)/maxPop)
		rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, 2, rl.White)
		prev = cur
	}

	last := sg.history.At(n - 1)
	rl.DrawText(fmt.Sprintf("%d @ %.0fs", last.Creatures, last.SimTimeSec),
		sg.x+sg.width-pad-90, sg.y+sg.height-pad-r.Theme.FontSize, r.Theme.FontSize, r.Theme.LabelColor)
}

func (sg *StatsGraph) normalise(g components.Gene, v float64) float32 {
	rg := sg.ranges[g]
	if rg.Max <= rg.Min {
		return 0.5
	}
	return float32(max(0, min((v-rg.Min)/(rg.Max-rg.Min), 1)))
}
