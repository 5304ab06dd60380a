package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/inspector"
)

// Inspector renders the creature inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the panel for one creature and returns the bottom edge.
func (ins *Inspector) Draw(snap game.CreatureSnapshot) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2
	panel := inspector.Build(snap)

	rows := int32(3)
	for _, sec := range panel.Sections {
		rows += int32(len(sec.Fields)) + 1
	}
	panelHeight := rows*(r.Theme.LineHeight+2) + padding*2
	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)

	x := ins.x + padding
	y := ins.y + padding

	rl.DrawText(panel.Title, x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	life := snap.Life
	y = r.DrawColorSwatch(x, y, snap.State().String(), rl.Color(game.LifeColor(life.Fraction())), contentWidth)
	y = r.DrawThresholdBar(x, y, "Life", float32(life.Lifespan)-float32(life.Age), float32(life.Lifespan), contentWidth)

	for _, sec := range panel.Sections {
		y = r.DrawSectionHeader(x, y, sec.Title)
		for _, f := range sec.Fields {
			y = r.DrawInspectorField(x, y, f, contentWidth)
		}
	}

	rl.DrawText(fmt.Sprintf("at (%.0f, %.0f)", snap.Pos.X, snap.Pos.Y), x, y, r.Theme.FontSize, r.Theme.LabelColor)
	return ins.y + panelHeight
}
