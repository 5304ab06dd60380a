package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
)

// ControlsPanel renders the left-side controls panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	// Calculate panel height based on content
	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight // Extra for title

	// Draw panel background
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding

	// Title
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	// Draw overlays by category
	for _, category := range categories {
		// Category header
		catLabel := categoryLabel(category)
		rl.DrawText(catLabel, c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		// Overlays in this category
		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			c.drawToggle(c.x+padding, y, desc, enabled, c.width-padding*2)
			y += lineHeight
		}

		y += 4 // Gap between categories
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	// Name
	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "perception":
		return "Perception"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// SpawnAction is what the spawn panel asked for this frame.
type SpawnAction struct {
	Creature *components.Genes // non-nil: spawn with these genes
	Random   bool              // spawn a creature with random genes
	Fruit    bool
}

// SpawnPanel lets the user dial in genes and spawn creatures or fruit.
type SpawnPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	ranges   [components.NumGenes]config.GeneRange
	genes    components.Genes
}

// NewSpawnPanel creates a spawn panel with sliders centred in each range.
func NewSpawnPanel(x, y, width int32, genes config.GenesConfig) *SpawnPanel {
	p := &SpawnPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		ranges:   components.GeneRanges(genes),
	}
	for g := components.Gene(0); g < components.NumGenes; g++ {
		p.genes.Set(g, p.ranges[g].Mid())
	}
	return p
}

// SetPosition updates the panel position.
func (p *SpawnPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the sliders and buttons and reports any button press.
func (p *SpawnPanel) Draw() SpawnAction {
	r := p.renderer
	padding := r.Theme.Padding
	rowH := r.Theme.LineHeight + 6
	panelHeight := rowH*int32(components.NumGenes) + padding*3 + 30 + r.Theme.LineHeight

	r.DrawPanel(p.x, p.y, p.width, panelHeight)

	y := p.y + padding
	rl.DrawText("Spawn", p.x+padding, y, 14, rl.White)
	y += r.Theme.LineHeight + 2

	sliderX := float32(p.x + padding + r.Theme.LabelWidth)
	sliderW := float32(p.width - padding*2 - r.Theme.LabelWidth - 40)
	for g := components.Gene(0); g < components.NumGenes; g++ {
		rg := p.ranges[g]
		r.DrawLabel(p.x+padding, y+2, g.String())
		v := gui.SliderBar(
			rl.Rectangle{X: sliderX, Y: float32(y), Width: sliderW, Height: float32(r.Theme.BarHeight + 4)},
			"", "",
			float32(p.genes.Get(g)), float32(rg.Min), float32(rg.Max),
		)
		p.genes.Set(g, float64(v))
		rl.DrawText(fmt.Sprintf("%.2f", v), int32(sliderX+sliderW)+6, y+2, r.Theme.FontSize, r.Theme.ValueColor)
		y += rowH
	}

	var action SpawnAction
	y += 4
	bw := float32(p.width-padding*4) / 3
	bx := float32(p.x + padding)
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: bw, Height: 26}, "Creature") {
		genes := p.genes
		action.Creature = &genes
	}
	if gui.Button(rl.Rectangle{X: bx + bw + float32(padding), Y: float32(y), Width: bw, Height: 26}, "Random") {
		action.Random = true
	}
	if gui.Button(rl.Rectangle{X: bx + 2*(bw+float32(padding)), Y: float32(y), Width: bw, Height: 26}, "Fruit") {
		action.Fruit = true
	}
	return action
}
