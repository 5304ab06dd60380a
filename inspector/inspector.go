package inspector

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/critters/game"
)

// Section is a titled group of fields.
type Section struct {
	Title  string
	Fields []Field
}

// Panel is the inspection view of a single creature.
type Panel struct {
	Title    string
	Sections []Section
}

// lineage holds the per-lifetime counters that live outside the components.
type lineage struct {
	Generation int  `inspect:"label"`
	Children   int  `inspect:"label"`
	FruitEaten int  `inspect:"label"`
	WantsMate  bool `inspect:"bool"`
}

// Build lays out the panel for a creature snapshot.
func Build(s game.CreatureSnapshot) Panel {
	lin := lineage{
		Generation: s.Generation,
		Children:   s.Children,
		FruitEaten: s.FruitEaten,
		WantsMate:  s.WantsToReproduce,
	}

	life := ExtractFields(s.Life)
	life = append(life, Field{
		Name:    "Remaining",
		Value:   s.Life.RemainingPercent(),
		Widget:  WidgetBar,
		Options: map[string]string{"max": "100", "fmt": "%.0f%%"},
	})

	return Panel{
		Title: fmt.Sprintf("%s #%d", s.Identity.Name, s.Identity.ID),
		Sections: []Section{
			{Title: "Genes", Fields: ExtractFields(s.Genes)},
			{Title: "Body", Fields: ExtractFields(s.Body)},
			{Title: "Life", Fields: life},
			{Title: "Mind", Fields: ExtractFields(s.Mind)},
			{Title: "Lineage", Fields: ExtractFields(lin)},
		},
	}
}

// Lines renders the panel as plain text rows, bars drawn with width cells.
func (p Panel) Lines(width int) []string {
	lines := []string{p.Title}
	for _, sec := range p.Sections {
		lines = append(lines, "["+sec.Title+"]")
		for _, f := range sec.Fields {
			lines = append(lines, fmt.Sprintf("  %-12s %s", f.Name, textValue(f, width)))
		}
	}
	return lines
}

func textValue(f Field, width int) string {
	switch f.Widget {
	case WidgetBar:
		filled := int(f.Fraction()*float64(width) + 0.5)
		return strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + " " + f.Text()
	case WidgetBool:
		if b, _ := f.Value.(bool); b {
			return "yes"
		}
		return "no"
	default:
		return f.Text()
	}
}
