package renderer

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/geom"
)

// SidebarWidth is the number of columns reserved for text on the right.
const SidebarWidth = 34

var (
	borderStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	headerStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	gridDotStyle = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
)

// Terminal draws the board into a tcell screen, scaled to whatever space
// the terminal offers. The board occupies the left side and a text
// sidebar the right.
type Terminal struct {
	screen tcell.Screen
	store  *Store

	boardW, boardH float64
	cols, rows     int // board cells in the grid, for the dotted overlay

	width, height int
}

// NewTerminal wraps an initialised screen.
func NewTerminal(screen tcell.Screen, store *Store, boardW, boardH float64, cols, rows int) *Terminal {
	t := &Terminal{
		screen: screen,
		store:  store,
		boardW: boardW,
		boardH: boardH,
		cols:   cols,
		rows:   rows,
	}
	t.Resize()
	return t
}

// Resize re-reads the screen dimensions.
func (t *Terminal) Resize() {
	t.width, t.height = t.screen.Size()
}

// boardArea returns the interior size of the board frame in cells.
func (t *Terminal) boardArea() (w, h int) {
	w = t.width - SidebarWidth - 2
	h = t.height - 2
	return max(w, 1), max(h, 1)
}

// CellFor maps a world position to a screen cell inside the frame.
func (t *Terminal) CellFor(p geom.Vec2) (x, y int) {
	w, h := t.boardArea()
	x = int(p.X / t.boardW * float64(w))
	y = int(p.Y / t.boardH * float64(h))
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)
	return x + 1, y + 1
}

// WorldAt maps a screen cell back to the centre of the world area it
// covers. ok is false outside the board frame.
func (t *Terminal) WorldAt(x, y int) (geom.Vec2, bool) {
	w, h := t.boardArea()
	x--
	y--
	if x < 0 || y < 0 || x >= w || y >= h {
		return geom.Vec2{}, false
	}
	return geom.Vec2{
		X: (float64(x) + 0.5) / float64(w) * t.boardW,
		Y: (float64(y) + 0.5) / float64(h) * t.boardH,
	}, true
}

// Draw renders the board, every stored entity and the sidebar lines.
func (t *Terminal) Draw(focused uint32, sidebar []string) {
	t.screen.Clear()
	t.drawFrame()
	t.drawGrid()

	for _, s := range t.store.Sorted() {
		x, y := t.CellFor(s.Pos)
		style := tcell.StyleDefault.Foreground(terminalColor(s.Color))
		if s.ID == focused {
			style = style.Reverse(true)
		}
		t.screen.SetContent(x, y, glyphFor(s), nil, style)
	}

	left := t.width - SidebarWidth + 1
	for i, line := range sidebar {
		if i >= t.height {
			break
		}
		style := textStyle
		if len(line) > 0 && line[0] == '[' {
			style = headerStyle
		}
		t.drawText(left, i, line, style)
	}
	t.screen.Show()
}

func (t *Terminal) drawFrame() {
	w, h := t.boardArea()
	for x := 1; x <= w; x++ {
		t.screen.SetContent(x, 0, tcell.RuneHLine, nil, borderStyle)
		t.screen.SetContent(x, h+1, tcell.RuneHLine, nil, borderStyle)
	}
	for y := 1; y <= h; y++ {
		t.screen.SetContent(0, y, tcell.RuneVLine, nil, borderStyle)
		t.screen.SetContent(w+1, y, tcell.RuneVLine, nil, borderStyle)
	}
	t.screen.SetContent(0, 0, tcell.RuneULCorner, nil, borderStyle)
	t.screen.SetContent(w+1, 0, tcell.RuneURCorner, nil, borderStyle)
	t.screen.SetContent(0, h+1, tcell.RuneLLCorner, nil, borderStyle)
	t.screen.SetContent(w+1, h+1, tcell.RuneLRCorner, nil, borderStyle)
}

// drawGrid marks the interior corners of the spatial grid cells.
func (t *Terminal) drawGrid() {
	if t.cols <= 0 || t.rows <= 0 {
		return
	}
	cw := t.boardW / float64(t.cols)
	ch := t.boardH / float64(t.rows)
	for i := 1; i < t.cols; i++ {
		for j := 1; j < t.rows; j++ {
			x, y := t.CellFor(geom.Vec2{X: float64(i) * cw, Y: float64(j) * ch})
			t.screen.SetContent(x, y, '·', nil, gridDotStyle)
		}
	}
}

func (t *Terminal) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= t.width {
			return
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func glyphFor(s game.EntitySnapshot) rune {
	if s.Kind == components.KindFruit {
		return '*'
	}
	switch s.State {
	case components.StateSeekingMate:
		return '&'
	case components.StateReproducing:
		return '@'
	default:
		if s.Size >= 20 {
			return 'O'
		}
		return 'o'
	}
}

// terminalColor converts a render colour, lifting dying creatures off a
// black background.
func terminalColor(c color.RGBA) tcell.Color {
	r := int32(c.R)
	if c.G == 0 && c.B == 0 {
		r = max(r, 70)
	}
	return tcell.NewRGBColor(r, int32(c.G), int32(c.B))
}
