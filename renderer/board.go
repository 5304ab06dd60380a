package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/camera"
	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/geom"
)

var (
	boardBg      = rl.Color{R: 18, G: 22, B: 28, A: 255}
	gridLine     = rl.Color{R: 40, G: 48, B: 58, A: 255}
	urgeRing     = rl.Color{R: 230, G: 120, B: 200, A: 255}
	pairingRing  = rl.Color{R: 255, G: 210, B: 90, A: 255}
	focusOutline = rl.Color{R: 255, G: 255, B: 255, A: 255}
	visionFill   = rl.Color{R: 120, G: 180, B: 255, A: 30}
)

// Board draws the bounded board and every stored entity with raylib.
type Board struct {
	store *Store
	cam   *camera.Camera

	cols, rows int
	cellSize   float32
}

// NewBoard creates a board view over store.
func NewBoard(store *Store, cam *camera.Camera, cols, rows int, cellSize float64) *Board {
	return &Board{
		store:    store,
		cam:      cam,
		cols:     cols,
		rows:     rows,
		cellSize: float32(cellSize),
	}
}

// Draw renders the board background, grid lines and all entities.
// Must be called between rl.BeginDrawing and rl.EndDrawing.
func (b *Board) Draw(focused uint32) {
	b.drawBackground()

	for _, s := range b.store.Sorted() {
		x, y := float32(s.Pos.X), float32(s.Pos.Y)
		r := float32(s.Size / 2)
		if !b.cam.IsVisible(x, y, r) {
			continue
		}
		sx, sy := b.cam.WorldToScreen(x, y)
		sr := b.cam.Scale(r)
		center := rl.Vector2{X: sx, Y: sy}

		rl.DrawCircleV(center, sr, toRL(s.Color))
		if s.Kind == components.KindFruit {
			continue
		}

		// Reproductive urge as a ring that closes as the urge grows
		if s.UrgeFraction > 0 {
			ring := urgeRing
			if s.State == components.StateReproducing {
				ring = pairingRing
			}
			end := float32(-90 + 360*min(s.UrgeFraction, 1))
			rl.DrawRing(center, sr+1, sr+3, -90, end, 24, ring)
		}
		if s.ID == focused {
			rl.DrawCircleLines(int32(sx), int32(sy), sr+5, focusOutline)
		}
	}
}

// DrawVision shades the vision radius of a creature, used for the focused one.
func (b *Board) DrawVision(pos geom.Vec2, vision float64) {
	sx, sy := b.cam.WorldToScreen(float32(pos.X), float32(pos.Y))
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, b.cam.Scale(float32(vision)), visionFill)
}

func (b *Board) drawBackground() {
	x0, y0 := b.cam.WorldToScreen(0, 0)
	w := b.cam.Scale(float32(b.cols) * b.cellSize)
	h := b.cam.Scale(float32(b.rows) * b.cellSize)
	rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: w, Y: h}, boardBg)

	step := b.cam.Scale(b.cellSize)
	for i := 1; i < b.cols; i++ {
		x := x0 + float32(i)*step
		rl.DrawLineV(rl.Vector2{X: x, Y: y0}, rl.Vector2{X: x, Y: y0 + h}, gridLine)
	}
	for j := 1; j < b.rows; j++ {
		y := y0 + float32(j)*step
		rl.DrawLineV(rl.Vector2{X: x0, Y: y}, rl.Vector2{X: x0 + w, Y: y}, gridLine)
	}
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: w, Height: h}, 1, gridLine)
}

func toRL(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
