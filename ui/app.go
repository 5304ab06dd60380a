package ui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/camera"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/geom"
	"github.com/pthm-cable/critters/renderer"
)

const (
	maxStepsPerUpdate = 10
	graphCapacity     = 600
	sidePanelWidth    = 300
)

const controlsLegend = "[Space] pause  [</>] speed  [Tab] overlays  [click] inspect  [right click] clear  [Home] reset view"

// App is the graphical front end: it steps the game, reads input and
// draws the board and panels each frame. Create it after rl.InitWindow.
type App struct {
	g     *game.Game
	store *renderer.Store
	board *renderer.Board
	cam   *camera.Camera

	hud       *HUD
	perfPanel *PerfPanel
	inspector *Inspector
	graph     *StatsGraph
	spawn     *SpawnPanel
	controls  *ControlsPanel
	overlays  *OverlayRegistry

	screenWidth, screenHeight float32

	paused         bool
	stepsPerUpdate int
	lastSampleTick int64
	sampled        bool
}

// NewApp wires the panels to a game whose RenderSink is store.
func NewApp(g *game.Game, store *renderer.Store) *App {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	cam := camera.New(w, h, float32(cfg.Derived.BoardW), float32(cfg.Derived.BoardH))

	a := &App{
		g:              g,
		store:          store,
		cam:            cam,
		board:          renderer.NewBoard(store, cam, cfg.Board.Width, cfg.Board.Height, cfg.Board.CellSize),
		hud:            NewHUD(),
		perfPanel:      NewPerfPanel(10, 110),
		inspector:      NewInspector(int32(w)-sidePanelWidth-10, 10, sidePanelWidth),
		graph:          NewStatsGraph(graphCapacity, cfg.Genes, 10, int32(h)-200, 460, 160),
		spawn:          NewSpawnPanel(int32(w)-sidePanelWidth-10, int32(h)-230, sidePanelWidth, cfg.Genes),
		controls:       NewControlsPanel(10, 110, 220),
		overlays:       NewOverlayRegistry(),
		screenWidth:    w,
		screenHeight:   h,
		stepsPerUpdate: 1,
	}
	a.overlays.SetEnabled(OverlayGraph, true)
	a.overlays.SetEnabled(OverlayVision, true)
	return a
}

// Run loops until the window closes or maxTicks is reached (0 = unlimited).
func (a *App) Run(maxTicks int64) {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()

		if maxTicks > 0 && a.g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", a.g.Tick())
			return
		}
	}
}

// Update handles input and advances the simulation.
func (a *App) Update() {
	a.handleInput()

	if !a.paused {
		for i := 0; i < a.stepsPerUpdate; i++ {
			a.g.Step()
		}
	}

	if s := a.g.LastGeneSample(); s.Means != nil && (!a.sampled || s.Tick != a.lastSampleTick) {
		a.graph.Push(s)
		a.lastSampleTick = s.Tick
		a.sampled = true
	}
}

// Draw renders one frame.
func (a *App) Draw() {
	a.g.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	focused, hasFocus := a.g.Focused()
	var snap game.CreatureSnapshot
	if hasFocus {
		var err error
		if snap, err = a.g.CreatureSnapshot(focused); err != nil {
			hasFocus = false
		}
	}

	if hasFocus && a.overlays.IsEnabled(OverlayVision) {
		a.board.DrawVision(snap.Pos, snap.Genes.Vision)
	}
	a.board.Draw(focused)
	if a.overlays.IsEnabled(OverlayCellLoad) {
		a.drawCellLoad()
	}

	a.hud.Draw(HUDData{
		Title:         "Critters",
		Creatures:     a.g.NumCreatures(),
		Fruits:        a.g.NumFruits(),
		PendingPairs:  a.g.PendingPairings(),
		PopulationAvg: a.g.PopulationAverage(),
		Tick:          a.g.Tick(),
		SimTime:       a.g.SimTime(),
		Speed:         a.stepsPerUpdate,
		FPS:           rl.GetFPS(),
		Paused:        a.paused,
		ScreenWidth:   int32(a.screenWidth),
		ScreenHeight:  int32(a.screenHeight),
	})

	y := a.controls.Draw(a.overlays)
	if a.overlays.IsEnabled(OverlayPerf) {
		a.perfPanel.SetPosition(10, y+10)
		a.perfPanel.Draw(a.g.PerfStats())
	}

	if a.overlays.IsEnabled(OverlayGraph) {
		a.graph.Draw()
	}
	if a.overlays.IsEnabled(OverlayHallOfFame) {
		a.drawHallOfFame()
	}

	if hasFocus {
		a.inspector.Draw(snap)
	}
	a.applySpawn(a.spawn.Draw())

	a.hud.DrawControls(int32(a.screenWidth), int32(a.screenHeight), controlsLegend)
	rl.EndDrawing()
}

func (a *App) applySpawn(action SpawnAction) {
	if action.Fruit {
		a.g.SpawnFruit()
	}
	if !action.Random && action.Creature == nil {
		return
	}
	id, err := a.g.SpawnCreature(game.SpawnRequest{Genes: action.Creature})
	if err != nil {
		slog.Warn("spawn rejected", "error", err)
		return
	}
	a.g.Focus(id)
}

// drawCellLoad writes the entity count in each spatial grid cell.
func (a *App) drawCellLoad() {
	grid := a.g.Grid()
	size := float32(grid.CellSize())
	for idx := 0; idx < grid.NumCells(); idx++ {
		n := len(grid.Cell(idx))
		if n == 0 {
			continue
		}
		col, row := idx%grid.Cols(), idx/grid.Cols()
		sx, sy := a.cam.WorldToScreen(float32(col)*size+4, float32(row)*size+4)
		rl.DrawText(fmt.Sprintf("%d", n), int32(sx), int32(sy), 12, rl.Gray)
	}
}

func (a *App) drawHallOfFame() {
	r := a.graph.renderer
	entries := a.g.HallOfFame()
	x, y := int32(10), int32(a.screenHeight)-200
	r.DrawPanel(x, y, 460, 160)

	y += r.Theme.Padding
	rl.DrawText("Hall of Fame", x+r.Theme.Padding, y, 14, rl.White)
	y += r.Theme.LineHeight + 2
	for i, e := range entries {
		if i >= 7 {
			break
		}
		rl.DrawText(fmt.Sprintf("%-10s gen %-3d kids %-3d fruit %-3d %.0fs",
			e.Name, e.Generation, e.Children, e.FruitEaten, e.Survival),
			x+r.Theme.Padding, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += r.Theme.LineHeight
	}
}

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && a.stepsPerUpdate > 1 {
		a.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && a.stepsPerUpdate < maxStepsPerUpdate {
		a.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		a.controls.Toggle()
	}
	for _, desc := range a.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			a.overlays.Toggle(desc.ID)
		}
	}

	a.handleCameraInput()
	a.handleSelection()
}

// handleSelection focuses the creature under a left click on the board.
func (a *App) handleSelection() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		a.g.Focus(0)
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if a.overPanel(mouse) {
		return
	}
	wx, wy := a.cam.ScreenToWorld(mouse.X, mouse.Y)
	if id, ok := a.g.CreatureAt(geom.Vec2{X: float64(wx), Y: float64(wy)}); ok {
		a.g.Focus(id)
	}
}

// overPanel reports whether a screen point falls on the right-hand panel column.
func (a *App) overPanel(p rl.Vector2) bool {
	return p.X >= a.screenWidth-sidePanelWidth-10
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h

	a.cam.Resize(w, h)
	a.inspector.SetPosition(int32(w)-sidePanelWidth-10, 10)
	a.spawn.SetPosition(int32(w)-sidePanelWidth-10, int32(h)-230)
	a.graph.SetBounds(10, int32(h)-200, 460, 160)
}

// handleCameraInput processes camera pan/zoom controls.
func (a *App) handleCameraInput() {
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		a.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.cam.Pan(0, -panSpeed)
	}

	// Zoom toward the cursor with the mouse wheel
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		a.cam.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		a.cam.Reset()
	}
}
