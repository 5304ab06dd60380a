package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/inspector"
)

const maxStepsPerFrame = 10

// TUI runs the simulation interactively in a terminal.
type TUI struct {
	g    *game.Game
	term *Terminal

	paused         bool
	stepsPerUpdate int
	maxTicks       int64
}

// NewTUI binds a game to a terminal view. The game must have been created
// with the terminal's Store as its RenderSink.
func NewTUI(g *game.Game, term *Terminal, maxTicks int64) *TUI {
	return &TUI{
		g:              g,
		term:           term,
		stepsPerUpdate: 1,
		maxTicks:       maxTicks,
	}
}

// Run steps and draws until the user quits, ctx is cancelled or maxTicks
// is reached.
func (u *TUI) Run(ctx context.Context) error {
	cfg := u.g.Config()
	ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.Derived.TPS))
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := u.term.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	u.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !u.handleEvent(ev) {
				return nil
			}
			u.draw()

		case <-ticker.C:
			if !u.paused {
				for i := 0; i < u.stepsPerUpdate; i++ {
					u.g.Step()
				}
			}
			u.g.RecordFrame()
			u.draw()

			if u.maxTicks > 0 && u.g.Tick() >= u.maxTicks {
				slog.Info("max ticks reached", "tick", u.g.Tick())
				return nil
			}
		}
	}
}

// handleEvent applies one input event. Returns false to quit.
func (u *TUI) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			return false
		case tcell.KeyEscape:
			u.g.Focus(0)
		case tcell.KeyTab:
			u.focusNext()
		case tcell.KeyRune:
			return u.handleRune(ev.Rune())
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return true
		}
		x, y := ev.Position()
		if p, ok := u.term.WorldAt(x, y); ok {
			if id, ok := u.g.CreatureAt(p); ok {
				u.g.Focus(id)
			}
		}

	case *tcell.EventResize:
		u.term.Resize()
		u.term.screen.Sync()
	}
	return true
}

func (u *TUI) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		u.paused = !u.paused
	case '.', '>':
		u.stepsPerUpdate = min(u.stepsPerUpdate+1, maxStepsPerFrame)
	case ',', '<':
		u.stepsPerUpdate = max(u.stepsPerUpdate-1, 1)
	case 'c':
		if _, err := u.g.SpawnCreature(game.SpawnRequest{}); err != nil {
			slog.Debug("spawn rejected", "error", err)
		}
	case 'f':
		u.g.SpawnFruit()
	}
	return true
}

// focusNext cycles the inspection focus through live creatures by ID.
func (u *TUI) focusNext() {
	current, _ := u.g.Focused()
	var first, next uint32
	for _, s := range u.term.store.Sorted() {
		if s.Kind != components.KindCreature {
			continue
		}
		if first == 0 {
			first = s.ID
		}
		if s.ID > current {
			next = s.ID
			break
		}
	}
	if next == 0 {
		next = first
	}
	u.g.Focus(next)
}

func (u *TUI) draw() {
	focused, _ := u.g.Focused()
	u.term.Draw(focused, u.sidebar())
}

func (u *TUI) sidebar() []string {
	status := "running"
	if u.paused {
		status = "PAUSED"
	}
	lines := []string{
		"[Critters]",
		fmt.Sprintf("tick %d  t=%.1fs  %s", u.g.Tick(), u.g.SimTime(), status),
		fmt.Sprintf("speed %dx", u.stepsPerUpdate),
		fmt.Sprintf("creatures %d  fruit %d", u.g.NumCreatures(), u.g.NumFruits()),
		fmt.Sprintf("pop avg %.1f  pairs %d", u.g.PopulationAverage(), u.g.PendingPairings()),
	}

	sample := u.g.LastGeneSample()
	if sample.Count > 0 {
		lines = append(lines, "[Gene means]")
		for g := components.Gene(0); g < components.NumGenes; g++ {
			lines = append(lines, fmt.Sprintf("  %-18s %6.2f", g.String(), sample.Mean(g)))
		}
	}

	if id, ok := u.g.Focused(); ok {
		if snap, err := u.g.CreatureSnapshot(id); err == nil {
			lines = append(lines, "")
			lines = append(lines, inspector.Build(snap).Lines(10)...)
		}
	}

	lines = append(lines, "", "space pause  </> speed", "c creature  f fruit", "tab/click inspect  q quit")
	return lines
}
