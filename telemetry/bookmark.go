package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBabyBoom         BookmarkType = "baby_boom"
	BookmarkPopulationCrash  BookmarkType = "population_crash"
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak         int // peak creature count since the last crash
	stableWindowsCount int // consecutive windows with a steady population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkBabyBoom,
			bd.checkPopulationCrash,
			bd.checkExtinction,
			bd.checkStablePopulation,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)

	if stats.Creatures > bd.recentPeak {
		bd.recentPeak = stats.Creatures
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Births
	}
	avg := float64(total) / float64(len(history))

	if stats.Births >= 5 && float64(stats.Births) > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births, %.1fx the recent average", stats.Births, float64(stats.Births)/max(avg, 1)),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak < 10 {
		return nil
	}

	drop := 1.0 - float64(stats.Creatures)/float64(bd.recentPeak)
	if drop > 0.5 {
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Creatures

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Creatures crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Creatures),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if stats.Creatures != 0 || len(history) == 0 || history[len(history)-1].Creatures == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No creatures left after %d", history[len(history)-1].Creatures),
	}
}

func (bd *BookmarkDetector) checkStablePopulation(stats WindowStats) *Bookmark {
	if stats.Creatures < 5 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Creatures)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Creatures) - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable population of about %d over 5+ windows", stats.Creatures),
		}
	}
	return nil
}
