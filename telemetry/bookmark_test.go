package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_BabyBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 200), Creatures: 20, Births: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1000, Creatures: 30, Births: 9})
	if !hasBookmark(bookmarks, BookmarkBabyBoom) {
		t.Error("expected baby_boom bookmark")
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 200), Creatures: 40})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1000, Creatures: 12})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}

	// Peak resets after a crash, so a steady low population does not retrigger.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 1200, Creatures: 12})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("crash bookmark retriggered")
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{WindowEndTick: 200, Creatures: 3})

	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 400, Creatures: 0}), BookmarkExtinction) {
		t.Error("expected extinction bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 600, Creatures: 0}), BookmarkExtinction) {
		t.Error("extinction should trigger only on the transition")
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var found bool
	for i := 0; i < 12; i++ {
		stats := WindowStats{WindowEndTick: int64(i * 200), Creatures: 20 + i%2}
		if hasBookmark(bd.Check(stats), BookmarkStablePopulation) {
			found = true
		}
	}
	if !found {
		t.Error("expected stable_population bookmark")
	}
}
