// Package renderer draws simulation state pushed through game.RenderSink.
// Store holds the latest snapshots; Board draws them with raylib and
// Terminal draws them with tcell.
package renderer

import (
	"slices"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/game"
)

// Store keeps the most recent snapshot of every entity on the board.
// It implements game.RenderSink and is only touched from the goroutine
// that steps the simulation.
type Store struct {
	entities map[uint32]game.EntitySnapshot
	order    []game.EntitySnapshot
	dirty    bool
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{entities: make(map[uint32]game.EntitySnapshot)}
}

// Update records s, replacing any earlier snapshot with the same ID.
func (s *Store) Update(snap game.EntitySnapshot) {
	s.entities[snap.ID] = snap
	s.dirty = true
}

// Remove forgets an entity.
func (s *Store) Remove(id uint32) {
	if _, ok := s.entities[id]; ok {
		delete(s.entities, id)
		s.dirty = true
	}
}

// Get returns the snapshot for id.
func (s *Store) Get(id uint32) (game.EntitySnapshot, bool) {
	snap, ok := s.entities[id]
	return snap, ok
}

// Len returns the number of entities held.
func (s *Store) Len() int {
	return len(s.entities)
}

// Sorted returns every snapshot in draw order: fruit first, then
// creatures, each by ascending ID. The slice is reused between calls.
func (s *Store) Sorted() []game.EntitySnapshot {
	if !s.dirty {
		return s.order
	}
	s.order = s.order[:0]
	for _, snap := range s.entities {
		s.order = append(s.order, snap)
	}
	slices.SortFunc(s.order, func(a, b game.EntitySnapshot) int {
		if a.Kind != b.Kind {
			if a.Kind == components.KindFruit {
				return -1
			}
			return 1
		}
		return int(a.ID) - int(b.ID)
	})
	s.dirty = false
	return s.order
}
