// Package systems provides ECS systems for the simulation.
package systems

import (
	"math"
	"math/rand"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critters/geom"
)

// SpatialGrid partitions the board into fixed-size square cells.
// Every member belongs to exactly one cell; per-cell order is insertion order.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]ecs.Entity
	where    map[ecs.Entity]int
}

// NewSpatialGrid creates a grid of cols x rows cells. Cells are allocated once.
func NewSpatialGrid(cols, rows int, cellSize float64) *SpatialGrid {
	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
		where:    make(map[ecs.Entity]int),
	}
}

// Cols returns the number of cells per row.
func (g *SpatialGrid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g *SpatialGrid) Rows() int { return g.rows }

// NumCells returns cols*rows.
func (g *SpatialGrid) NumCells() int { return len(g.cells) }

// CellSize returns the side length of a cell in world units.
func (g *SpatialGrid) CellSize() float64 { return g.cellSize }

// Len returns the number of entities in the grid.
func (g *SpatialGrid) Len() int { return len(g.where) }

// CellIndexFor returns the cell containing p. Positions off the board are
// clamped to the nearest boundary cell.
func (g *SpatialGrid) CellIndexFor(p geom.Vec2) int {
	col := int(math.Floor(p.X / g.cellSize))
	row := int(math.Floor(p.Y / g.cellSize))

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return row*g.cols + col
}

func (g *SpatialGrid) clampCell(cell int) int {
	return max(0, min(cell, len(g.cells)-1))
}

// Insert adds e to cell. An entity already in the grid is moved instead,
// so it never appears twice.
func (g *SpatialGrid) Insert(e ecs.Entity, cell int) {
	if _, ok := g.where[e]; ok {
		g.Move(e, cell)
		return
	}
	cell = g.clampCell(cell)
	g.cells[cell] = append(g.cells[cell], e)
	g.where[e] = cell
}

// Remove erases e from its cell. Reports whether e was present.
func (g *SpatialGrid) Remove(e ecs.Entity) bool {
	cell, ok := g.where[e]
	if !ok {
		return false
	}
	g.cells[cell] = removeOrdered(g.cells[cell], e)
	delete(g.where, e)
	return true
}

// Move re-buckets e into cell. A no-op when e is already there.
func (g *SpatialGrid) Move(e ecs.Entity, cell int) {
	cell = g.clampCell(cell)
	old, ok := g.where[e]
	if ok && old == cell {
		return
	}
	if ok {
		g.cells[old] = removeOrdered(g.cells[old], e)
	}
	g.cells[cell] = append(g.cells[cell], e)
	g.where[e] = cell
}

// CellOf returns the cell e belongs to.
func (g *SpatialGrid) CellOf(e ecs.Entity) (int, bool) {
	cell, ok := g.where[e]
	return cell, ok
}

// Cell returns the members of one cell. The slice must not be modified.
func (g *SpatialGrid) Cell(cell int) []ecs.Entity {
	return g.cells[g.clampCell(cell)]
}

// NeighborCells appends the 3x3 block centred on cell to dst, row-major.
// Cells that would wrap horizontally onto another row are excluded.
func (g *SpatialGrid) NeighborCells(cell int, dst []int) []int {
	return g.appendBlock(cell, true, dst)
}

// SurroundingCells is NeighborCells without the centre cell.
func (g *SpatialGrid) SurroundingCells(cell int, dst []int) []int {
	return g.appendBlock(cell, false, dst)
}

func (g *SpatialGrid) appendBlock(cell int, centre bool, dst []int) []int {
	col := cell % g.cols
	for _, dr := range [3]int{-1, 0, 1} {
		for _, dc := range [3]int{-1, 0, 1} {
			if dr == 0 && dc == 0 && !centre {
				continue
			}
			idx := cell + dr*g.cols + dc
			if idx < 0 || idx >= len(g.cells) {
				continue
			}
			if d := idx%g.cols - col; d > 1 || d < -1 {
				continue
			}
			dst = append(dst, idx)
		}
	}
	return dst
}

// Neighbors appends every entity in the 3x3 block around cell to dst,
// skipping exclude. Order is cell order, then insertion order.
func (g *SpatialGrid) Neighbors(cell int, exclude ecs.Entity, dst []ecs.Entity) []ecs.Entity {
	var buf [9]int
	for _, idx := range g.NeighborCells(cell, buf[:0]) {
		for _, e := range g.cells[idx] {
			if e == exclude {
				continue
			}
			dst = append(dst, e)
		}
	}
	return dst
}

// Entities appends every member to dst in cell order, then insertion order.
// The result is a snapshot; later grid mutation does not affect it.
func (g *SpatialGrid) Entities(dst []ecs.Entity) []ecs.Entity {
	for _, cell := range g.cells {
		dst = append(dst, cell...)
	}
	return dst
}

// RandomPointInCell returns a uniformly random point inside cell.
func (g *SpatialGrid) RandomPointInCell(rng *rand.Rand, cell int) geom.Vec2 {
	cell = g.clampCell(cell)
	col := cell % g.cols
	row := cell / g.cols
	return geom.Vec2{
		X: (float64(col) + rng.Float64()) * g.cellSize,
		Y: (float64(row) + rng.Float64()) * g.cellSize,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	clear(g.where)
}

func removeOrdered(cell []ecs.Entity, e ecs.Entity) []ecs.Entity {
	if i := slices.Index(cell, e); i >= 0 {
		return slices.Delete(cell, i, i+1)
	}
	return cell
}
