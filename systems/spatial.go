// Package systems contains the per-tick simulation systems: vehicle
// movement, projectile flight, and collision detection. Systems are run in
// a fixed order by the game loop; none of them creates or removes entities
// directly, they report events for the pipeline to act on.
package systems

import (
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/entity"
)

// Neighbor holds a nearby entity with precomputed spatial data.
// This avoids recomputing delta and distance in the narrow phase.
type Neighbor struct {
	H      components.Handle
	DX, DY float32 // Delta from query origin
	DistSq float32 // Squared distance (avoid sqrt in hot path)
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid.
// The arena is bounded and wall-sealed, so out-of-range positions clamp
// to the border cells instead of wrapping.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]components.Handle // flat grid of handle lists
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]components.Handle, cols*rows)
	for i := range cells {
		cells[i] = make([]components.Handle, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(h components.Handle, pos components.Vec2) {
	idx := g.cellIndex(pos.X, pos.Y)
	g.cells[idx] = append(g.cells[idx], h)
}

// Rebuild clears the grid and reinserts every live vehicle. Projectiles
// query against vehicles, never each other, so only vehicles are indexed.
func (g *SpatialGrid) Rebuild(store *entity.Store) {
	g.Clear()
	store.ForEachVehicle(func(h components.Handle, tr *components.Transform, _ *components.VehicleState) {
		g.Insert(h, tr.Pos)
	})
}

// MaxQueryResults caps the number of neighbors returned by spatial queries.
// This prevents density spikes from causing unbounded work.
const MaxQueryResults = 128

// QueryRadiusInto finds entities within radius and appends to dst (up to
// MaxQueryResults). Returns the updated slice. Reuse dst across calls to
// avoid allocations. Handles are appended in cell-scan order; callers that
// need the determinism tie-break must sort or iterate the store instead.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, pos components.Vec2, radius float32, exclude components.Handle, store *entity.Store) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	centerCol := int(pos.X / g.cellSize)
	centerRow := int(pos.Y / g.cellSize)

	radiusSq := radius * radius

	for dr := -cellRadius; dr <= cellRadius; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}

			for _, h := range g.cells[row*g.cols+col] {
				if h == exclude {
					continue
				}
				tr := store.Transform(h)
				if tr == nil {
					continue
				}

				dx := tr.Pos.X - pos.X
				dy := tr.Pos.Y - pos.Y
				distSq := dx*dx + dy*dy

				if distSq <= radiusSq {
					dst = append(dst, Neighbor{H: h, DX: dx, DY: dy, DistSq: distSq})
					// Early exit if we hit the cap
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float32) int {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

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
