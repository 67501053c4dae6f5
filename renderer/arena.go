// Package renderer draws the committed simulation state with raylib. It
// reads the entity store and arena grid between ticks and never mutates
// either; all world-to-screen mapping goes through the camera.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/camera"
)

// ArenaRenderer draws the tile grid.
type ArenaRenderer struct {
	grid *arena.Grid

	// ShowSpawns marks spawn tiles with a ring. Driven by the overlay
	// registry each frame.
	ShowSpawns bool
}

// NewArenaRenderer creates a renderer for the given grid.
func NewArenaRenderer(grid *arena.Grid) *ArenaRenderer {
	return &ArenaRenderer{grid: grid, ShowSpawns: true}
}

// Tile palette. Spawn tiles draw like open ground with a faint marker so
// the map reads the same whether or not spawns are highlighted.
var (
	colorOpen       = rl.Color{R: 120, G: 108, B: 84, A: 255}
	colorWall       = rl.Color{R: 52, G: 52, B: 58, A: 255}
	colorWallTop    = rl.Color{R: 78, G: 78, B: 86, A: 255}
	colorWater      = rl.Color{R: 38, G: 80, B: 130, A: 255}
	colorWaterEdge  = rl.Color{R: 60, G: 110, B: 160, A: 255}
	colorSpawnMark  = rl.Color{R: 140, G: 130, B: 100, A: 255}
	colorOutOfWorld = rl.Color{R: 14, G: 14, B: 16, A: 255}
)

// Draw renders every tile intersecting the camera's visible bounds.
func (r *ArenaRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(colorOutOfWorld)

	tile := r.grid.TileSize()
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()

	c0 := int(minX / tile)
	r0 := int(minY / tile)
	c1 := int(maxX/tile) + 1
	r1 := int(maxY/tile) + 1
	if c0 < 0 {
		c0 = 0
	}
	if r0 < 0 {
		r0 = 0
	}
	if c1 > r.grid.Cols() {
		c1 = r.grid.Cols()
	}
	if r1 > r.grid.Rows() {
		r1 = r.grid.Rows()
	}

	edge := tile * 0.2 * cam.Zoom
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			sx, sy := cam.WorldToScreen(float32(col)*tile, float32(row)*tile)
			w := int32(tile*cam.Zoom) + 1
			h := w

			switch r.grid.TileAt(col, row) {
			case arena.TileWall:
				rl.DrawRectangle(int32(sx), int32(sy), w, h, colorWall)
				// Highlight wall faces that border open ground.
				if r.grid.TileAt(col, row-1) != arena.TileWall {
					rl.DrawRectangle(int32(sx), int32(sy), w, int32(edge), colorWallTop)
				}
			case arena.TileWater:
				rl.DrawRectangle(int32(sx), int32(sy), w, h, colorWater)
				if r.grid.TileAt(col, row-1) != arena.TileWater {
					rl.DrawRectangle(int32(sx), int32(sy), w, int32(edge), colorWaterEdge)
				}
			case arena.TileSpawn:
				rl.DrawRectangle(int32(sx), int32(sy), w, h, colorOpen)
				if r.ShowSpawns {
					cx, cy := cam.WorldToScreen(float32(col)*tile+tile/2, float32(row)*tile+tile/2)
					rl.DrawCircleLines(int32(cx), int32(cy), tile*0.25*cam.Zoom, colorSpawnMark)
				}
			default:
				rl.DrawRectangle(int32(sx), int32(sy), w, h, colorOpen)
			}
		}
	}
}
