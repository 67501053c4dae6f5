// Package arena holds the immutable per-session tile grid and answers the
// terrain queries the simulation makes every tick. The grid is built once
// from a decoded image; the color-to-tile table is a wire format between
// map art and simulation and is versioned for that reason.
package arena

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/exp/rand"

	"github.com/pthm-cable/warpath/components"
)

// TileKind classifies one tile's collision behavior.
type TileKind uint8

const (
	// TileOpen is freely drivable ground.
	TileOpen TileKind = iota
	// TileWall blocks vehicles and stops projectiles.
	TileWall
	// TileWater is drivable but slows vehicles; projectiles pass over.
	TileWater
	// TileSpawn is open ground that vehicles may (re)spawn on.
	TileSpawn
)

func (k TileKind) String() string {
	switch k {
	case TileOpen:
		return "open"
	case TileWall:
		return "wall"
	case TileWater:
		return "water"
	case TileSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// Blocks reports whether the tile stops movement and projectiles.
func (k TileKind) Blocks() bool {
	return k == TileWall
}

// ColorTableVersion is bumped whenever a color is reassigned, so stale
// map art fails loudly instead of silently producing the wrong terrain.
const ColorTableVersion = 1

// ColorTable maps 24-bit RGB pixel values to tile kinds. Alpha is
// ignored. Any pixel color missing from the table is a load error, never
// a default: an unrecognized wall color decoded as open ground would
// silently delete terrain.
type ColorTable map[uint32]TileKind

// rgbKey packs 8-bit channels into a table key.
func rgbKey(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// DefaultColorTable is color table version 1.
func DefaultColorTable() ColorTable {
	return ColorTable{
		rgbKey(48, 104, 48):  TileOpen,
		rgbKey(96, 96, 96):   TileWall,
		rgbKey(32, 80, 192):  TileWater,
		rgbKey(255, 200, 64): TileSpawn,
	}
}

// Grid is the immutable tile map. It never references entities.
type Grid struct {
	cols, rows int
	tileSize   float32
	kinds      []TileKind
	spawns     []components.Vec2 // tile centers of spawn tiles, row-major order
}

// Build constructs a grid from a decoded image: one pixel per tile. It
// fails on degenerate dimensions or any color missing from the table; a
// partially understood map is never simulated.
func Build(img image.Image, table ColorTable, tileSize float32) (*Grid, error) {
	b := img.Bounds()
	cols, rows := b.Dx(), b.Dy()
	if cols < 3 || rows < 3 {
		return nil, fmt.Errorf("map too small: %dx%d tiles (minimum 3x3)", cols, rows)
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("invalid tile size %v", tileSize)
	}

	g := &Grid{
		cols:     cols,
		rows:     rows,
		tileSize: tileSize,
		kinds:    make([]TileKind, cols*rows),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			r, gr, bl, _ := img.At(b.Min.X+col, b.Min.Y+row).RGBA()
			key := rgbKey(uint8(r>>8), uint8(gr>>8), uint8(bl>>8))
			kind, ok := table[key]
			if !ok {
				return nil, fmt.Errorf("map tile (%d,%d): unrecognized color #%06x (color table v%d)",
					col, row, key, ColorTableVersion)
			}
			g.kinds[row*cols+col] = kind
			if kind == TileSpawn {
				g.spawns = append(g.spawns, g.GridToWorld(col, row))
			}
		}
	}

	return g, nil
}

// Cols returns the grid width in tiles.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height in tiles.
func (g *Grid) Rows() int { return g.rows }

// TileSize returns the tile edge length in world units.
func (g *Grid) TileSize() float32 { return g.tileSize }

// Bounds returns the map extents in world units.
func (g *Grid) Bounds() (w, h float32) {
	return float32(g.cols) * g.tileSize, float32(g.rows) * g.tileSize
}

// TileAt returns the tile kind at grid coordinates. Anything outside the
// grid is a wall, so the world is sealed without special-casing edges.
func (g *Grid) TileAt(col, row int) TileKind {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return TileWall
	}
	return g.kinds[row*g.cols+col]
}

// WorldToGrid converts a world position to tile coordinates.
func (g *Grid) WorldToGrid(p components.Vec2) (col, row int) {
	return int(math.Floor(float64(p.X / g.tileSize))), int(math.Floor(float64(p.Y / g.tileSize)))
}

// GridToWorld returns the world-space center of a tile.
func (g *Grid) GridToWorld(col, row int) components.Vec2 {
	return components.Vec2{
		X: (float32(col) + 0.5) * g.tileSize,
		Y: (float32(row) + 0.5) * g.tileSize,
	}
}

// KindAt returns the tile kind under a world position.
func (g *Grid) KindAt(p components.Vec2) TileKind {
	col, row := g.WorldToGrid(p)
	return g.TileAt(col, row)
}

// Blocked reports whether the world position is inside blocking terrain.
func (g *Grid) Blocked(p components.Vec2) bool {
	return g.KindAt(p).Blocks()
}

// CollidesCircle reports whether a circle overlaps any blocking tile.
func (g *Grid) CollidesCircle(center components.Vec2, radius float32) bool {
	minCol, minRow := g.WorldToGrid(components.Vec2{X: center.X - radius, Y: center.Y - radius})
	maxCol, maxRow := g.WorldToGrid(components.Vec2{X: center.X + radius, Y: center.Y + radius})

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if !g.TileAt(col, row).Blocks() {
				continue
			}
			if g.circleTileOverlap(center, radius, col, row) {
				return true
			}
		}
	}
	return false
}

// circleTileOverlap tests a circle against one tile's rectangle.
func (g *Grid) circleTileOverlap(center components.Vec2, radius float32, col, row int) bool {
	x0 := float32(col) * g.tileSize
	y0 := float32(row) * g.tileSize
	x1 := x0 + g.tileSize
	y1 := y0 + g.tileSize

	cx := clampf(center.X, x0, x1)
	cy := clampf(center.Y, y0, y1)
	dx := center.X - cx
	dy := center.Y - cy
	return dx*dx+dy*dy < radius*radius
}

// SegmentHit casts the segment a->b against blocking terrain and returns
// the first blocked sample point. Sampling steps at a quarter tile, which
// is finer than any projectile moves per tick at catalog speeds.
func (g *Grid) SegmentHit(a, b components.Vec2) (components.Vec2, bool) {
	delta := b.Sub(a)
	dist := delta.Len()
	step := g.tileSize / 4
	n := int(dist/step) + 1

	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		p := a.Add(delta.Scale(t))
		if g.Blocked(p) {
			return p, true
		}
	}
	return components.Vec2{}, false
}

// Spawns returns the spawn tile centers in row-major order.
func (g *Grid) Spawns() []components.Vec2 {
	return g.spawns
}

// RandomSpawn picks a spawn tile and facing using the given stream.
// Grids used for sessions are validated to have spawn tiles at load.
func (g *Grid) RandomSpawn(rnd *rand.Rand) (components.Vec2, float32) {
	if len(g.spawns) == 0 {
		panic("arena: RandomSpawn on grid without spawn tiles")
	}
	pos := g.spawns[rnd.Intn(len(g.spawns))]
	angle := rnd.Float32() * 2 * math.Pi
	return pos, angle
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
