// mapcheck validates an arena map PNG before it ships: every pixel must
// decode against the current color table, the map needs enough spawn
// tiles, and all spawns must be mutually reachable over drivable ground.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
)

func main() {
	tileSize := flag.Float64("tile-size", 32.0, "Tile edge length in world units")
	minSpawns := flag.Int("min-spawns", 2, "Minimum number of spawn tiles")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: mapcheck [flags] <map.png>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	config.MustInit("")

	grid, err := arena.LoadFile(path, float32(*tileSize))
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}

	report(grid)

	failed := false
	if n := len(grid.Spawns()); n < *minSpawns {
		fmt.Printf("FAIL: %d spawn tiles, need at least %d\n", n, *minSpawns)
		failed = true
	}

	if unreachable := disconnectedSpawns(grid); len(unreachable) > 0 {
		for _, s := range unreachable {
			col, row := grid.WorldToGrid(s)
			fmt.Printf("FAIL: spawn at tile (%d,%d) unreachable from the first spawn\n", col, row)
		}
		failed = true
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("OK")
}

// report prints the grid dimensions and tile census.
func report(grid *arena.Grid) {
	counts := map[arena.TileKind]int{}
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			counts[grid.TileAt(col, row)]++
		}
	}

	w, h := grid.Bounds()
	fmt.Printf("grid: %dx%d tiles (%.0fx%.0f world units)\n", grid.Cols(), grid.Rows(), w, h)
	for _, kind := range []arena.TileKind{arena.TileOpen, arena.TileWall, arena.TileWater, arena.TileSpawn} {
		fmt.Printf("  %-6s %d\n", kind, counts[kind])
	}
}

// disconnectedSpawns flood-fills drivable tiles from the first spawn and
// returns every spawn the fill never reached. Water counts as drivable;
// vehicles cross it slowly but they do cross it.
func disconnectedSpawns(grid *arena.Grid) []components.Vec2 {
	spawns := grid.Spawns()
	if len(spawns) < 2 {
		return nil
	}

	cols, rows := grid.Cols(), grid.Rows()
	visited := make([]bool, cols*rows)

	startCol, startRow := grid.WorldToGrid(spawns[0])
	queue := [][2]int{{startCol, startRow}}
	visited[startRow*cols+startCol] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			col, row := cur[0]+d[0], cur[1]+d[1]
			if col < 0 || col >= cols || row < 0 || row >= rows {
				continue
			}
			idx := row*cols + col
			if visited[idx] || grid.TileAt(col, row).Blocks() {
				continue
			}
			visited[idx] = true
			queue = append(queue, [2]int{col, row})
		}
	}

	var unreachable []components.Vec2
	for _, s := range spawns[1:] {
		col, row := grid.WorldToGrid(s)
		if !visited[row*cols+col] {
			unreachable = append(unreachable, s)
		}
	}
	return unreachable
}
