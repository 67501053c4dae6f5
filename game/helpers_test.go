package game

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
)

func init() {
	config.MustInit("")
}

var testTileColors = map[rune]color.NRGBA{
	'.': {R: 48, G: 104, B: 48, A: 255},
	'#': {R: 96, G: 96, B: 96, A: 255},
	'~': {R: 32, G: 80, B: 192, A: 255},
	'S': {R: 255, G: 200, B: 64, A: 255},
}

// gridFromLayout builds an arena from ASCII rows at the configured tile size.
func gridFromLayout(t *testing.T, layout string) *arena.Grid {
	t.Helper()
	rows := strings.Split(strings.TrimSpace(layout), "\n")
	img := image.NewNRGBA(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, r := range row {
			img.SetNRGBA(x, y, testTileColors[r])
		}
	}
	g, err := arena.Build(img, arena.DefaultColorTable(), float32(config.Cfg().World.TileSize))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// openArena is a 20x10 bordered arena with four spawn tiles.
func openArena(t *testing.T) *arena.Grid {
	t.Helper()
	return gridFromLayout(t, `
####################
#..................#
#.S..............S.#
#..................#
#..................#
#..................#
#..................#
#.S..............S.#
#..................#
####################
`)
}

// wideArena is long enough east-west that no weapon reaches the far wall.
func wideArena(t *testing.T) *arena.Grid {
	t.Helper()
	return gridFromLayout(t, `
################################
#S.............................#
#..............................#
#..............................#
#.............................S#
################################
`)
}

// newTestSession creates a session or fails the test.
func newTestSession(t *testing.T, grid *arena.Grid, seed uint64, players, bots int) *Session {
	t.Helper()
	s, err := NewSession(grid, seed, players, bots)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// place moves player i's vehicle to a known pose with zero velocity.
func place(t *testing.T, s *Session, i int, pos components.Vec2, angle float32) {
	t.Helper()
	h := s.PlayerHandle(i)
	tr := s.store.Transform(h)
	if tr == nil {
		t.Fatalf("player %d has no vehicle", i)
	}
	tr.Pos = pos
	tr.Vel = components.Vec2{}
	tr.Angle = angle
	s.store.Vehicle(h).TurnRate = 0
}

// countClass counts live entities of one class.
func countClass(s *Session, class components.Class) int {
	n := 0
	s.store.ForEach(func(h components.Handle, c components.Class, tr *components.Transform) {
		if c == class {
			n++
		}
	})
	return n
}
