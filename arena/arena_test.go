package arena

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/pthm-cable/warpath/components"
)

// buildTest makes a grid from an ASCII layout using the default colors.
func buildTest(t *testing.T, layout string, tileSize float32) *Grid {
	t.Helper()
	rows := strings.Split(strings.TrimSpace(layout), "\n")
	img := image.NewNRGBA(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, r := range row {
			c := layoutColors[r]
			img.SetNRGBA(x, y, color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255})
		}
	}
	g, err := Build(img, DefaultColorTable(), tileSize)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

const testLayout = `
#####
#S..#
#.~.#
#..S#
#####
`

func TestBuildAndQueries(t *testing.T) {
	g := buildTest(t, testLayout, 10)

	if g.Cols() != 5 || g.Rows() != 5 {
		t.Fatalf("dims = %dx%d, want 5x5", g.Cols(), g.Rows())
	}
	w, h := g.Bounds()
	if w != 50 || h != 50 {
		t.Fatalf("bounds = %vx%v, want 50x50", w, h)
	}

	if got := g.TileAt(0, 0); got != TileWall {
		t.Errorf("TileAt(0,0) = %v, want wall", got)
	}
	if got := g.TileAt(1, 1); got != TileSpawn {
		t.Errorf("TileAt(1,1) = %v, want spawn", got)
	}
	if got := g.TileAt(2, 2); got != TileWater {
		t.Errorf("TileAt(2,2) = %v, want water", got)
	}
	if got := g.TileAt(2, 1); got != TileOpen {
		t.Errorf("TileAt(2,1) = %v, want open", got)
	}

	// Outside the grid is wall in every direction.
	for _, c := range [][2]int{{-1, 2}, {5, 2}, {2, -1}, {2, 5}} {
		if got := g.TileAt(c[0], c[1]); got != TileWall {
			t.Errorf("TileAt(%d,%d) = %v, want wall", c[0], c[1], got)
		}
	}

	if got := g.KindAt(components.Vec2{X: 25, Y: 25}); got != TileWater {
		t.Errorf("KindAt(25,25) = %v, want water", got)
	}
	if !g.Blocked(components.Vec2{X: -5, Y: 25}) {
		t.Error("position left of the map should be blocked")
	}
}

func TestBuildRejectsUnknownColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	c := layoutColors['.']
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255})
		}
	}
	img.SetNRGBA(2, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	_, err := Build(img, DefaultColorTable(), 10)
	if err == nil {
		t.Fatal("unknown color built without error")
	}
	if !strings.Contains(err.Error(), "(2,1)") {
		t.Errorf("error %q does not name the offending tile", err)
	}
}

func TestBuildRejectsDegenerate(t *testing.T) {
	if _, err := Build(image.NewNRGBA(image.Rect(0, 0, 2, 8)), DefaultColorTable(), 10); err == nil {
		t.Error("2-wide map built without error")
	}
	if _, err := Build(image.NewNRGBA(image.Rect(0, 0, 8, 8)), DefaultColorTable(), 0); err == nil {
		t.Error("zero tile size built without error")
	}
}

func TestGridWorldRoundTrip(t *testing.T) {
	g := buildTest(t, testLayout, 16)

	center := g.GridToWorld(3, 1)
	if center != (components.Vec2{X: 56, Y: 24}) {
		t.Fatalf("GridToWorld(3,1) = %v", center)
	}
	col, row := g.WorldToGrid(center)
	if col != 3 || row != 1 {
		t.Fatalf("WorldToGrid(%v) = (%d,%d), want (3,1)", center, col, row)
	}
}

func TestCollidesCircle(t *testing.T) {
	g := buildTest(t, testLayout, 10)

	// Center of the open tile (2,1); nearest wall edge is 5 units away.
	center := g.GridToWorld(2, 1)
	if g.CollidesCircle(center, 4) {
		t.Error("small circle clear of walls reported colliding")
	}
	if !g.CollidesCircle(center, 6) {
		t.Error("circle reaching into the top wall reported clear")
	}
	// Water does not block.
	if g.CollidesCircle(g.GridToWorld(2, 2), 4.9) {
		t.Error("circle over water reported colliding")
	}
}

func TestSegmentHit(t *testing.T) {
	g := buildTest(t, testLayout, 10)

	a := g.GridToWorld(1, 2)
	b := g.GridToWorld(3, 2)
	if _, hit := g.SegmentHit(a, b); hit {
		t.Error("segment across open ground reported a hit")
	}

	// Straight up out of the map hits the top wall.
	up := components.Vec2{X: a.X, Y: -5}
	p, hit := g.SegmentHit(a, up)
	if !hit {
		t.Fatal("segment through the top wall reported clear")
	}
	if p.Y >= 10 {
		t.Errorf("hit point %v is not inside the wall row", p)
	}

	// Zero-length segment on open ground.
	if _, hit := g.SegmentHit(a, a); hit {
		t.Error("zero-length segment on open ground reported a hit")
	}
}

func TestRandomSpawn(t *testing.T) {
	g := buildTest(t, testLayout, 10)
	if len(g.Spawns()) != 2 {
		t.Fatalf("found %d spawns, want 2", len(g.Spawns()))
	}

	rnd := rand.New(rand.NewSource(42))
	seen := map[components.Vec2]bool{}
	for i := 0; i < 100; i++ {
		pos, angle := g.RandomSpawn(rnd)
		if g.KindAt(pos) != TileSpawn {
			t.Fatalf("spawned on %v tile at %v", g.KindAt(pos), pos)
		}
		if angle < 0 || angle >= 2*3.15 {
			t.Fatalf("spawn angle %v out of range", angle)
		}
		seen[pos] = true
	}
	if len(seen) != 2 {
		t.Errorf("100 spawns used %d of 2 spawn tiles", len(seen))
	}
}

func TestDefaultImageBuilds(t *testing.T) {
	g, err := Build(DefaultImage(), DefaultColorTable(), 32)
	if err != nil {
		t.Fatalf("Build(DefaultImage): %v", err)
	}
	if len(g.Spawns()) == 0 {
		t.Fatal("default map has no spawn tiles")
	}
	// Border must be sealed.
	for col := 0; col < g.Cols(); col++ {
		if g.TileAt(col, 0) != TileWall || g.TileAt(col, g.Rows()-1) != TileWall {
			t.Fatalf("default map border open at column %d", col)
		}
	}
}
