package systems

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
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

// openGrid is a 12x8 arena with walls only on the border.
func openGrid(t *testing.T) *arena.Grid {
	t.Helper()
	return gridFromLayout(t, `
############
#..........#
#..........#
#..........#
#..........#
#..........#
#..........#
############
`)
}

func addVehicle(s *entity.Store, pos components.Vec2, angle float32) components.Handle {
	h, ok := s.CreateVehicle(
		components.Transform{Pos: pos, Angle: angle},
		components.VehicleState{HP: float32(config.Cfg().Vehicle.MaxHP)},
	)
	if !ok {
		panic("store full in test")
	}
	return h
}
