package arena

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
)

// defaultLayout is the built-in arena, one rune per tile.
// '#' wall, '.' open, '~' water, 'S' spawn.
const defaultLayout = `
##############################
#S..........................S#
#............................#
#..##......~~~.......##......#
#....S..............S........#
#......####..........####....#
#............................#
#S.......~~~~........##.....S#
#........~~~~........##......#
#..##........................#
#..##......S........S........#
#............................#
#S..........####............S#
##############################
`

var layoutColors = map[rune][3]uint8{
	'.': {48, 104, 48},
	'#': {96, 96, 96},
	'~': {32, 80, 192},
	'S': {255, 200, 64},
}

// DefaultImage renders the built-in arena layout as an image understood
// by the default color table. Sessions started without a map file use it.
func DefaultImage() image.Image {
	rows := strings.Split(strings.TrimSpace(defaultLayout), "\n")
	img := image.NewNRGBA(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		if len(row) != len(rows[0]) {
			panic(fmt.Sprintf("arena: default layout row %d is %d wide, want %d", y, len(row), len(rows[0])))
		}
		for x, r := range row {
			c, ok := layoutColors[r]
			if !ok {
				panic(fmt.Sprintf("arena: default layout has unmapped rune %q at (%d,%d)", r, x, y))
			}
			img.SetNRGBA(x, y, color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255})
		}
	}
	return img
}

// LoadFile decodes a PNG map file and builds a grid with the default
// color table.
func LoadFile(path string, tileSize float32) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening map %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding map %s: %w", path, err)
	}
	g, err := Build(img, DefaultColorTable(), tileSize)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	if len(g.Spawns()) == 0 {
		return nil, fmt.Errorf("map %s has no spawn tiles", path)
	}
	return g, nil
}
