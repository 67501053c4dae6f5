package ui

import (
	"fmt"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ScoreRow is one vehicle's line on the scoreboard.
type ScoreRow struct {
	Name   string
	Color  rl.Color
	Kills  int
	Deaths int
	Dead   bool
}

// ScoreboardPanel renders per-player kills and deaths, centered on screen
// while the scoreboard overlay is held.
type ScoreboardPanel struct {
	renderer *Renderer
	width    int32
}

// NewScoreboardPanel creates a scoreboard panel.
func NewScoreboardPanel(width int32) *ScoreboardPanel {
	return &ScoreboardPanel{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Draw renders the scoreboard centered in the given screen area. Rows
// are sorted by kills, then fewest deaths, then name for a stable order.
func (p *ScoreboardPanel) Draw(rows []ScoreRow, screenWidth, screenHeight int32) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Kills != rows[j].Kills {
			return rows[i].Kills > rows[j].Kills
		}
		if rows[i].Deaths != rows[j].Deaths {
			return rows[i].Deaths < rows[j].Deaths
		}
		return rows[i].Name < rows[j].Name
	})

	r := p.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := int32(len(rows)+2)*lineHeight + padding*2
	x := screenWidth/2 - p.width/2
	y := screenHeight/2 - panelHeight/2

	r.DrawPanel(x, y, p.width, panelHeight)

	cy := y + padding
	rl.DrawText("Scoreboard", x+padding, cy, 16, rl.White)
	cy += lineHeight + 4

	colKills := x + p.width - padding - 80
	colDeaths := x + p.width - padding - 36
	rl.DrawText("K", colKills, cy, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText("D", colDeaths, cy, r.Theme.FontSize, r.Theme.LabelColor)
	cy += lineHeight

	for _, row := range rows {
		rl.DrawRectangle(x+padding, cy+2, 8, 8, row.Color)

		nameColor := rl.White
		if row.Dead {
			nameColor = rl.Color{R: 140, G: 140, B: 140, A: 255}
		}
		rl.DrawText(row.Name, x+padding+14, cy, r.Theme.FontSize, nameColor)

		rl.DrawText(fmt.Sprintf("%d", row.Kills), colKills, cy, r.Theme.FontSize, rl.White)
		rl.DrawText(fmt.Sprintf("%d", row.Deaths), colDeaths, cy, r.Theme.FontSize, rl.White)
		cy += lineHeight
	}
}
