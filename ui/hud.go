package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warpath/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         uint64
	FPS          int32
	State        string // driver state label
	Vehicles     int
	Projectiles  int
	HP           float32
	MaxHP        float32
	Weapon       string
	Rounds       int
	Magazine     int
	ReloadTicks  int32 // 0 when not reloading
	Dead         bool
	RespawnSecs  float32
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Vehicles: %d | Projectiles: %d",
			data.Tick, data.FPS, data.Vehicles, data.Projectiles),
		10, 35, 16, rl.LightGray,
	)

	stateColor := rl.Yellow
	if data.State == "paused" {
		stateColor = rl.Orange
	}
	rl.DrawText(data.State, 10, 55, 16, stateColor)
}

// DrawStatusBar renders one player's HP and weapon readout along the
// bottom edge, anchored at x. Splitscreen draws one per pane.
func (h *HUD) DrawStatusBar(data HUDData, x int32) {
	r := h.renderer
	y := data.ScreenHeight - 58
	width := int32(280)

	r.DrawPanel(x, y, width, 48)

	if data.Dead {
		msg := fmt.Sprintf("DESTROYED - respawn in %.1fs", data.RespawnSecs)
		if data.RespawnSecs <= 0 {
			msg = "DESTROYED - press FIRE to respawn"
		}
		rl.DrawText(msg, x+10, y+16, 16, rl.Red)
		return
	}

	r.DrawAmmoBar(x+10, y+6, "HP", data.HP, data.MaxHP, width-20)

	ammo := fmt.Sprintf("%d/%d", data.Rounds, data.Magazine)
	if data.ReloadTicks > 0 {
		ammo = "RELOADING"
	}
	r.DrawLabelValue(x+10, y+26, data.Weapon, ammo, width-20)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// perfPhaseOrder fixes the display order to match the tick pipeline.
var perfPhaseOrder = []string{
	telemetry.PhaseInput,
	telemetry.PhaseMovement,
	telemetry.PhaseFlight,
	telemetry.PhaseBroadphase,
	telemetry.PhaseCollision,
	telemetry.PhaseWeapons,
	telemetry.PhaseReap,
	telemetry.PhaseTimers,
	telemetry.PhaseTelemetry,
}

// PerfPanel renders the tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	height := int32(len(perfPhaseOrder))*14 + 60
	p.renderer.DrawPanel(x-6, y-6, 220, height)

	rl.DrawText("Tick Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s (%.0f t/s)",
		stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range perfPhaseOrder {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %6s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
