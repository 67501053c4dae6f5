package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warpath/camera"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
)

// playerColors assigns hull colors by player id, wrapping past the end.
var playerColors = []rl.Color{
	{R: 90, G: 170, B: 250, A: 255},
	{R: 240, G: 100, B: 90, A: 255},
	{R: 120, G: 210, B: 110, A: 255},
	{R: 235, G: 200, B: 80, A: 255},
	{R: 200, G: 120, B: 230, A: 255},
	{R: 90, G: 210, B: 210, A: 255},
	{R: 240, G: 150, B: 70, A: 255},
	{R: 180, G: 180, B: 190, A: 255},
}

// PlayerColor returns the hull color for a player id.
func PlayerColor(player uint8) rl.Color {
	return playerColors[int(player)%len(playerColors)]
}

var (
	colorWreck     = rl.Color{R: 70, G: 64, B: 60, A: 255}
	colorWreckEdge = rl.Color{R: 40, G: 36, B: 34, A: 255}
	colorBarBack   = rl.Color{R: 20, G: 20, B: 20, A: 200}
	colorBarFull   = rl.Color{R: 100, G: 200, B: 100, A: 255}
	colorBarLow    = rl.Color{R: 220, G: 80, B: 60, A: 255}
	colorRound     = rl.Color{R: 255, G: 235, B: 170, A: 255}
	colorRocket    = rl.Color{R: 255, G: 180, B: 90, A: 255}
	colorBomblet   = rl.Color{R: 255, G: 140, B: 60, A: 255}
	colorMine      = rl.Color{R: 200, G: 60, B: 50, A: 255}
	colorMineSafe  = rl.Color{R: 130, G: 120, B: 90, A: 255}
	colorBeam      = rl.Color{R: 140, G: 220, B: 255, A: 255}
	colorBfg       = rl.Color{R: 120, G: 255, B: 100, A: 255}
	colorBfgBeam   = rl.Color{R: 150, G: 255, B: 130, A: 200}
	colorBlastHot  = rl.Color{R: 255, G: 220, B: 120, A: 255}
	colorBlastCool = rl.Color{R: 200, G: 70, B: 30, A: 255}
)

// EntityRenderer draws vehicles, projectiles, pickups and effects from the
// committed store state.
type EntityRenderer struct {
	// Overlay toggles, driven by the overlay registry each frame.
	ShowHPBars       bool
	ShowTriggerRadii bool // show mine trigger circles even while arming
	ShowHitboxes     bool
}

// NewEntityRenderer creates an entity renderer.
func NewEntityRenderer() *EntityRenderer {
	return &EntityRenderer{ShowHPBars: true}
}

// Draw renders all live entities visible to the camera. Draw order is
// pickups, projectiles, vehicles, then effects, so explosions and beams
// read on top of the hulls they touch.
func (r *EntityRenderer) Draw(store *entity.Store, cam *camera.Camera) {
	store.ForEachPickup(func(h components.Handle, tr *components.Transform, p *components.PickupState) {
		r.drawPickup(tr, p, cam)
	})
	store.ForEachProjectile(func(h components.Handle, tr *components.Transform, p *components.ProjectileState) {
		r.drawProjectile(tr, p, cam)
	})
	store.ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		r.drawVehicle(tr, v, cam)
	})
	store.ForEachEffect(func(h components.Handle, tr *components.Transform, e *components.EffectState) {
		r.drawEffect(tr, e, cam)
	})
}

func (r *EntityRenderer) drawVehicle(tr *components.Transform, v *components.VehicleState, cam *camera.Camera) {
	radius := float32(config.Cfg().Vehicle.Radius)
	if !cam.IsVisible(tr.Pos.X, tr.Pos.Y, radius*2) {
		return
	}
	sx, sy := cam.WorldToScreen(tr.Pos.X, tr.Pos.Y)
	sr := radius * cam.Zoom

	if v.Dead {
		rl.DrawCircle(int32(sx), int32(sy), sr, colorWreck)
		rl.DrawCircleLines(int32(sx), int32(sy), sr, colorWreckEdge)
		return
	}

	if r.ShowHitboxes {
		rl.DrawCircleLines(int32(sx), int32(sy), sr, rl.Color{R: 255, G: 255, B: 255, A: 90})
	}

	hull := PlayerColor(v.Player)
	if v.InWater {
		hull.R = uint8(float32(hull.R) * 0.7)
		hull.G = uint8(float32(hull.G) * 0.7)
		// Keep blue so submerged hulls tint toward the water.
	}
	rl.DrawCircle(int32(sx), int32(sy), sr, hull)

	// Heading line doubles as the barrel.
	nx := sx + float32(math.Cos(float64(tr.Angle)))*sr*1.5
	ny := sy + float32(math.Sin(float64(tr.Angle)))*sr*1.5
	rl.DrawLineEx(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: nx, Y: ny}, 2*cam.Zoom, rl.White)

	if r.ShowHPBars {
		r.drawHPBar(sx, sy-sr-6*cam.Zoom, sr*2, v, cam)
	}
}

func (r *EntityRenderer) drawHPBar(cx, y, width float32, v *components.VehicleState, cam *camera.Camera) {
	frac := v.HP / float32(config.Cfg().Vehicle.MaxHP)
	if frac > 1 {
		frac = 1
	}
	h := 3 * cam.Zoom
	x := cx - width/2
	fill := colorBarFull
	if frac < 0.3 {
		fill = colorBarLow
	}
	rl.DrawRectangle(int32(x), int32(y), int32(width), int32(h), colorBarBack)
	rl.DrawRectangle(int32(x), int32(y), int32(width*frac), int32(h), fill)
}

func (r *EntityRenderer) drawProjectile(tr *components.Transform, p *components.ProjectileState, cam *camera.Camera) {
	if !cam.IsVisible(tr.Pos.X, tr.Pos.Y, 8) {
		return
	}
	sx, sy := cam.WorldToScreen(tr.Pos.X, tr.Pos.Y)

	switch {
	case p.Bomblet:
		rl.DrawCircle(int32(sx), int32(sy), 2*cam.Zoom, colorBomblet)
	case p.Kind == components.WeaponMachineGun:
		// Rounds draw as short tracers along last tick's travel.
		px, py := cam.WorldToScreen(p.PrevPos.X, p.PrevPos.Y)
		rl.DrawLineEx(rl.Vector2{X: px, Y: py}, rl.Vector2{X: sx, Y: sy}, 1.5*cam.Zoom, colorRound)
	case p.Kind == components.WeaponRocket, p.Kind == components.WeaponHomingMissile, p.Kind == components.WeaponGuidedMissile:
		rl.DrawCircle(int32(sx), int32(sy), 3*cam.Zoom, colorRocket)
		px, py := cam.WorldToScreen(p.PrevPos.X, p.PrevPos.Y)
		rl.DrawLineEx(rl.Vector2{X: px, Y: py}, rl.Vector2{X: sx, Y: sy}, 2*cam.Zoom, rl.Color{R: 255, G: 200, B: 140, A: 140})
	case p.Kind == components.WeaponBFG:
		// The orb pulses so the slow flight still reads as dangerous.
		rl.DrawCircle(int32(sx), int32(sy), 6*cam.Zoom, colorBfg)
		rl.DrawCircleLines(int32(sx), int32(sy), 8*cam.Zoom, colorBfgBeam)
	default:
		rl.DrawCircle(int32(sx), int32(sy), 3*cam.Zoom, colorRound)
	}
}

func (r *EntityRenderer) drawPickup(tr *components.Transform, p *components.PickupState, cam *camera.Camera) {
	if !cam.IsVisible(tr.Pos.X, tr.Pos.Y, p.TriggerRadius) {
		return
	}
	sx, sy := cam.WorldToScreen(tr.Pos.X, tr.Pos.Y)

	body := colorMineSafe
	if p.Armed() {
		body = colorMine
	}
	rl.DrawCircle(int32(sx), int32(sy), 4*cam.Zoom, body)
	if p.Armed() || r.ShowTriggerRadii {
		col := rl.Color{R: 200, G: 60, B: 50, A: 60}
		if !p.Armed() {
			col = rl.Color{R: 130, G: 120, B: 90, A: 60}
		}
		rl.DrawCircleLines(int32(sx), int32(sy), p.TriggerRadius*cam.Zoom, col)
	}
}

func (r *EntityRenderer) drawEffect(tr *components.Transform, e *components.EffectState, cam *camera.Camera) {
	t := float32(e.Age) / float32(e.Duration)
	if t > 1 {
		t = 1
	}

	switch e.Kind {
	case components.EffectRailBeam:
		ax, ay := cam.WorldToScreen(tr.Pos.X, tr.Pos.Y)
		bx, by := cam.WorldToScreen(e.End.X, e.End.Y)
		col := colorBeam
		col.A = uint8(255 * (1 - t))
		rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, 2*cam.Zoom, col)
	case components.EffectBfgBeam:
		ax, ay := cam.WorldToScreen(tr.Pos.X, tr.Pos.Y)
		bx, by := cam.WorldToScreen(e.End.X, e.End.Y)
		col := colorBfgBeam
		col.A = uint8(200 * (1 - t))
		rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, 1.5*cam.Zoom, col)
	case components.EffectExplosion:
		if !cam.IsVisible(tr.Pos.X, tr.Pos.Y, e.Scale) {
			return
		}
		sx, sy := cam.WorldToScreen(tr.Pos.X, tr.Pos.Y)
		// Expand out to full scale while fading from hot to cool.
		radius := e.Scale * (0.3 + 0.7*t) * cam.Zoom
		col := lerpColor(colorBlastHot, colorBlastCool, t)
		col.A = uint8(230 * (1 - t*t))
		rl.DrawCircle(int32(sx), int32(sy), radius, col)
	}
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
