package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
)

// tunable binds one slider to a config field.
type tunable struct {
	label    string
	min, max float32
	step     float32 // 0 = continuous; otherwise snapped to multiples
	get      func(*config.Config) float32
	set      func(*config.Config, float32)
}

// Console is the raygui tunables panel. It writes straight into the loaded
// config; the caller must only draw it between ticks so the simulation
// never sees a half-edited catalog.
type Console struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
	weapon   components.WeaponKind

	vehicleTunables []tunable
	weaponTunables  []tunable
}

// NewConsole creates the tunables console.
func NewConsole(x, y, width int32) *Console {
	c := &Console{
		renderer:        NewRenderer(),
		x:               x,
		y:               y,
		width:           width,
		vehicleTunables: vehicleTunables(),
	}
	c.weaponTunables = c.buildWeaponTunables()
	return c
}

// Toggle switches console visibility.
func (c *Console) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the console is shown.
func (c *Console) IsVisible() bool {
	return c.visible
}

// Draw renders the console and applies slider edits to cfg. Returns true
// if any value changed; derived values are already recomputed by then.
func (c *Console) Draw(cfg *config.Config) bool {
	if !c.visible {
		return false
	}

	r := c.renderer
	padding := r.Theme.Padding
	rows := len(c.vehicleTunables) + len(c.weaponTunables)
	panelHeight := int32(rows)*38 + 110

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	sliderW := float32(c.width) - float32(padding)*2 - 60

	rl.DrawText("Tunables", int32(x), int32(y), 16, rl.White)
	y += 24

	changed := false

	rl.DrawText("Vehicle", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += 18
	for i := range c.vehicleTunables {
		if c.drawTunable(&c.vehicleTunables[i], cfg, x, &y, sliderW) {
			changed = true
		}
	}

	// Weapon selector cycles through the catalog.
	y += 6
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: sliderW + 60, Height: 22}, fmt.Sprintf("Weapon: %s", c.weapon)) {
		c.weapon = c.weapon.Next()
	}
	y += 28

	for i := range c.weaponTunables {
		if c.drawTunable(&c.weaponTunables[i], cfg, x, &y, sliderW) {
			changed = true
		}
	}

	if changed {
		if err := cfg.ComputeDerived(); err != nil {
			rl.DrawText(err.Error(), int32(x), int32(y), 12, rl.Red)
		}
	}
	return changed
}

// drawTunable renders one labeled slider and applies its edit.
func (c *Console) drawTunable(t *tunable, cfg *config.Config, x float32, y *float32, width float32) bool {
	r := c.renderer

	rl.DrawText(t.label, int32(x), int32(*y), r.Theme.FontSize, r.Theme.LabelColor)
	*y += 14

	cur := t.get(cfg)
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: width, Height: 18},
		"", "",
		cur, t.min, t.max,
	)
	if t.step > 0 {
		next = float32(int(next/t.step+0.5)) * t.step
	}
	rl.DrawText(fmt.Sprintf("%.2f", cur), int32(x+width+8), int32(*y+2), r.Theme.FontSize, r.Theme.ValueColor)
	*y += 24

	if next != cur {
		t.set(cfg, next)
		return true
	}
	return false
}

// vehicleTunables lists the hull parameters exposed in the console.
func vehicleTunables() []tunable {
	return []tunable{
		{
			label: "Max HP", min: 10, max: 400, step: 5,
			get: func(c *config.Config) float32 { return float32(c.Vehicle.MaxHP) },
			set: func(c *config.Config, v float32) { c.Vehicle.MaxHP = float64(v) },
		},
		{
			label: "Forward accel", min: 50, max: 1200,
			get: func(c *config.Config) float32 { return float32(c.Vehicle.AccelForward) },
			set: func(c *config.Config, v float32) { c.Vehicle.AccelForward = float64(v) },
		},
		{
			label: "Top speed", min: 50, max: 800,
			get: func(c *config.Config) float32 { return float32(c.Vehicle.SpeedMaxForward) },
			set: func(c *config.Config, v float32) { c.Vehicle.SpeedMaxForward = float64(v) },
		},
		{
			label: "Turn rate cap", min: 0.5, max: 12,
			get: func(c *config.Config) float32 { return float32(c.Vehicle.TurnRateMax) },
			set: func(c *config.Config, v float32) { c.Vehicle.TurnRateMax = float64(v) },
		},
	}
}

// buildWeaponTunables lists the per-weapon parameters. The closures look
// up the console's currently selected weapon on every access, so the same
// sliders edit whichever catalog entry is active.
func (c *Console) buildWeaponTunables() []tunable {
	sel := func(cfg *config.Config) *config.WeaponConfig {
		return cfg.Weapons.ByKind(c.weapon)
	}

	return []tunable{
		{
			label: "Damage", min: 1, max: 200, step: 1,
			get: func(cfg *config.Config) float32 { return float32(sel(cfg).Damage) },
			set: func(cfg *config.Config, v float32) { sel(cfg).Damage = float64(v) },
		},
		{
			label: "Refire ticks", min: 1, max: 120, step: 1,
			get: func(cfg *config.Config) float32 { return float32(sel(cfg).RefireTicks) },
			set: func(cfg *config.Config, v float32) { sel(cfg).RefireTicks = int(v) },
		},
		{
			label: "Reload ticks", min: 10, max: 600, step: 10,
			get: func(cfg *config.Config) float32 { return float32(sel(cfg).ReloadTicks) },
			set: func(cfg *config.Config, v float32) { sel(cfg).ReloadTicks = int(v) },
		},
		{
			label: "Range", min: 50, max: 2000, step: 10,
			get: func(cfg *config.Config) float32 { return float32(sel(cfg).Range) },
			set: func(cfg *config.Config, v float32) { sel(cfg).Range = float64(v) },
		},
		{
			label: "Blast radius", min: 0, max: 200, step: 1,
			get: func(cfg *config.Config) float32 { return float32(sel(cfg).BlastRadius) },
			set: func(cfg *config.Config, v float32) { sel(cfg).BlastRadius = float64(v) },
		},
		{
			label: "Spread sigma", min: 0, max: 0.2,
			get: func(cfg *config.Config) float32 { return float32(sel(cfg).SpreadSigma) },
			set: func(cfg *config.Config, v float32) { sel(cfg).SpreadSigma = float64(v) },
		},
	}
}
