package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warpath/components"
)

// VehicleView is the snapshot of one vehicle shown in the status panel.
// The caller fills it from the store between ticks; the panel never touches
// simulation state directly.
type VehicleView struct {
	Player  uint8
	Bot     bool
	Color   rl.Color
	HP      float32
	MaxHP   float32
	Dead    bool
	Weapon  components.WeaponKind
	Rounds  int16
	Mag     int16
	Reload  int32
	Refire  int32
	Ctrl    components.Input
	Speed   float32
	InWater bool
}

// VehicleStatusPanel renders a descriptor-driven readout for one vehicle,
// used to inspect bots while spectating.
type VehicleStatusPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	sections []SectionDescriptor
}

// NewVehicleStatusPanel creates a status panel at the given position.
func NewVehicleStatusPanel(x, y, width int32) *VehicleStatusPanel {
	return &VehicleStatusPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		sections: vehicleSections(),
	}
}

// SetPosition updates the panel position.
func (p *VehicleStatusPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel for the given vehicle view.
func (p *VehicleStatusPanel) Draw(view VehicleView) int32 {
	r := p.renderer
	padding := r.Theme.Padding

	lines := int32(0)
	for _, sd := range p.sections {
		lines += int32(len(sd.Fields)) + 1
	}
	panelHeight := lines*(r.Theme.LineHeight+2) + padding*2

	r.DrawPanel(p.x, p.y, p.width, panelHeight)

	y := p.y + padding
	for _, sd := range p.sections {
		y = r.DrawSection(p.x+padding, y, sd, &view, p.width-padding*2)
	}
	return y
}

// vehicleSections builds the panel layout. Getters take *VehicleView.
func vehicleSections() []SectionDescriptor {
	v := func(data any) *VehicleView { return data.(*VehicleView) }

	return []SectionDescriptor{
		{
			ID:    "identity",
			Title: "Vehicle",
			Fields: []FieldDescriptor{
				{
					ID: "player", Label: "Player", Widget: WidgetText,
					TextGetter: func(d any) string {
						view := v(d)
						if view.Bot {
							return fmt.Sprintf("bot %d", view.Player)
						}
						return fmt.Sprintf("player %d", view.Player)
					},
				},
				{
					ID: "color", Label: "Color", Widget: WidgetColorSwatch,
					ColorGetter: func(d any) rl.Color { return v(d).Color },
				},
				{
					ID: "state", Label: "State", Widget: WidgetText,
					TextGetter: func(d any) string {
						view := v(d)
						switch {
						case view.Dead:
							return "wreck"
						case view.InWater:
							return "in water"
						default:
							return "driving"
						}
					},
				},
			},
		},
		{
			ID:    "combat",
			Title: "Combat",
			Fields: []FieldDescriptor{
				{
					ID: "hp", Label: "HP", Widget: WidgetAmmoBar,
					Getter:    func(d any) float32 { return v(d).HP },
					MaxGetter: func(d any) float32 { return v(d).MaxHP },
				},
				{
					ID: "weapon", Label: "Weapon", Widget: WidgetText,
					TextGetter: func(d any) string { return v(d).Weapon.String() },
				},
				{
					ID: "ammo", Label: "Ammo", Widget: WidgetText,
					TextGetter: func(d any) string {
						view := v(d)
						if view.Reload > 0 {
							return fmt.Sprintf("reloading (%d)", view.Reload)
						}
						return fmt.Sprintf("%d/%d", view.Rounds, view.Mag)
					},
				},
			},
		},
		{
			ID:    "input",
			Title: "Input",
			Fields: []FieldDescriptor{
				{
					ID: "steer", Label: "Steer", Widget: WidgetCenteredBar,
					Range:  CenteredRange(),
					Getter: func(d any) float32 { return v(d).Ctrl.Steer },
				},
				{
					ID: "throttle", Label: "Throttle", Widget: WidgetCenteredBar,
					Range:  CenteredRange(),
					Getter: func(d any) float32 { return v(d).Ctrl.Throttle },
				},
				{
					ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.1f",
					Getter: func(d any) float32 { return v(d).Speed },
				},
				{
					ID: "fire", Label: "Fire", Widget: WidgetText,
					TextGetter: func(d any) string {
						if v(d).Ctrl.Fire {
							return "FIRING"
						}
						return "-"
					},
				},
			},
		},
	}
}
