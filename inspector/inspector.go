package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warpath/camera"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
)

// pickSlack widens the click target beyond the entity's own radius.
const pickSlack = 6

// Inspector tracks the selected entity and renders its component fields.
type Inspector struct {
	x, y     int32
	width    int32
	selected components.Handle
}

// NewInspector creates an inspector panel anchored to the right edge.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	width := int32(280)
	return &Inspector{
		x:     screenWidth - width - 10,
		y:     10,
		width: width,
	}
}

// Resize repositions the panel after a window resize.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.x = screenWidth - ins.width - 10
}

// HandleInput processes mouse clicks for entity selection. A click on
// empty ground deselects.
func (ins *Inspector) HandleInput(store *entity.Store, cam *camera.Camera) {
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}

	mouse := rl.GetMousePosition()
	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	click := components.Vec2{X: wx, Y: wy}

	best := components.Handle{}
	bestDist := float32(0)

	store.ForEach(func(h components.Handle, class components.Class, tr *components.Transform) {
		r := ins.pickRadius(class)
		d := tr.Pos.Sub(click).LenSq()
		if d > r*r {
			return
		}
		if best.IsZero() || d < bestDist {
			best = h
			bestDist = d
		}
	})

	ins.selected = best
}

// pickRadius returns the click target radius per entity class.
func (ins *Inspector) pickRadius(class components.Class) float32 {
	if class == components.ClassVehicle {
		return float32(config.Cfg().Vehicle.Radius) + pickSlack
	}
	return 2 * pickSlack
}

// Deselect clears the selection.
func (ins *Inspector) Deselect() {
	ins.selected = components.Handle{}
}

// Selected returns the selected entity, if any.
func (ins *Inspector) Selected() (components.Handle, bool) {
	return ins.selected, !ins.selected.IsZero()
}

// Draw renders the panel for the selected entity. Selection clears itself
// when the entity is removed (projectile hit, effect reaped).
func (ins *Inspector) Draw(store *entity.Store) {
	if ins.selected.IsZero() {
		return
	}
	if !store.Valid(ins.selected) {
		ins.Deselect()
		return
	}

	class := store.Class(ins.selected)
	tr := store.Transform(ins.selected)

	fields := ExtractFields(tr)
	fields = append(fields, ins.classFields(store, class)...)

	padding := int32(10)
	height := int32(0)
	for range fields {
		height += 20
	}
	// Angle widgets are taller than a text row.
	height += 60

	rl.DrawRectangle(ins.x, ins.y, ins.width, height+padding*2+24, rl.Color{R: 20, G: 25, B: 30, A: 240})
	rl.DrawRectangleLines(ins.x, ins.y, ins.width, height+padding*2+24, rl.Color{R: 60, G: 70, B: 80, A: 255})

	x := ins.x + padding
	y := ins.y + padding

	rl.DrawText(ins.title(store, class), x, y, 16, rl.White)
	y += 24

	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}

// title names the selected entity for the panel header.
func (ins *Inspector) title(store *entity.Store, class components.Class) string {
	switch class {
	case components.ClassVehicle:
		v := store.Vehicle(ins.selected)
		if v.Bot {
			return fmt.Sprintf("Bot %d", v.Player)
		}
		return fmt.Sprintf("Player %d", v.Player)
	case components.ClassProjectile:
		return fmt.Sprintf("Projectile (%s)", store.Projectile(ins.selected).Kind)
	case components.ClassPickup:
		return fmt.Sprintf("Pickup (%s)", store.Pickup(ins.selected).Kind)
	case components.ClassEffect:
		return fmt.Sprintf("Effect (%s)", store.Effect(ins.selected).Kind)
	default:
		return "Entity"
	}
}

// classFields extracts the class-specific component of the selection.
func (ins *Inspector) classFields(store *entity.Store, class components.Class) []Field {
	switch class {
	case components.ClassVehicle:
		return ExtractFields(store.Vehicle(ins.selected))
	case components.ClassProjectile:
		return ExtractFields(store.Projectile(ins.selected))
	case components.ClassPickup:
		return ExtractFields(store.Pickup(ins.selected))
	case components.ClassEffect:
		return ExtractFields(store.Effect(ins.selected))
	default:
		return nil
	}
}

// DrawSelectionHighlight rings the selected entity in the world view.
func (ins *Inspector) DrawSelectionHighlight(store *entity.Store, cam *camera.Camera) {
	if ins.selected.IsZero() || !store.Valid(ins.selected) {
		return
	}

	tr := store.Transform(ins.selected)
	sx, sy := cam.WorldToScreen(tr.Pos.X, tr.Pos.Y)

	radius := ins.pickRadius(store.Class(ins.selected)) * cam.Zoom
	rl.DrawCircleLines(int32(sx), int32(sy), radius, rl.Yellow)
	rl.DrawCircleLines(int32(sx), int32(sy), radius+2, rl.Color{R: 255, G: 255, B: 0, A: 120})
}
