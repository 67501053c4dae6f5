package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
)

func TestThrottleAcceleratesForward(t *testing.T) {
	grid := openGrid(t)
	sys := NewMovementSystem(grid)
	store := entity.NewStore(8)

	h := addVehicle(store, components.Vec2{X: 100, Y: 100}, 0)
	store.Vehicle(h).Ctrl.Throttle = 1

	for i := 0; i < 30; i++ {
		sys.Update(store)
	}

	tr := store.Transform(h)
	if tr.Vel.X <= 0 {
		t.Errorf("Vel.X = %v after 30 ticks of full throttle", tr.Vel.X)
	}
	if math.Abs(float64(tr.Vel.Y)) > 1e-3 {
		t.Errorf("Vel.Y = %v, want ~0 for angle 0", tr.Vel.Y)
	}
	if tr.Pos.X <= 100 {
		t.Errorf("Pos.X = %v, vehicle did not move", tr.Pos.X)
	}
}

func TestSpeedClamp(t *testing.T) {
	grid := openGrid(t)
	sys := NewMovementSystem(grid)
	store := entity.NewStore(8)

	h := addVehicle(store, components.Vec2{X: 64, Y: 100}, 0)
	store.Vehicle(h).Ctrl.Throttle = 1

	maxSpeed := float32(config.Cfg().Vehicle.SpeedMaxForward)
	for i := 0; i < 300; i++ {
		sys.Update(store)
		if speed := store.Transform(h).Vel.Len(); speed > maxSpeed+1e-3 {
			t.Fatalf("tick %d: speed %v exceeds cap %v", i, speed, maxSpeed)
		}
		// Keep it away from the east wall.
		if store.Transform(h).Pos.X > 250 {
			store.Transform(h).Pos.X = 64
		}
	}
}

func TestFrictionStopsCoasting(t *testing.T) {
	grid := openGrid(t)
	sys := NewMovementSystem(grid)
	store := entity.NewStore(8)

	h := addVehicle(store, components.Vec2{X: 100, Y: 100}, 0)
	store.Transform(h).Vel = components.Vec2{X: 120}

	prev := store.Transform(h).Vel.Len()
	for i := 0; i < 120; i++ {
		sys.Update(store)
		speed := store.Transform(h).Vel.Len()
		if speed > prev+1e-4 {
			t.Fatalf("tick %d: speed rose from %v to %v with no throttle", i, prev, speed)
		}
		prev = speed
	}
	if prev > 1 {
		t.Errorf("speed %v after 2s of coasting, want near 0", prev)
	}
}

func TestWallContactDampsVelocity(t *testing.T) {
	grid := openGrid(t)
	sys := NewMovementSystem(grid)
	store := entity.NewStore(8)

	radius := float32(config.Cfg().Vehicle.Radius)
	// Just inside the east wall (wall starts at x=352), charging at it.
	h := addVehicle(store, components.Vec2{X: 352 - radius - 2, Y: 100}, 0)
	store.Transform(h).Vel = components.Vec2{X: 200}

	bounced := false
	for i := 0; i < 20; i++ {
		sys.Update(store)
		tr := store.Transform(h)
		if grid.CollidesCircle(tr.Pos, radius) {
			t.Fatalf("tick %d: vehicle inside wall at %v", i, tr.Pos)
		}
		if tr.Vel.X < 0 {
			bounced = true
		}
	}
	if !bounced {
		t.Error("velocity never reflected off the wall")
	}
}

func TestWaterHalvesTopSpeed(t *testing.T) {
	water := gridFromLayout(t, `
############
#~~~~~~~~~~#
#~~~~~~~~~~#
#~~~~~~~~~~#
#~~~~~~~~~~#
#~~~~~~~~~~#
#~~~~~~~~~~#
############
`)
	sys := NewMovementSystem(water)
	store := entity.NewStore(8)

	h := addVehicle(store, components.Vec2{X: 64, Y: 100}, 0)
	store.Vehicle(h).Ctrl.Throttle = 1

	var top float32
	for i := 0; i < 300; i++ {
		sys.Update(store)
		top = maxf(top, store.Transform(h).Vel.Len())
		if store.Transform(h).Pos.X > 250 {
			store.Transform(h).Pos.X = 64
		}
	}

	limit := float32(config.Cfg().Vehicle.SpeedMaxForward * config.Cfg().Vehicle.WaterSpeedFactor)
	if top > limit+1e-3 {
		t.Errorf("top speed in water = %v, limit %v", top, limit)
	}
	if !store.Vehicle(h).InWater {
		t.Error("InWater not set while driving through water")
	}
}

func TestSteeringNeedsSpeed(t *testing.T) {
	grid := openGrid(t)
	sys := NewMovementSystem(grid)
	store := entity.NewStore(8)

	still := addVehicle(store, components.Vec2{X: 100, Y: 100}, 0)
	moving := addVehicle(store, components.Vec2{X: 200, Y: 100}, 0)
	store.Vehicle(still).Ctrl.Steer = 1
	store.Vehicle(moving).Ctrl.Steer = 1
	store.Vehicle(moving).Ctrl.Throttle = 1

	for i := 0; i < 60; i++ {
		sys.Update(store)
	}

	stillTurn := math.Abs(float64(components.AngleDiff(store.Transform(still).Angle, 0)))
	movingTurn := math.Abs(float64(components.AngleDiff(store.Transform(moving).Angle, 0)))
	if stillTurn > 0.02 {
		t.Errorf("stationary vehicle turned %v rad", stillTurn)
	}
	if movingTurn < 0.1 {
		t.Errorf("moving vehicle turned only %v rad", movingTurn)
	}
}

func TestDeadVehicleIgnoresInput(t *testing.T) {
	grid := openGrid(t)
	sys := NewMovementSystem(grid)
	store := entity.NewStore(8)

	h := addVehicle(store, components.Vec2{X: 100, Y: 100}, 0)
	v := store.Vehicle(h)
	v.Dead = true
	v.Ctrl.Throttle = 1
	v.Ctrl.Steer = 1
	store.Transform(h).Vel = components.Vec2{X: 50}

	for i := 0; i < 60; i++ {
		sys.Update(store)
	}

	tr := store.Transform(h)
	if tr.Angle != 0 {
		t.Errorf("wreck turned to %v", tr.Angle)
	}
	if tr.Vel.Len() > 1 {
		t.Errorf("wreck still moving at %v after 1s", tr.Vel.Len())
	}
}
