package systems

import (
	"math"

	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
)

// MovementSystem integrates vehicle driving: an angular-momentum turning
// model, throttle acceleration with two-part friction, and wall contact.
// Dead vehicles keep coasting so wrecks slide to a stop.
type MovementSystem struct {
	grid *arena.Grid
}

// NewMovementSystem creates a movement system for the given arena.
func NewMovementSystem(grid *arena.Grid) *MovementSystem {
	return &MovementSystem{grid: grid}
}

// Update advances every vehicle by one tick.
func (s *MovementSystem) Update(store *entity.Store) {
	cfg := config.Cfg()
	vc := &cfg.Vehicle
	dt := cfg.Derived.DT32

	store.ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		v.InWater = s.grid.KindAt(tr.Pos) == arena.TileWater

		if v.Alive() {
			ctrl := v.Ctrl
			if !v.Missile.IsZero() {
				// Steer and throttle belong to the missile while guiding;
				// the hull sits still but can keep shooting.
				ctrl.Steer, ctrl.Throttle = 0, 0
			}
			tr.Angle = s.turning(vc, tr, v, &ctrl, dt)
			s.accelDecel(vc, tr, v, &ctrl, dt)
		} else {
			// Wrecks only coast and decay.
			s.applyFriction(vc, tr, dt)
		}

		newPos := tr.Pos.Add(tr.Vel.Scale(dt))
		if s.grid.CollidesCircle(newPos, float32(vc.Radius)) {
			tr.Vel = tr.Vel.Scale(float32(vc.WallBounce))
			v.TurnRate *= float32(vc.WallBounce)
		} else {
			tr.Pos = newPos
		}
	})
}

// turning advances the turn rate and rotates both hull and velocity,
// returning the new hull angle. Input raises the turn rate, two-part
// friction bleeds it, and the clamp caps it; actual turning is scaled by
// grip, so a stationary vehicle barely turns and a reversing one steers
// mirrored, like a car.
func (s *MovementSystem) turning(vc *config.VehicleConfig, tr *components.Transform, v *components.VehicleState, ctrl *components.Input, dt float32) float32 {
	v.TurnRate += ctrl.Steer * float32(vc.TurnRateIncrease) * dt

	frC := float32(vc.TurnRateFrictionC) * dt
	if v.TurnRate >= 0 {
		v.TurnRate = maxf(v.TurnRate-frC, 0)
	} else {
		v.TurnRate = minf(v.TurnRate+frC, 0)
	}

	frL := float32(math.Pow(1-vc.TurnRateFrictionL, float64(dt)))
	v.TurnRate = clampf(v.TurnRate*frL, -float32(vc.TurnRateMax), float32(vc.TurnRateMax))

	steerCoef := float32(1)
	if vc.SteeringThreshold > 0 {
		sign := float32(1)
		if components.FromAngle(tr.Angle).Dot(tr.Vel) < 0 {
			sign = -1
		}
		grip := minf(tr.Vel.Len(), float32(vc.SteeringThreshold))
		steerCoef = grip * sign / float32(vc.SteeringThreshold)
	}

	turn := v.TurnRate * dt * steerCoef
	tr.Vel = tr.Vel.Rotated(turn * float32(vc.SteeringCarry))

	return components.NormalizeAngle(tr.Angle + turn)
}

// accelDecel applies throttle along the hull axis, then friction and the
// speed clamp. Water halves the cap rather than the throttle, so vehicles
// wade in fast and bleed speed.
func (s *MovementSystem) accelDecel(vc *config.VehicleConfig, tr *components.Transform, v *components.VehicleState, ctrl *components.Input, dt float32) {
	accel := float32(0)
	if ctrl.Throttle > 0 {
		accel = ctrl.Throttle * float32(vc.AccelForward)
	} else if ctrl.Throttle < 0 {
		accel = ctrl.Throttle * float32(vc.AccelBackward)
	}
	tr.Vel = tr.Vel.Add(components.FromAngle(tr.Angle).Scale(accel * dt))

	s.applyFriction(vc, tr, dt)

	maxSpeed := float32(vc.SpeedMaxForward)
	if components.FromAngle(tr.Angle).Dot(tr.Vel) < 0 {
		maxSpeed = float32(vc.SpeedMaxBackward)
	}
	if v.InWater {
		maxSpeed *= float32(vc.WaterSpeedFactor)
	}
	if tr.Vel.LenSq() > maxSpeed*maxSpeed {
		tr.Vel = tr.Vel.Normalized().Scale(maxSpeed)
	}
}

func (s *MovementSystem) applyFriction(vc *config.VehicleConfig, tr *components.Transform, dt float32) {
	speed := tr.Vel.Len()
	if speed > 0 {
		frC := minf(float32(vc.FrictionConst)*dt, speed)
		tr.Vel = tr.Vel.Sub(tr.Vel.Scale(frC / speed))
	}
	tr.Vel = tr.Vel.Scale(float32(math.Pow(1-vc.FrictionLinear, float64(dt))))
}
