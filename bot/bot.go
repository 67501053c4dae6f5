// Package bot drives computer-controlled vehicles. The controller emits
// the same Input struct a player would, during the input phase, so the
// rest of the pipeline cannot tell bots and humans apart.
//
// It keeps no state of its own: a bot's only memory is the Ctrl it wrote
// last tick, which lives in the entity store and therefore rides along in
// snapshots. Restoring a snapshot restores the bots mid-thought.
package bot

import (
	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
	"github.com/pthm-cable/warpath/rng"
)

// Controller computes inputs for every bot vehicle once per tick.
type Controller struct {
	grid *arena.Grid
}

// NewController creates a bot controller for the given arena.
func NewController(grid *arena.Grid) *Controller {
	return &Controller{grid: grid}
}

// Update writes each bot's Input for this tick. Bots are visited in store
// slot order and draw only from the bots stream, so runs with the same
// seed produce the same decisions.
func (c *Controller) Update(store *entity.Store, streams *rng.Streams, tick uint64) {
	cfg := config.Cfg()
	bots := streams.Bots()

	store.ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		if !v.Bot || !v.Alive() {
			return
		}

		target, dist := c.acquire(store, h, tr, v, float32(cfg.Bots.FireRange))
		if !target.IsZero() {
			v.Ctrl = c.attack(cfg, store, tr, target, dist)
		} else {
			v.Ctrl = c.wander(cfg, bots, v.Ctrl, tick)
		}

		// On think ticks a bot sometimes reaches for a different weapon,
		// so long matches exercise the whole catalog.
		think := cfg.Bots.ThinkEvery
		if think > 0 && tick%uint64(think) == 0 && cfg.Bots.SwitchChance > 0 {
			if bots.Float64() < cfg.Bots.SwitchChance {
				kind := components.WeaponKind(bots.Intn(int(components.WeaponCount)))
				if kind == components.WeaponGuidedMissile {
					// Guided missiles need a driver; bots take a dumb
					// rocket instead.
					kind = components.WeaponRocket
				}
				v.Ctrl.WeaponSelect = int8(kind)
			}
		}
	})
}

// Target reports the enemy the bot at h would engage this tick, using the
// same acquisition rule as Update. Read-only; debug overlays use it to
// draw target lines.
func (c *Controller) Target(store *entity.Store, h components.Handle) components.Handle {
	v := store.Vehicle(h)
	tr := store.Transform(h)
	if v == nil || tr == nil || !v.Alive() {
		return components.Handle{}
	}
	target, _ := c.acquire(store, h, tr, v, float32(config.Cfg().Bots.FireRange))
	return target
}

// acquire returns the nearest live enemy with a clear line of sight, or a
// zero handle. Ties break to the lower slot because iteration is in slot
// order and only strictly closer candidates replace the pick.
func (c *Controller) acquire(store *entity.Store, self components.Handle, tr *components.Transform, v *components.VehicleState, fireRange float32) (components.Handle, float32) {
	var best components.Handle
	bestDist := fireRange

	store.ForEachVehicle(func(oh components.Handle, otr *components.Transform, ov *components.VehicleState) {
		if oh == self || !ov.Alive() || ov.Player == v.Player {
			return
		}
		dist := otr.Pos.Sub(tr.Pos).Len()
		if dist >= bestDist {
			return
		}
		if _, blocked := c.grid.SegmentHit(tr.Pos, otr.Pos); blocked {
			return
		}
		best = oh
		bestDist = dist
	})

	return best, bestDist
}

// attack steers toward the target and fires once roughly on aim.
func (c *Controller) attack(cfg *config.Config, store *entity.Store, tr *components.Transform, target components.Handle, dist float32) components.Input {
	in := components.EmptyInput

	aim := store.Transform(target).Pos.Sub(tr.Pos).Angle()
	diff := components.AngleDiff(aim, tr.Angle)

	in.Steer = clamp1(diff * 3)
	// Close the distance but do not ram; hold off at a few hull widths.
	if dist > 4*float32(cfg.Vehicle.Radius) {
		in.Throttle = 1
	}
	if abs32(diff) < float32(cfg.Bots.AimTolerance) {
		in.Fire = true
	}
	return in
}

// wander keeps the previous impulse and occasionally rolls a new one, the
// classic drunk-driving idle. Rolls happen only on think ticks to keep
// the stream draw count low and the motion readable.
func (c *Controller) wander(cfg *config.Config, bots *rng.Stream, prev components.Input, tick uint64) components.Input {
	in := components.EmptyInput
	in.Steer = prev.Steer
	in.Throttle = prev.Throttle

	think := cfg.Bots.ThinkEvery
	if think <= 0 || tick%uint64(think) != 0 {
		return in
	}

	if bots.Float64() < 0.3 {
		in.Throttle = float32(bots.Intn(3) - 1)
	}
	if bots.Float64() < 0.3 {
		in.Steer = float32(bots.Intn(3)-1) * float32(cfg.Bots.WanderStrength)
	}
	return in
}

func clamp1(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
