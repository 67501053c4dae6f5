// Package weapons implements the weapon catalog mechanics shared by player
// and bot fire: spread sampling, muzzle velocities, ammo cycling, and blast
// damage falloff. Everything here is pure computation over the catalog; the
// firing pipeline in game wires it to entities.
package weapons

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/rng"
)

// SpreadAngle draws one Gaussian aim deviation in radians from the given
// stream. Sigma zero means a perfectly straight shot without consuming
// a draw, so toggling spread off does not shift the stream.
func SpreadAngle(stream *rng.Stream, sigma float64) float32 {
	if sigma == 0 {
		return 0
	}
	n := distuv.Normal{Mu: 0, Sigma: sigma, Src: stream}
	return float32(n.Rand())
}

// MuzzleVelocity computes a projectile's initial velocity for a shot fired
// at the given world angle. Weapons with inherit_vel add the firing
// vehicle's velocity on top, like a shell fired from a moving hull.
func MuzzleVelocity(wc *config.WeaponConfig, angle float32, vehicleVel components.Vec2) components.Vec2 {
	v := components.FromAngle(angle).Scale(float32(wc.Speed))
	if wc.InheritVel {
		v = v.Add(vehicleVel)
	}
	return v
}

// FalloffDamage computes blast damage at dist from the blast center.
// Distance zero always yields full damage; anything at or beyond the
// radius yields zero.
func FalloffDamage(base float64, dist, radius float32, mode config.Falloff) float32 {
	if radius <= 0 || dist <= 0 {
		return float32(base)
	}
	if dist >= radius {
		return 0
	}
	switch mode {
	case config.FalloffInverseSquare:
		// Full damage inside a quarter-radius core, then 1/d^2 out to the
		// edge. The residual base/16 at the edge drops to zero past it.
		core := radius / 4
		if dist <= core {
			return float32(base)
		}
		r := core / dist
		return float32(base) * r * r
	default:
		return float32(base) * (1 - dist/radius)
	}
}

// NewAmmo returns the ammo state for a freshly spawned vehicle's weapon.
func NewAmmo(wc *config.WeaponConfig) components.AmmoState {
	return components.AmmoState{Rounds: int16(wc.Magazine)}
}

// CanFire reports whether the weapon can discharge this tick.
func CanFire(a *components.AmmoState) bool {
	return a.Rounds > 0 && a.Refire <= 0
}

// Consume spends one round and starts the refire timer. Emptying the
// magazine starts the reload.
func Consume(a *components.AmmoState, wc *config.WeaponConfig) {
	a.Rounds--
	a.Refire = int32(wc.RefireTicks)
	if a.Rounds <= 0 {
		a.Reload = int32(wc.ReloadTicks)
	}
}

// Tick advances one weapon's timers by one tick. Refire counts down
// always; the reload counts down only while the magazine is empty and
// refills it when it expires.
func Tick(a *components.AmmoState, wc *config.WeaponConfig) {
	if a.Refire > 0 {
		a.Refire--
	}
	if a.Rounds <= 0 && a.Reload > 0 {
		a.Reload--
		if a.Reload == 0 {
			a.Rounds = int16(wc.Magazine)
		}
	}
}

// TickAll advances every weapon's timers on a vehicle. Reloads continue
// on holstered weapons, so switching away does not pause them.
func TickAll(v *components.VehicleState, weapons *config.WeaponsConfig) {
	for kind := components.WeaponKind(0); kind < components.WeaponCount; kind++ {
		Tick(&v.Ammo[kind], weapons.ByKind(kind))
	}
}

// ClusterVelocities returns the bomblet velocities for a splitting cluster
// shell: uniform directions with speed jitter, all drawn from the given
// stream in a fixed order.
func ClusterVelocities(stream *rng.Stream, shellVel components.Vec2, count int, speed float64) []components.Vec2 {
	out := make([]components.Vec2, count)
	for i := range out {
		angle := stream.Float32() * 2 * 3.14159265
		mag := float32(speed) * (0.5 + stream.Float32()*0.5)
		out[i] = shellVel.Scale(0.25).Add(components.FromAngle(angle).Scale(mag))
	}
	return out
}
