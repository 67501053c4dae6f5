package systems

import (
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/entity"
)

// ProjectileEvents collects what the flight phase decided this tick. The
// firing pipeline consumes it after collision, so entity creation and
// removal stay out of store iteration.
type ProjectileEvents struct {
	// Expired projectiles reached max range or their fuse; blast weapons
	// detonate where they stopped.
	Expired []components.Handle
	// Split cluster shells release their bomblets this tick.
	Split []components.Handle
}

// Reset clears the event lists for reuse.
func (e *ProjectileEvents) Reset() {
	e.Expired = e.Expired[:0]
	e.Split = e.Split[:0]
}

// ProjectileSystem integrates projectile flight, steers homing missiles,
// and runs lifetimes. Map and vehicle hits are the collision system's job;
// this system only moves things and decides when they stop flying.
type ProjectileSystem struct{}

// NewProjectileSystem creates a projectile system.
func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{}
}

// Update advances every projectile by one tick and fills ev.
func (s *ProjectileSystem) Update(store *entity.Store, ev *ProjectileEvents) {
	cfg := config.Cfg()
	dt := cfg.Derived.DT32

	store.ForEachProjectile(func(h components.Handle, tr *components.Transform, p *components.ProjectileState) {
		wc := cfg.Weapons.ByKind(p.Kind)

		switch {
		case p.Kind == components.WeaponGuidedMissile:
			s.guide(store, h, tr, p, float32(wc.GuideTurn), dt)
		case wc.HomingTurn > 0 && !p.Target.IsZero():
			s.steer(store, tr, p, float32(wc.HomingTurn), dt)
		}

		p.PrevPos = tr.Pos
		tr.Pos = tr.Pos.Add(tr.Vel.Scale(dt))

		if p.Life > 0 {
			p.Life--
			if p.Life == 0 {
				if p.Kind == components.WeaponClusterBomb && !p.Bomblet {
					ev.Split = append(ev.Split, h)
				} else {
					ev.Expired = append(ev.Expired, h)
				}
			}
		}
	})
}

// guide turns a guided missile by its owner's steer input. Only the
// owner's current missile answers the stick; a replaced missile or one
// whose owner is a wreck flies on straight.
func (s *ProjectileSystem) guide(store *entity.Store, h components.Handle, tr *components.Transform, p *components.ProjectileState, turnRate, dt float32) {
	owner := store.Vehicle(p.Owner)
	if owner == nil || !owner.Alive() || owner.Missile != h {
		return
	}
	turn := clampf(owner.Ctrl.Steer, -1, 1) * turnRate * dt
	tr.Vel = tr.Vel.Rotated(turn)
	tr.Angle = tr.Vel.Angle()
}

// steer rotates the missile's velocity toward its lock, capped at the
// homing turn rate. A dead or despawned target breaks the lock and the
// missile flies on straight.
func (s *ProjectileSystem) steer(store *entity.Store, tr *components.Transform, p *components.ProjectileState, turnRate, dt float32) {
	target := store.Vehicle(p.Target)
	if target == nil || !target.Alive() {
		p.Target = components.Handle{}
		return
	}
	targetPos := store.Transform(p.Target).Pos

	want := targetPos.Sub(tr.Pos).Angle()
	have := tr.Vel.Angle()
	diff := components.AngleDiff(want, have)

	turn := clampf(diff, -turnRate*dt, turnRate*dt)
	tr.Vel = tr.Vel.Rotated(turn)
	tr.Angle = tr.Vel.Angle()
}
