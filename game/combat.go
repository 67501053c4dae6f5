package game

import (
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/systems"
	"github.com/pthm-cable/warpath/weapons"
)

const (
	// muzzleOffset is how far past the hull radius projectiles spawn, so a
	// fresh round never starts inside its own vehicle's circle.
	muzzleOffset = 2
	// mineDropOffset is how far behind the hull a mine lands.
	mineDropOffset = 6

	explosionTicks = 30
	beamTicks      = 8
)

// resolveContacts consumes this tick's contact list in emission order.
// Stale handles are skipped: a projectile can appear in both the contact
// list and the expiry list, and whichever resolves first wins.
func (s *Session) resolveContacts() {
	cfg := config.Cfg()

	for _, c := range s.contacts {
		switch c.Kind {
		case systems.ContactProjectileVehicle:
			p := s.store.Projectile(c.A)
			if p == nil {
				continue
			}
			kind, owner := p.Kind, p.Owner
			s.store.Remove(c.A)

			s.collector.RecordHit(kind)
			if v := s.store.Vehicle(c.B); v != nil {
				s.damage(c.B, v, float32(cfg.Weapons.ByKind(kind).Damage), owner, true)
			}
			// Blast spares the direct target; it already took full damage.
			s.explode(kind, c.Pos, owner, c.B)

		case systems.ContactProjectileMap:
			p := s.store.Projectile(c.A)
			if p == nil {
				continue
			}
			kind, owner := p.Kind, p.Owner
			s.store.Remove(c.A)

			s.collector.RecordWallImpact()
			s.explode(kind, c.Pos, owner, components.Handle{})

		case systems.ContactPickupVehicle:
			p := s.store.Pickup(c.A)
			if p == nil {
				continue
			}
			owner := p.Owner
			s.store.Remove(c.A)

			s.collector.RecordHit(components.WeaponMine)
			wc := &cfg.Weapons.Mine
			falloff := cfg.Derived.Weapons[components.WeaponMine].Falloff
			// An armed mine hits everyone, its owner included.
			s.blastDamage(c.Pos, wc.Damage, float32(wc.BlastRadius), falloff,
				owner, components.Handle{}, true, true)
			s.spawnExplosion(c.Pos, float32(wc.BlastRadius))

		case systems.ContactVehicleVehicle:
			// Pushback was applied in the collision phase; ramming itself
			// deals no damage.
		}
	}
	s.spawnPendingFX()
}

// resolveSplits turns each fused cluster shell into its bomblets.
func (s *Session) resolveSplits() {
	cfg := config.Cfg()
	wc := &cfg.Weapons.ClusterBomb
	life := cfg.Derived.Weapons[components.WeaponClusterBomb].LifeTicks

	for _, h := range s.projEv.Split {
		p := s.store.Projectile(h)
		if p == nil {
			continue
		}
		tr := s.store.Transform(h)
		pos, vel, owner := tr.Pos, tr.Vel, p.Owner
		s.store.Remove(h)

		vels := weapons.ClusterVelocities(s.streams.Spread(), vel, wc.ClusterCount, wc.Speed)
		for _, bv := range vels {
			s.spawnProjectile(pos, bv, components.WeaponClusterBomb, owner, true, life, components.Handle{})
		}
	}
}

// resolveExpired detonates projectiles that reached max range. Blast
// weapons explode where they stopped; plain rounds just vanish.
func (s *Session) resolveExpired() {
	for _, h := range s.projEv.Expired {
		p := s.store.Projectile(h)
		if p == nil {
			continue
		}
		kind, owner := p.Kind, p.Owner
		pos := s.store.Transform(h).Pos
		s.store.Remove(h)

		s.explode(kind, pos, owner, components.Handle{})
	}
	s.spawnPendingFX()
}

// beamHit is one BFG arc found this tick, applied after iteration.
type beamHit struct {
	from, to      components.Vec2
	target, owner components.Handle
}

// bfgBeams arcs a trickle of damage from every flying BFG orb to each
// enemy vehicle in beam range with a clear line of sight. The arcs are
// found during iteration and applied after it; each connected arc also
// leaves a short-lived beam effect, re-spawned every tick it holds.
func (s *Session) bfgBeams() {
	cfg := config.Cfg()
	wc := &cfg.Weapons.BFG
	if wc.BeamRange <= 0 || wc.BeamDPS <= 0 {
		return
	}
	dmg := float32(wc.BeamDPS) * cfg.Derived.DT32
	rangeSq := float32(wc.BeamRange * wc.BeamRange)

	s.beamHits = s.beamHits[:0]
	s.store.ForEachProjectile(func(h components.Handle, tr *components.Transform, p *components.ProjectileState) {
		if p.Kind != components.WeaponBFG {
			return
		}
		pos, owner := tr.Pos, p.Owner
		s.store.ForEachVehicle(func(vh components.Handle, vtr *components.Transform, v *components.VehicleState) {
			if vh == owner || !v.Alive() {
				return
			}
			if vtr.Pos.Sub(pos).LenSq() > rangeSq {
				return
			}
			if _, blocked := s.grid.SegmentHit(pos, vtr.Pos); blocked {
				return
			}
			s.beamHits = append(s.beamHits, beamHit{from: pos, to: vtr.Pos, target: vh, owner: owner})
		})
	})

	for _, b := range s.beamHits {
		if v := s.store.Vehicle(b.target); v != nil {
			s.damage(b.target, v, dmg, b.owner, true)
		}
		e := components.EffectState{Kind: components.EffectBfgBeam, Duration: 2, End: b.to}
		if _, ok := s.store.CreateEffect(components.Transform{Pos: b.from}, e); !ok {
			s.collector.RecordDroppedSpawn()
		}
	}
	s.spawnPendingFX()
}

// fireWeapons discharges every vehicle that held fire this tick with a
// ready weapon. Firing vehicles are collected first and processed after,
// in slot order, because discharge creates entities.
func (s *Session) fireWeapons() {
	cfg := config.Cfg()

	s.fireQueue = s.fireQueue[:0]
	s.store.ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		if v.Alive() && v.Ctrl.Fire && weapons.CanFire(&v.Ammo[v.CurWeapon]) {
			s.fireQueue = append(s.fireQueue, h)
		}
	})

	for _, h := range s.fireQueue {
		v := s.store.Vehicle(h)
		if v == nil || !v.Alive() {
			continue
		}
		tr := s.store.Transform(h)
		kind := v.CurWeapon
		wc := cfg.Weapons.ByKind(kind)

		weapons.Consume(&v.Ammo[kind], wc)
		s.collector.RecordShot(kind)

		switch kind {
		case components.WeaponRailgun:
			s.fireRailgun(h, tr, wc)
		case components.WeaponMine:
			s.layMine(h, tr, wc)
		case components.WeaponHomingMissile:
			target := s.acquireLock(h, v, tr.Pos, float32(wc.Range))
			s.fireShot(h, tr, kind, wc, target)
		case components.WeaponGuidedMissile:
			s.fireGuided(h, v, tr, wc)
		default:
			s.fireShot(h, tr, kind, wc, components.Handle{})
		}
	}
	s.spawnPendingFX()
}

// fireShot spawns the projectile(s) for one trigger pull. Cluster shells
// get their fuse as lifetime; everything else flies out to max range.
func (s *Session) fireShot(owner components.Handle, tr *components.Transform, kind components.WeaponKind, wc *config.WeaponConfig, target components.Handle) {
	cfg := config.Cfg()

	life := cfg.Derived.Weapons[kind].LifeTicks
	if kind == components.WeaponClusterBomb {
		life = int32(wc.FuseTicks)
	}

	muzzle := tr.Pos.Add(components.FromAngle(tr.Angle).Scale(float32(cfg.Vehicle.Radius) + muzzleOffset))

	pellets := wc.Pellets
	if pellets < 1 {
		pellets = 1
	}
	for i := 0; i < pellets; i++ {
		angle := tr.Angle + weapons.SpreadAngle(s.streams.Spread(), wc.SpreadSigma)
		vel := weapons.MuzzleVelocity(wc, angle, tr.Vel)
		s.spawnProjectile(muzzle, vel, kind, owner, false, life, target)
	}
}

// fireGuided launches the owner-steered missile and binds it to the
// hull. Launching another transfers guidance; the old missile flies on
// straight until it expires or hits.
func (s *Session) fireGuided(owner components.Handle, v *components.VehicleState, tr *components.Transform, wc *config.WeaponConfig) {
	cfg := config.Cfg()
	life := cfg.Derived.Weapons[components.WeaponGuidedMissile].LifeTicks

	muzzle := tr.Pos.Add(components.FromAngle(tr.Angle).Scale(float32(cfg.Vehicle.Radius) + muzzleOffset))
	vel := weapons.MuzzleVelocity(wc, tr.Angle, tr.Vel)

	h := s.spawnProjectile(muzzle, vel, components.WeaponGuidedMissile, owner, false, life, components.Handle{})
	if !h.IsZero() {
		v.Missile = h
	}
}

// fireRailgun resolves a hitscan beam in the firing tick: the beam is
// clipped at the first wall, the earliest vehicle along it takes the full
// damage, and a beam effect marks the trace.
func (s *Session) fireRailgun(owner components.Handle, tr *components.Transform, wc *config.WeaponConfig) {
	cfg := config.Cfg()
	radius := float32(cfg.Vehicle.Radius)

	angle := tr.Angle + weapons.SpreadAngle(s.streams.Spread(), wc.SpreadSigma)
	dir := components.FromAngle(angle)
	muzzle := tr.Pos.Add(dir.Scale(radius + muzzleOffset))
	end := muzzle.Add(dir.Scale(float32(wc.Range)))

	wallHit := false
	if hitPos, ok := s.grid.SegmentHit(muzzle, end); ok {
		end = hitPos
		wallHit = true
	}

	bestT := float32(2)
	var bestH components.Handle
	s.store.ForEachVehicle(func(vh components.Handle, vtr *components.Transform, v *components.VehicleState) {
		if vh == owner || !v.Alive() {
			return
		}
		t, ok := systems.SegmentCircleHit(muzzle, end, vtr.Pos, radius)
		if ok && t < bestT {
			bestT = t
			bestH = vh
		}
	})

	if !bestH.IsZero() {
		end = muzzle.Add(end.Sub(muzzle).Scale(bestT))
		s.collector.RecordHit(components.WeaponRailgun)
		if v := s.store.Vehicle(bestH); v != nil {
			s.damage(bestH, v, float32(wc.Damage), owner, true)
		}
	} else if wallHit {
		s.collector.RecordWallImpact()
	}

	beam := components.EffectState{Kind: components.EffectRailBeam, Duration: beamTicks, End: end}
	if _, ok := s.store.CreateEffect(components.Transform{Pos: muzzle, Angle: angle}, beam); !ok {
		s.collector.RecordDroppedSpawn()
	}
}

// layMine drops an armed-after-delay proximity mine behind the hull.
func (s *Session) layMine(owner components.Handle, tr *components.Transform, wc *config.WeaponConfig) {
	cfg := config.Cfg()

	pos := tr.Pos.Sub(components.FromAngle(tr.Angle).Scale(float32(cfg.Vehicle.Radius) + mineDropOffset))
	if s.grid.Blocked(pos) {
		pos = tr.Pos
	}

	mine := components.PickupState{
		Kind:          components.PickupMine,
		Owner:         owner,
		ArmDelay:      int32(wc.ArmTicks),
		TriggerRadius: float32(wc.TriggerRange),
	}
	if _, ok := s.store.CreatePickup(components.Transform{Pos: pos}, mine); !ok {
		s.collector.RecordDroppedSpawn()
		return
	}
	s.collector.RecordMineLaid()
}

// acquireLock picks the nearest live enemy within range for a homing
// shot. Only strictly closer candidates replace the pick, so ties break
// to the lower slot.
func (s *Session) acquireLock(self components.Handle, selfV *components.VehicleState, from components.Vec2, maxRange float32) components.Handle {
	var best components.Handle
	bestDist := maxRange

	s.store.ForEachVehicle(func(vh components.Handle, vtr *components.Transform, v *components.VehicleState) {
		if vh == self || !v.Alive() || v.Player == selfV.Player {
			return
		}
		dist := vtr.Pos.Sub(from).Len()
		if dist < bestDist {
			best = vh
			bestDist = dist
		}
	})
	return best
}

// selfDestruct detonates a vehicle in place. The blast follows the
// vehicle self-destruct tunables, and the owner always takes the full
// center damage, which is sized to be lethal.
func (s *Session) selfDestruct(h components.Handle) {
	cfg := config.Cfg()
	tr := s.store.Transform(h)
	if tr == nil {
		return
	}

	vc := &cfg.Vehicle
	s.blastDamage(tr.Pos, vc.SelfDestructDamage, float32(vc.SelfDestructRadius),
		config.FalloffLinear, h, components.Handle{}, true, false)
	s.spawnExplosion(tr.Pos, float32(vc.SelfDestructRadius))
}

// explode applies a weapon's blast around center and spawns the
// explosion effect. Weapons without a blast radius do neither. skip is
// exempt (the direct-hit target already took full damage); the owner is
// only hit when the weapon self-hits.
func (s *Session) explode(kind components.WeaponKind, center components.Vec2, owner, skip components.Handle) {
	cfg := config.Cfg()
	wc := cfg.Weapons.ByKind(kind)
	if wc.BlastRadius <= 0 {
		return
	}

	falloff := cfg.Derived.Weapons[kind].Falloff
	s.blastDamage(center, wc.Damage, float32(wc.BlastRadius), falloff, owner, skip, wc.SelfHit, true)
	s.spawnExplosion(center, float32(wc.BlastRadius))
}

// blastDamage applies falloff damage to every live vehicle around center.
func (s *Session) blastDamage(center components.Vec2, base float64, radius float32, falloff config.Falloff, owner, skip components.Handle, selfHit, fromWeapon bool) {
	s.store.ForEachVehicle(func(vh components.Handle, vtr *components.Transform, v *components.VehicleState) {
		if !v.Alive() || vh == skip {
			return
		}
		if vh == owner && !selfHit {
			return
		}
		dist := vtr.Pos.Sub(center).Len()
		dmg := weapons.FalloffDamage(base, dist, radius, falloff)
		if dmg > 0 {
			s.damage(vh, v, dmg, owner, fromWeapon)
		}
	})
}

// damage applies damage to a vehicle, clamping HP at zero. Reaching zero
// kills it: the vehicle becomes a wreck with a respawn countdown and a
// queued explosion. attacker is the vehicle credited on a kill; hitting
// yourself credits nothing. fromWeapon distinguishes kills from suicides
// in the stats.
func (s *Session) damage(h components.Handle, v *components.VehicleState, amount float32, attacker components.Handle, fromWeapon bool) {
	if amount <= 0 || !v.Alive() {
		return
	}

	applied := amount
	if applied > v.HP {
		applied = v.HP
	}
	v.HP -= applied
	s.collector.RecordDamage(float64(applied))

	if v.HP > 0 {
		return
	}

	cfg := config.Cfg()
	v.HP = 0
	v.Dead = true
	v.RespawnTicks = int32(cfg.Vehicle.RespawnDelayTicks)
	v.Deaths++

	s.collector.RecordDeath()
	if fromWeapon {
		s.collector.RecordKill()
	}
	if fromWeapon && attacker != h {
		if av := s.store.Vehicle(attacker); av != nil {
			av.Kills++
		}
	}

	if tr := s.store.Transform(h); tr != nil {
		s.reapFX = append(s.reapFX, pendingFX{pos: tr.Pos, scale: 2 * float32(cfg.Vehicle.Radius)})
	}
}

// spawnProjectile creates one projectile, dropping the spawn at
// capacity; the zero handle marks a drop.
func (s *Session) spawnProjectile(pos, vel components.Vec2, kind components.WeaponKind, owner components.Handle, bomblet bool, life int32, target components.Handle) components.Handle {
	tr := components.Transform{Pos: pos, Vel: vel, Angle: vel.Angle()}
	p := components.ProjectileState{
		Kind:    kind,
		Owner:   owner,
		PrevPos: pos,
		Life:    life,
		Target:  target,
		Bomblet: bomblet,
	}
	h, ok := s.store.CreateProjectile(tr, p)
	if !ok {
		s.collector.RecordDroppedSpawn()
		return components.Handle{}
	}
	return h
}

// spawnExplosion creates an explosion effect sized to the blast, with a
// cosmetic scale jitter drawn from the effects stream.
func (s *Session) spawnExplosion(pos components.Vec2, radius float32) {
	if radius <= 0 {
		return
	}
	scale := radius * (0.9 + 0.2*s.streams.Effects().Float32())
	e := components.EffectState{Kind: components.EffectExplosion, Duration: explosionTicks, Scale: scale}
	if _, ok := s.store.CreateEffect(components.Transform{Pos: pos}, e); !ok {
		s.collector.RecordDroppedSpawn()
	}
}

// spawnPendingFX drains the explosions queued during store iteration.
func (s *Session) spawnPendingFX() {
	for _, fx := range s.reapFX {
		e := components.EffectState{Kind: components.EffectExplosion, Duration: explosionTicks, Scale: fx.scale}
		if _, ok := s.store.CreateEffect(components.Transform{Pos: fx.pos}, e); !ok {
			s.collector.RecordDroppedSpawn()
		}
	}
	s.reapFX = s.reapFX[:0]
}
